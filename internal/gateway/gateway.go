package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/metrics"
	"github.com/slok/farmer/internal/model"
	"github.com/slok/farmer/internal/sign"
)

const (
	DefaultBaseURL       = "https://api.m.jd.com/client.action"
	DefaultUserAgent     = "JD4iPhone/168328 (iPhone; iOS; Scale/3.00)"
	DefaultReferer       = "https://carry.m.jd.com/"
	DefaultClientVersion = "11.2.8"
	DefaultTimeout       = 30 * time.Second

	maxResponseBytes = 10 << 20
)

// Clock is the time source of the request latency.
type Clock interface {
	Now() time.Time
}

// Config is the configuration of the Gateway.
type Config struct {
	// BaseURL is the farm endpoint, every action is sent to it.
	BaseURL string
	// Account is the account the requests are authenticated as.
	Account model.Account
	// Signer signs the actions.
	Signer sign.Signer
	// HTTPClient is the transport, by default a client with a 30s timeout.
	HTTPClient *http.Client
	// UserAgent is the client identification sent on every request.
	UserAgent       string
	Referer         string
	ClientVersion   string
	// Clock measures the request latency, by default the wall clock.
	Clock           Clock
	MetricsRecorder metrics.Recorder
	Logger          log.Logger
}

func (c *Config) defaults() error {
	if c.Signer == nil {
		return fmt.Errorf("signer is required")
	}

	if c.Account.Cookie == "" {
		return fmt.Errorf("account cookie is required")
	}

	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	if c.Referer == "" {
		c.Referer = DefaultReferer
	}

	if c.ClientVersion == "" {
		c.ClientVersion = DefaultClientVersion
	}

	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Noop
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "gateway.Gateway", "account": c.Account.Name})

	return nil
}

// Gateway sends farm actions and normalizes every outcome into a model.Envelope,
// it never returns an error: transport and decode failures become sentinel envelopes.
type Gateway struct {
	baseURL       string
	cookie        string
	signer        sign.Signer
	httpClient    *http.Client
	userAgent     string
	referer       string
	clientVersion string
	clock         Clock
	metrics       metrics.Recorder
	logger        log.Logger
}

// New returns a new Gateway.
func New(cfg Config) (*Gateway, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Gateway{
		baseURL:       cfg.BaseURL,
		cookie:        cfg.Account.Cookie,
		signer:        cfg.Signer,
		httpClient:    cfg.HTTPClient,
		userAgent:     cfg.UserAgent,
		referer:       cfg.Referer,
		clientVersion: cfg.ClientVersion,
		clock:         cfg.Clock,
		metrics:       cfg.MetricsRecorder,
		logger:        cfg.Logger,
	}, nil
}

// Send sends a signed action. The body can be a JSON string or any value that
// can be marshaled to JSON.
func (g *Gateway) Send(ctx context.Context, action string, body any) model.Envelope {
	payload, err := encodeBody(body)
	if err != nil {
		return model.TransportFailure(err)
	}

	query := url.Values{}
	query.Set("functionId", action)
	query.Set("appid", "signed_wh5")
	query.Set("sign", g.signer.Sign(action, payload))

	return g.do(ctx, action, query, payload)
}

// SendUnsigned sends an action through the unsigned app endpoint, used by the
// actions that are not served by the signed one (e.g. the friend list).
func (g *Gateway) SendUnsigned(ctx context.Context, action string, body any) model.Envelope {
	payload, err := encodeBody(body)
	if err != nil {
		return model.TransportFailure(err)
	}

	query := url.Values{}
	query.Set("functionId", action)
	query.Set("appid", "wh5")
	query.Set("client", "iOS")
	query.Set("clientVersion", g.clientVersion)

	return g.do(ctx, action, query, payload)
}

func (g *Gateway) do(ctx context.Context, action string, query url.Values, payload string) model.Envelope {
	start := g.clock.Now()
	env := g.exchange(ctx, query, payload)
	g.metrics.ObserveGatewayRequest(ctx, action, env.Code, g.clock.Now().Sub(start))

	switch env.Code {
	case model.CodeTransport:
		g.logger.Warningf("Action %s failed: %s", action, env.Message)
	case model.CodeNoCode:
		g.logger.Warningf("Action %s returned a response without code", action)
	default:
		g.logger.Debugf("Action %s returned code %s", action, env.Code)
	}

	return env
}

func (g *Gateway) exchange(ctx context.Context, query url.Values, payload string) model.Envelope {
	form := url.Values{}
	form.Set("body", payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"?"+query.Encode(), strings.NewReader(form.Encode()))
	if err != nil {
		return model.TransportFailure(fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", g.cookie)
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Referer", g.referer)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return model.TransportFailure(fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.TransportFailure(fmt.Errorf("reading response body: %w", err))
	}

	env := model.ParseEnvelope(data)
	if env.Code == model.CodeTransport && resp.StatusCode >= 400 {
		return model.TransportFailure(fmt.Errorf("API error (%d): %s", resp.StatusCode, env.Message))
	}

	return env
}

func encodeBody(body any) (string, error) {
	switch v := body.(type) {
	case nil:
		return "{}", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request body: %w", err)
	}
	return string(data), nil
}
