package farm

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/text/message"

	"github.com/slok/farmer/internal/i18n"
	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/metrics"
	"github.com/slok/farmer/internal/model"
)

// Gateway sends farm actions. Implementations never fail, every outcome is
// returned as an envelope.
type Gateway interface {
	Send(ctx context.Context, action string, body any) model.Envelope
	SendUnsigned(ctx context.Context, action string, body any) model.Envelope
}

// Clock is the time source of the pacing waits and time gated tasks.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// ServiceConfig is the configuration of the farm service.
type ServiceConfig struct {
	Gateway Gateway
	Account model.Account
	Clock   Clock
	// Lang is the language of the outcome messages (en, zh).
	Lang string
	// ClaimStageRewards enables the stage reward claim, disabled by default.
	ClaimStageRewards bool
	MetricsRecorder   metrics.Recorder
	Logger            log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Gateway == nil {
		return fmt.Errorf("gateway is required")
	}

	if c.Account.ID == "" {
		return fmt.Errorf("account id is required")
	}

	if c.Account.Name == "" {
		c.Account.Name = c.Account.ID
	}

	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}

	if c.Lang == "" {
		c.Lang = i18n.LangEnglish
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Noop
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "farm.Service", "account": c.Account.Name})

	return nil
}

// Service runs the daily farm tasks of a single account. It is not safe for
// concurrent use, accounts are run with one service each.
type Service struct {
	gw                Gateway
	account           model.Account
	clock             Clock
	printer           *message.Printer
	claimStageRewards bool
	metrics           metrics.Recorder
	logger            log.Logger
}

// NewService returns a new farm service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		gw:                cfg.Gateway,
		account:           cfg.Account,
		clock:             cfg.Clock,
		printer:           i18n.NewPrinter(cfg.Lang),
		claimStageRewards: cfg.ClaimStageRewards,
		metrics:           cfg.MetricsRecorder,
		logger:            cfg.Logger,
	}, nil
}

const (
	waterPace   = time.Second
	promoPace   = time.Second
	friendPace  = time.Second
	cardPace    = 2 * time.Second
	collectPace = 2 * time.Second

	waterRainCooldown   = 3 * time.Hour
	maxCollectAttempts  = 10
	maxSignCards        = 3
	doubleCardMinEnergy = 100

	// collectLimitCode is returned by the collection reward when the daily limit is reached.
	collectLimitCode = "10"
)

// chinaTime is the fixed zone the farm days and claim windows are computed on.
var chinaTime = time.FixedZone("UTC+8", 8*60*60)

// pause waits for d unless the context is cancelled first.
func (s *Service) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(d):
		return nil
	}
}

type kv = map[string]any

// appBody returns the body used by the app home farm actions.
func appBody(extra kv) kv {
	return withBase(kv{"version": 18, "channel": 1, "babelChannel": "121"}, extra)
}

// pageBody returns the body used by the farm page actions.
func pageBody(extra kv) kv {
	return withBase(kv{"version": 18, "channel": 3, "babelChannel": "10"}, extra)
}

func withBase(base, extra kv) kv {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// decode decodes the envelope into a result, missing or mistyped fields
// are left at their zero value.
func decode[T any](env model.Envelope) T {
	var v T
	_ = env.Decode(&v)
	return v
}

// popFlag is embedded on several responses to signal a pending pop reward.
type popFlag struct {
	CanPop bool `json:"canPop"`
}

func (s *Service) name(key string) string { return s.printer.Sprintf(key) }

func (s *Service) info(format string, args ...any) {
	s.logger.Infof("%s", s.printer.Sprintf(format, args...))
}

func (s *Service) warn(format string, args ...any) {
	s.logger.Warningf("%s", s.printer.Sprintf(format, args...))
}

func (s *Service) success(reward int, format string, args ...any) model.Outcome {
	msg := s.printer.Sprintf(format, args...)
	s.logger.Infof("%s", msg)
	return model.Outcome{Status: model.OutcomeStatusSuccess, Reward: reward, Message: msg}
}

func (s *Service) skipped(format string, args ...any) model.Outcome {
	msg := s.printer.Sprintf(format, args...)
	s.logger.Infof("%s", msg)
	return model.Outcome{Status: model.OutcomeStatusSkipped, Message: msg}
}

func (s *Service) failed(format string, args ...any) model.Outcome {
	msg := s.printer.Sprintf(format, args...)
	s.logger.Warningf("%s", msg)
	return model.Outcome{Status: model.OutcomeStatusFailed, Message: msg}
}

// summary returns the outcome of a task made of several sub tasks.
func (s *Service) summary(name string, done, failed, reward int) model.Outcome {
	if done == 0 {
		return s.failed("%s: %d done, %d failed, got %dg drops", name, done, failed, reward)
	}
	return s.success(reward, "%s: %d done, %d failed, got %dg drops", name, done, failed, reward)
}
