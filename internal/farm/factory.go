package farm

import (
	"fmt"
	"net/http"

	"github.com/slok/farmer/internal/gateway"
	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/metrics"
	"github.com/slok/farmer/internal/model"
	"github.com/slok/farmer/internal/sign"
)

// FactoryConfig is the configuration shared by the services of every account.
type FactoryConfig struct {
	Signer            sign.Signer
	BaseURL           string
	HTTPClient        *http.Client
	Lang              string
	ClaimStageRewards bool
	Clock             Clock
	MetricsRecorder   metrics.Recorder
	Logger            log.Logger
}

func (c *FactoryConfig) defaults() error {
	if c.Signer == nil {
		return fmt.Errorf("signer is required")
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Noop
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Factory builds the farm service of an account, each one with its own gateway.
type Factory struct {
	cfg FactoryConfig
}

// NewFactory returns a new service factory.
func NewFactory(cfg FactoryConfig) (*Factory, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Factory{cfg: cfg}, nil
}

// NewService returns the farm service of an account.
func (f *Factory) NewService(acc model.Account) (*Service, error) {
	gw, err := gateway.New(gateway.Config{
		BaseURL:         f.cfg.BaseURL,
		Account:         acc,
		Signer:          f.cfg.Signer,
		HTTPClient:      f.cfg.HTTPClient,
		Clock:           f.cfg.Clock,
		MetricsRecorder: f.cfg.MetricsRecorder,
		Logger:          f.cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create gateway: %w", err)
	}

	return NewService(ServiceConfig{
		Gateway:           gw,
		Account:           acc,
		Clock:             f.cfg.Clock,
		Lang:              f.cfg.Lang,
		ClaimStageRewards: f.cfg.ClaimStageRewards,
		MetricsRecorder:   f.cfg.MetricsRecorder,
		Logger:            f.cfg.Logger,
	})
}
