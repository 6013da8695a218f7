package prometheus

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/slok/farmer/internal/metrics"
	"github.com/slok/farmer/internal/model"
)

const namespace = "farmer"

// RecorderConfig is the configuration of the Prometheus recorder.
type RecorderConfig struct {
	Registerer prometheus.Registerer
}

func (c *RecorderConfig) defaults() error {
	if c.Registerer == nil {
		return fmt.Errorf("registerer is required")
	}
	return nil
}

// Recorder records the farm metrics on Prometheus collectors.
type Recorder struct {
	gatewayRequests *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	steps           *prometheus.CounterVec
	runs            *prometheus.CounterVec
	rewards         prometheus.Counter
}

var _ metrics.Recorder = &Recorder{}

// NewRecorder returns a new Prometheus recorder with its collectors registered.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	factory := promauto.With(cfg.Registerer)

	return &Recorder{
		gatewayRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total farm requests by action and response code.",
		}, []string{"action", "code"}),

		gatewayDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Duration of farm requests.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"action"}),

		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "steps_total",
			Help:      "Total run steps by step and outcome status.",
		}, []string{"step", "status"}),

		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "runs_total",
			Help:      "Total account runs.",
		}, []string{"aborted"}),

		rewards: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "reward_drops_total",
			Help:      "Total water drops obtained.",
		}),
	}, nil
}

func (r *Recorder) ObserveGatewayRequest(_ context.Context, action, code string, duration time.Duration) {
	r.gatewayRequests.WithLabelValues(action, code).Inc()
	r.gatewayDuration.WithLabelValues(action).Observe(duration.Seconds())
}

func (r *Recorder) ObserveStep(_ context.Context, step model.StepName, status model.OutcomeStatus) {
	r.steps.WithLabelValues(string(step), string(status)).Inc()
}

func (r *Recorder) ObserveRun(_ context.Context, aborted bool, reward int) {
	r.runs.WithLabelValues(strconv.FormatBool(aborted)).Inc()
	if reward > 0 {
		r.rewards.Add(float64(reward))
	}
}
