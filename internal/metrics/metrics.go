package metrics

import (
	"context"
	"time"

	"github.com/slok/farmer/internal/model"
)

// Recorder knows how to record farm run metrics.
type Recorder interface {
	// ObserveGatewayRequest records a farm request by action and resulting envelope code.
	ObserveGatewayRequest(ctx context.Context, action, code string, duration time.Duration)
	// ObserveStep records the outcome of a run step.
	ObserveStep(ctx context.Context, step model.StepName, status model.OutcomeStatus)
	// ObserveRun records a finished run.
	ObserveRun(ctx context.Context, aborted bool, reward int)
}

// Noop is a Recorder that doesn't record anything.
const Noop = noop(0)

type noop int

func (noop) ObserveGatewayRequest(context.Context, string, string, time.Duration) {}
func (noop) ObserveStep(context.Context, model.StepName, model.OutcomeStatus)     {}
func (noop) ObserveRun(context.Context, bool, int)                                {}
