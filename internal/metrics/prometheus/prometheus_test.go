package prometheus_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	metricsprometheus "github.com/slok/farmer/internal/metrics/prometheus"
	"github.com/slok/farmer/internal/model"
)

func TestRecorder(t *testing.T) {
	tests := map[string]struct {
		record     func(r *metricsprometheus.Recorder)
		metricName string
		expMetrics string
	}{
		"Gateway requests should be counted by action and code.": {
			record: func(r *metricsprometheus.Recorder) {
				r.ObserveGatewayRequest(context.TODO(), "initForFarm", "0", 10*time.Millisecond)
				r.ObserveGatewayRequest(context.TODO(), "initForFarm", "0", 10*time.Millisecond)
				r.ObserveGatewayRequest(context.TODO(), "waterGoodForFarm", "999", time.Second)
			},
			metricName: "farmer_gateway_requests_total",
			expMetrics: `
# HELP farmer_gateway_requests_total Total farm requests by action and response code.
# TYPE farmer_gateway_requests_total counter
farmer_gateway_requests_total{action="initForFarm",code="0"} 2
farmer_gateway_requests_total{action="waterGoodForFarm",code="999"} 1
`,
		},
		"Steps should be counted by step and status.": {
			record: func(r *metricsprometheus.Recorder) {
				r.ObserveStep(context.TODO(), model.StepTenWaters, model.OutcomeStatusSuccess)
				r.ObserveStep(context.TODO(), model.StepWaterRain, model.OutcomeStatusSkipped)
			},
			metricName: "farmer_run_steps_total",
			expMetrics: `
# HELP farmer_run_steps_total Total run steps by step and outcome status.
# TYPE farmer_run_steps_total counter
farmer_run_steps_total{status="skipped",step="water-rain"} 1
farmer_run_steps_total{status="success",step="ten-waters"} 1
`,
		},
		"Runs rewards should be accumulated.": {
			record: func(r *metricsprometheus.Recorder) {
				r.ObserveRun(context.TODO(), false, 30)
				r.ObserveRun(context.TODO(), true, 0)
				r.ObserveRun(context.TODO(), false, 12)
			},
			metricName: "farmer_run_reward_drops_total",
			expMetrics: `
# HELP farmer_run_reward_drops_total Total water drops obtained.
# TYPE farmer_run_reward_drops_total counter
farmer_run_reward_drops_total 42
`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			rec, err := metricsprometheus.NewRecorder(metricsprometheus.RecorderConfig{Registerer: reg})
			require.NoError(t, err)

			test.record(rec)

			err = testutil.GatherAndCompare(reg, strings.NewReader(test.expMetrics), test.metricName)
			assert.NoError(t, err)
		})
	}
}

func TestNewRecorderWithoutRegisterer(t *testing.T) {
	_, err := metricsprometheus.NewRecorder(metricsprometheus.RecorderConfig{})
	assert.Error(t, err)
}
