package printer_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/farmer/internal/model"
	"github.com/slok/farmer/internal/printer"
)

func reportFixture() model.RunReport {
	startedAt := time.Date(2026, 1, 30, 1, 0, 0, 0, time.UTC)
	return model.RunReport{
		ID:          "01HZX3ABCDEFGHJKMNPQRSTVWX",
		AccountID:   "acc-1",
		AccountName: "alice",
		StartedAt:   startedAt,
		FinishedAt:  startedAt.Add(40 * time.Second),
		Initial:     &model.FarmProgress{TotalEnergy: 100, TreeEnergy: 500, TreeTotalEnergy: 1000, PrizeName: "apples"},
		Final:       &model.FarmProgress{TotalEnergy: 130, TreeEnergy: 600, TreeTotalEnergy: 1000, PrizeName: "apples"},
		Steps: []model.StepResult{
			{
				Step:      model.StepFirstWater,
				StartedAt: startedAt,
				Duration:  1500 * time.Millisecond,
				Outcome:   model.Outcome{Status: model.OutcomeStatusSuccess, Reward: 30, Message: "first water: +30"},
			},
			{
				Step:      model.StepSignIn,
				StartedAt: startedAt,
				Outcome:   model.Outcome{Status: model.OutcomeStatusSkipped, Message: "sign in: skipped"},
			},
		},
	}
}

func TestTablePrinterPrintRunReports(t *testing.T) {
	tests := map[string]struct {
		report model.RunReport
		expIn  []string
		expOut []string
	}{
		"A completed run should show the drops and the steps.": {
			report: reportFixture(),
			expIn: []string{
				"Account: alice (acc-1)",
				"Started: 2026-01-30 09:00:00 UTC+8",
				"Drops:   100 -> 130 (+30 gained)",
				"Tree:    600/1000 (400 remaining)",
				"STEP",
				"first-water",
				"+30",
				"first water: +30",
				"sign-in",
			},
			expOut: []string{"Aborted:"},
		},
		"An aborted run should show the reason.": {
			report: func() model.RunReport {
				r := reportFixture()
				r.Aborted = true
				r.AbortReason = "farm: remote rejected"
				r.Final = nil
				return r
			}(),
			expIn:  []string{"Aborted: farm: remote rejected"},
			expOut: []string{"Drops:"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			p := printer.NewTablePrinter(&buf)

			err := p.PrintRunReports([]model.RunReport{test.report})
			require.NoError(t, err)

			out := buf.String()
			for _, exp := range test.expIn {
				assert.Contains(t, out, exp)
			}
			for _, exp := range test.expOut {
				assert.NotContains(t, out, exp)
			}
		})
	}
}

func TestTablePrinterPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	err := p.PrintStatus([]model.AccountStatus{
		{
			AccountID:   "acc-1",
			AccountName: "alice",
			Snapshot:    &model.FarmSnapshot{Progress: model.FarmProgress{TotalEnergy: 42, TreeEnergy: 10, TreeTotalEnergy: 50, PrizeName: "apples"}},
			Cards:       &model.CardInventory{DoubleCard: 2, SignCard: 1},
		},
		{
			AccountID:   "acc-2",
			AccountName: "bob",
			Error:       "session expired",
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ACCOUNT")
	assert.Contains(t, out, "apples")
	assert.Contains(t, out, "10/50")
	assert.Contains(t, out, "session expired")
}

func TestTablePrinterPrintHistory(t *testing.T) {
	tests := map[string]struct {
		reports []model.RunReport
		expIn   []string
	}{
		"No runs should print a message.": {
			reports: nil,
			expIn:   []string{"No runs found"},
		},
		"Runs should be listed with their counters.": {
			reports: []model.RunReport{reportFixture()},
			expIn:   []string{"01HZX3ABCDEFGHJKMNPQRSTVWX", "alice", "completed", "+30", "ago"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			p := printer.NewTablePrinter(&buf)

			err := p.PrintHistory(test.reports)
			require.NoError(t, err)

			for _, exp := range test.expIn {
				assert.Contains(t, buf.String(), exp)
			}
		})
	}
}

func TestJSONPrinterPrintRunReports(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := p.PrintRunReports([]model.RunReport{reportFixture()})
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "acc-1", got[0]["account_id"])
	assert.Equal(t, float64(30), got[0]["total_reward"])
	assert.Equal(t, "2026-01-30T01:00:00Z", got[0]["started_at"])

	steps := got[0]["steps"].([]any)
	require.Len(t, steps, 2)
	first := steps[0].(map[string]any)
	assert.Equal(t, "first-water", first["step"])
	assert.Equal(t, float64(1500), first["duration_ms"])
}

func TestJSONPrinterPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := p.PrintStatus([]model.AccountStatus{{
		AccountID:   "acc-1",
		AccountName: "alice",
		Snapshot:    &model.FarmSnapshot{Progress: model.FarmProgress{TotalEnergy: 42}, CanPop: true},
	}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"total_energy": 42`)
	assert.Contains(t, out, `"can_pop": true`)
	assert.NotContains(t, out, `"cards"`)
}

func TestTablePrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	require.NoError(t, p.PrintMessage("hello"))
	assert.Equal(t, "hello\n", buf.String())
}

func TestJSONPrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	require.NoError(t, p.PrintMessage("hello"))
	assert.JSONEq(t, `{"message":"hello"}`, buf.String())
}
