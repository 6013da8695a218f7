package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/slok/farmer/internal/model"
)

// JSONPrinter prints farm information as JSON.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter returns a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type jsonProgress struct {
	TotalEnergy     int    `json:"total_energy"`
	TreeEnergy      int    `json:"tree_energy"`
	TreeTotalEnergy int    `json:"tree_total_energy"`
	Remaining       int    `json:"remaining"`
	PrizeName       string `json:"prize_name,omitempty"`
}

type jsonStep struct {
	Step       string `json:"step"`
	Status     string `json:"status"`
	Reward     int    `json:"reward"`
	Message    string `json:"message"`
	StartedAt  string `json:"started_at"`
	DurationMs int64  `json:"duration_ms"`
}

type jsonRunReport struct {
	ID          string        `json:"id"`
	AccountID   string        `json:"account_id"`
	AccountName string        `json:"account_name"`
	StartedAt   string        `json:"started_at"`
	FinishedAt  string        `json:"finished_at"`
	Aborted     bool          `json:"aborted"`
	AbortReason string        `json:"abort_reason,omitempty"`
	TotalReward int           `json:"total_reward"`
	Initial     *jsonProgress `json:"initial,omitempty"`
	Final       *jsonProgress `json:"final,omitempty"`
	Steps       []jsonStep    `json:"steps"`
}

type jsonCards struct {
	DoubleCard int `json:"double_card"`
	FastCard   int `json:"fast_card"`
	SignCard   int `json:"sign_card"`
	BeanCard   int `json:"bean_card"`
}

type jsonStatus struct {
	AccountID   string        `json:"account_id"`
	AccountName string        `json:"account_name"`
	Progress    *jsonProgress `json:"progress,omitempty"`
	CanPop      bool          `json:"can_pop"`
	Cards       *jsonCards    `json:"cards,omitempty"`
	Error       string        `json:"error,omitempty"`
}

type jsonMessage struct {
	Message string `json:"message"`
}

func (j *JSONPrinter) PrintRunReports(reports []model.RunReport) error {
	out := make([]jsonRunReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, toJSONRunReport(r))
	}
	return j.encode(out)
}

func (j *JSONPrinter) PrintStatus(statuses []model.AccountStatus) error {
	out := make([]jsonStatus, 0, len(statuses))
	for _, s := range statuses {
		js := jsonStatus{
			AccountID:   s.AccountID,
			AccountName: s.AccountName,
			Error:       s.Error,
		}
		if s.Snapshot != nil {
			js.Progress = toJSONProgress(&s.Snapshot.Progress)
			js.CanPop = s.Snapshot.CanPop
		}
		if s.Cards != nil {
			js.Cards = &jsonCards{
				DoubleCard: s.Cards.DoubleCard,
				FastCard:   s.Cards.FastCard,
				SignCard:   s.Cards.SignCard,
				BeanCard:   s.Cards.BeanCard,
			}
		}
		out = append(out, js)
	}
	return j.encode(out)
}

func (j *JSONPrinter) PrintHistory(reports []model.RunReport) error {
	return j.PrintRunReports(reports)
}

func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(jsonMessage{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("could not encode JSON: %w", err)
	}
	return nil
}

func toJSONRunReport(r model.RunReport) jsonRunReport {
	jr := jsonRunReport{
		ID:          r.ID,
		AccountID:   r.AccountID,
		AccountName: r.AccountName,
		StartedAt:   r.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:  r.FinishedAt.UTC().Format(time.RFC3339),
		Aborted:     r.Aborted,
		AbortReason: r.AbortReason,
		TotalReward: r.TotalReward(),
		Initial:     toJSONProgress(r.Initial),
		Final:       toJSONProgress(r.Final),
		Steps:       make([]jsonStep, 0, len(r.Steps)),
	}
	for _, s := range r.Steps {
		jr.Steps = append(jr.Steps, jsonStep{
			Step:       string(s.Step),
			Status:     string(s.Outcome.Status),
			Reward:     s.Outcome.Reward,
			Message:    s.Outcome.Message,
			StartedAt:  s.StartedAt.UTC().Format(time.RFC3339),
			DurationMs: s.Duration.Milliseconds(),
		})
	}
	return jr
}

func toJSONProgress(p *model.FarmProgress) *jsonProgress {
	if p == nil {
		return nil
	}
	return &jsonProgress{
		TotalEnergy:     p.TotalEnergy,
		TreeEnergy:      p.TreeEnergy,
		TreeTotalEnergy: p.TreeTotalEnergy,
		Remaining:       p.Remaining(),
		PrizeName:       p.PrizeName,
	}
}
