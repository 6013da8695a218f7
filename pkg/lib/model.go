package lib

import (
	"time"

	"github.com/slok/farmer/internal/model"
)

// Account is the identity a run is executed for.
type Account struct {
	// ID is the stable identifier of the account (required), run history is grouped by it.
	ID string
	// Name is the display name used on logs and reports. Default: ID.
	Name string
	// Cookie is the session credential sent on every request (required).
	Cookie string
}

// OutcomeStatus is the result kind of a run step.
type OutcomeStatus string

const (
	// OutcomeStatusSuccess means the step did its work.
	OutcomeStatusSuccess OutcomeStatus = "success"
	// OutcomeStatusSkipped means there was nothing to do (already done, not due, disabled...).
	OutcomeStatusSkipped OutcomeStatus = "skipped"
	// OutcomeStatusFailed means the farm rejected the step or it could not be sent.
	OutcomeStatusFailed OutcomeStatus = "failed"
)

// Progress is the state of the account's tree.
type Progress struct {
	// TotalEnergy is the water drop balance.
	TotalEnergy int
	// TreeEnergy is the water already applied to the current stage.
	TreeEnergy int
	// TreeTotalEnergy is the water the current stage needs.
	TreeTotalEnergy int
	// Remaining is the water still needed for the next stage.
	Remaining int
	// PrizeName is the product the tree grows.
	PrizeName string
}

// Step is the result of a single task of a run.
type Step struct {
	// Name identifies the task (e.g. "ten-waters").
	Name      string
	Status    OutcomeStatus
	Reward    int
	Message   string
	StartedAt time.Time
	Duration  time.Duration
}

// RunReport is the result of running the daily tasks of an account.
type RunReport struct {
	// ID is the unique identifier (ULID) of the run.
	ID          string
	AccountID   string
	AccountName string
	StartedAt   time.Time
	FinishedAt  time.Time
	// Aborted is set when the farm could not be read and the run stopped early.
	Aborted     bool
	AbortReason string
	// TotalReward is the drops obtained by all the steps.
	TotalReward int
	// Initial is the tree state before the run. Nil when it could not be read.
	Initial *Progress
	// Final is the tree state after the run. Nil when it could not be read.
	Final *Progress
	Steps []Step
}

// Cards is the booster card backpack of an account.
type Cards struct {
	DoubleCard int
	FastCard   int
	SignCard   int
	BeanCard   int
}

// Status is the farm state of an account read without running any task.
type Status struct {
	AccountID   string
	AccountName string
	// Progress is nil when the farm could not be read, Error has the reason.
	Progress *Progress
	// CanPop is set when a pop reward is waiting to be claimed.
	CanPop bool
	// Cards is nil when the backpack could not be read.
	Cards *Cards
	Error string
}

func toInternalAccount(a Account) model.Account {
	name := a.Name
	if name == "" {
		name = a.ID
	}
	return model.Account{ID: a.ID, Name: name, Cookie: a.Cookie}
}

func fromInternalProgress(p *model.FarmProgress) *Progress {
	if p == nil {
		return nil
	}
	return &Progress{
		TotalEnergy:     p.TotalEnergy,
		TreeEnergy:      p.TreeEnergy,
		TreeTotalEnergy: p.TreeTotalEnergy,
		Remaining:       p.Remaining(),
		PrizeName:       p.PrizeName,
	}
}

func fromInternalRunReport(r model.RunReport) RunReport {
	report := RunReport{
		ID:          r.ID,
		AccountID:   r.AccountID,
		AccountName: r.AccountName,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		Aborted:     r.Aborted,
		AbortReason: r.AbortReason,
		TotalReward: r.TotalReward(),
		Initial:     fromInternalProgress(r.Initial),
		Final:       fromInternalProgress(r.Final),
		Steps:       make([]Step, 0, len(r.Steps)),
	}

	for _, s := range r.Steps {
		report.Steps = append(report.Steps, Step{
			Name:      string(s.Step),
			Status:    OutcomeStatus(s.Outcome.Status),
			Reward:    s.Outcome.Reward,
			Message:   s.Outcome.Message,
			StartedAt: s.StartedAt,
			Duration:  s.Duration,
		})
	}

	return report
}

func fromInternalRunReportList(rs []model.RunReport) []RunReport {
	result := make([]RunReport, len(rs))
	for i, r := range rs {
		result[i] = fromInternalRunReport(r)
	}
	return result
}

func fromInternalStatus(s model.AccountStatus) Status {
	st := Status{
		AccountID:   s.AccountID,
		AccountName: s.AccountName,
		Error:       s.Error,
	}
	if s.Snapshot != nil {
		st.Progress = fromInternalProgress(&s.Snapshot.Progress)
		st.CanPop = s.Snapshot.CanPop
	}
	if s.Cards != nil {
		st.Cards = &Cards{
			DoubleCard: s.Cards.DoubleCard,
			FastCard:   s.Cards.FastCard,
			SignCard:   s.Cards.SignCard,
			BeanCard:   s.Cards.BeanCard,
		}
	}
	return st
}
