package model

import "time"

// OutcomeStatus is the result kind of a step.
type OutcomeStatus string

const (
	OutcomeStatusSuccess OutcomeStatus = "success"
	OutcomeStatusSkipped OutcomeStatus = "skipped"
	OutcomeStatusFailed  OutcomeStatus = "failed"
)

// Outcome is what a task handler reports back to the orchestrator.
type Outcome struct {
	Status OutcomeStatus
	// Reward is the amount of drops obtained, 0 when unknown or none.
	Reward int
	// Message is the localized human readable result.
	Message string
}

// StepName identifies a step of a run.
type StepName string

const (
	StepFarmSnapshot     StepName = "farm-snapshot"
	StepCardInventory    StepName = "card-inventory"
	StepPopReward        StepName = "pop-reward"
	StepTaskCatalog      StepName = "task-catalog"
	StepSignIn           StepName = "sign-in"
	StepThreeMeals       StepName = "three-meals"
	StepPromoEntry       StepName = "promo-entry"
	StepBrowseAds        StepName = "browse-ads"
	StepWaterRain        StepName = "water-rain"
	StepWaterFriends     StepName = "water-friends"
	StepClockIn          StepName = "clock-in"
	StepFollowTasks      StepName = "follow-tasks"
	StepCollectionReward StepName = "collection-reward"
	StepDoubleCard       StepName = "double-card"
	StepFirstWater       StepName = "first-water"
	StepTenWaters        StepName = "ten-waters"
	StepStageReward      StepName = "stage-reward"
	StepFinalSnapshot    StepName = "final-snapshot"
)

// StepResult is the outcome of a step inside a run.
type StepResult struct {
	Step      StepName
	Outcome   Outcome
	StartedAt time.Time
	Duration  time.Duration
}

// RunReport is the aggregated result of a run for an account.
type RunReport struct {
	ID          string
	AccountID   string
	AccountName string
	StartedAt   time.Time
	FinishedAt  time.Time
	// Aborted is set when a foundational fetch failed and the run stopped early.
	Aborted     bool
	AbortReason string
	Initial     *FarmProgress
	Final       *FarmProgress
	Steps       []StepResult
}

// TotalReward returns the drops obtained on all the steps.
func (r RunReport) TotalReward() int {
	total := 0
	for _, s := range r.Steps {
		total += s.Outcome.Reward
	}
	return total
}

// Count returns the number of steps with a status.
func (r RunReport) Count(status OutcomeStatus) int {
	n := 0
	for _, s := range r.Steps {
		if s.Outcome.Status == status {
			n++
		}
	}
	return n
}

// Step returns the result of a step, if it was executed.
func (r RunReport) Step(name StepName) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Step == name {
			return s, true
		}
	}
	return StepResult{}, false
}
