package farm

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/slok/farmer/internal/model"
)

// dependency is data a step consumes from the previous steps of a run. The
// value is also the display name of the data.
type dependency string

const (
	depSnapshot dependency = "farm"
	depCards    dependency = "backpack"
	depCatalog  dependency = "task list"
	depClockIn  dependency = "clock-in page"
)

// runState is the data shared by the steps of a run.
type runState struct {
	snapshot *model.FarmSnapshot
	cards    *model.CardInventory
	catalog  *model.TaskCatalog
	clockIn  *model.ClockInTask
	final    *model.FarmProgress
}

func (r *runState) has(d dependency) bool {
	switch d {
	case depSnapshot:
		return r.snapshot != nil
	case depCards:
		return r.cards != nil
	case depCatalog:
		return r.catalog != nil
	case depClockIn:
		return r.clockIn != nil
	}
	return false
}

// step is a named unit of a run. Only the foundational steps return an error,
// and an error aborts the run.
type step struct {
	name  model.StepName
	needs []dependency
	run   func(ctx context.Context, st *runState) (model.Outcome, error)
}

func (s *Service) steps() []step {
	return []step{
		{name: model.StepFarmSnapshot, run: s.runFarmSnapshot},
		{name: model.StepCardInventory, run: s.runCardInventory},
		{name: model.StepPopReward, needs: []dependency{depSnapshot}, run: s.runPopReward},
		{name: model.StepTaskCatalog, run: s.runTaskCatalog},
		s.catalogStep(model.StepSignIn, "sign-in",
			func(c model.TaskCatalog) bool { return c.SignIn.Done },
			func(ctx context.Context, _ model.TaskCatalog) model.Outcome { return s.SignIn(ctx) }),
		s.catalogStep(model.StepThreeMeals, "scheduled claim",
			func(c model.TaskCatalog) bool { return c.ThreeMeals.Done },
			func(ctx context.Context, _ model.TaskCatalog) model.Outcome { return s.ThreeMeals(ctx) }),
		s.catalogStep(model.StepPromoEntry, "promo entry",
			func(c model.TaskCatalog) bool { return c.PromoEntry.Done },
			func(ctx context.Context, c model.TaskCatalog) model.Outcome { return s.PromoEntry(ctx, c.PromoEntry) }),
		s.catalogStep(model.StepBrowseAds, "ad browsing",
			func(c model.TaskCatalog) bool { return c.BrowseAds.Done },
			func(ctx context.Context, c model.TaskCatalog) model.Outcome { return s.BrowseAds(ctx, c.BrowseAds.Ads) }),
		s.catalogStep(model.StepWaterRain, "water rain",
			func(c model.TaskCatalog) bool { return c.WaterRain.Done },
			func(ctx context.Context, c model.TaskCatalog) model.Outcome { return s.WaterRain(ctx, c.WaterRain) }),
		s.catalogStep(model.StepWaterFriends, "water two friends",
			func(c model.TaskCatalog) bool { return c.WaterFriend.Done },
			func(ctx context.Context, c model.TaskCatalog) model.Outcome { return s.WaterFriends(ctx, c.WaterFriend) }),
		{name: model.StepClockIn, run: s.runClockIn},
		{name: model.StepFollowTasks, needs: []dependency{depClockIn}, run: s.runFollowTasks},
		{name: model.StepCollectionReward, run: s.runCollectionReward},
		{name: model.StepDoubleCard, needs: []dependency{depCards}, run: s.runDoubleCard},
		s.catalogStep(model.StepFirstWater, "first water",
			func(c model.TaskCatalog) bool { return c.FirstWater.Done },
			func(ctx context.Context, _ model.TaskCatalog) model.Outcome { return s.FirstWater(ctx) }),
		s.catalogStep(model.StepTenWaters, "ten waters",
			func(c model.TaskCatalog) bool { return c.TotalWater.Done },
			func(ctx context.Context, c model.TaskCatalog) model.Outcome { return s.TenWaters(ctx, c.TotalWater) }),
		{name: model.StepStageReward, run: s.runStageReward},
		{name: model.StepFinalSnapshot, run: s.runFinalSnapshot},
	}
}

// Run runs all the daily tasks of the account once. It always returns a report,
// a failure on a foundational fetch stops the run and marks it as aborted.
func (s *Service) Run(ctx context.Context) model.RunReport {
	report := model.RunReport{
		ID:          ulid.Make().String(),
		AccountID:   s.account.ID,
		AccountName: s.account.Name,
		StartedAt:   s.clock.Now(),
	}
	s.logger.Infof("Run %s started", report.ID)

	st := &runState{}
	for _, stp := range s.steps() {
		if err := ctx.Err(); err != nil {
			report.Aborted = true
			report.AbortReason = s.printer.Sprintf("run cancelled, %s", err)
			s.logger.Warningf("Run %s cancelled before %s step", report.ID, stp.name)
			break
		}

		started := s.clock.Now()
		o, err := s.runStep(ctx, stp, st)
		report.Steps = append(report.Steps, model.StepResult{
			Step:      stp.name,
			Outcome:   o,
			StartedAt: started,
			Duration:  s.clock.Now().Sub(started),
		})
		s.metrics.ObserveStep(ctx, stp.name, o.Status)

		if err != nil {
			report.Aborted = true
			report.AbortReason = o.Message
			s.logger.Errorf("Run %s aborted on %s step: %s", report.ID, stp.name, err)
			break
		}
	}

	if st.snapshot != nil {
		initial := st.snapshot.Progress
		report.Initial = &initial
	}
	report.Final = st.final
	report.FinishedAt = s.clock.Now()

	s.metrics.ObserveRun(ctx, report.Aborted, report.TotalReward())
	s.logger.Infof("Run %s finished: %d succeeded, %d skipped, %d failed, %dg drops",
		report.ID,
		report.Count(model.OutcomeStatusSuccess),
		report.Count(model.OutcomeStatusSkipped),
		report.Count(model.OutcomeStatusFailed),
		report.TotalReward())

	return report
}

func (s *Service) runStep(ctx context.Context, stp step, st *runState) (model.Outcome, error) {
	for _, d := range stp.needs {
		if !st.has(d) {
			return s.skipped("%s: skipped, %s not available", stp.name, s.name(string(d))), nil
		}
	}

	return stp.run(ctx, st)
}

// catalogStep returns a step that runs a task handler unless the task
// catalog reports the task as done today.
func (s *Service) catalogStep(
	name model.StepName,
	task string,
	done func(model.TaskCatalog) bool,
	run func(context.Context, model.TaskCatalog) model.Outcome,
) step {
	return step{
		name:  name,
		needs: []dependency{depCatalog},
		run: func(ctx context.Context, st *runState) (model.Outcome, error) {
			if done(*st.catalog) {
				return s.skipped("%s: done today", s.name(task)), nil
			}
			return run(ctx, *st.catalog), nil
		},
	}
}

func (s *Service) progress(p model.FarmProgress) string {
	return s.printer.Sprintf("prize %q (level %d): %dg drops left, %dg applied, %dg still needed",
		p.PrizeName, p.PrizeLevel, p.TotalEnergy, p.TreeEnergy, p.Remaining())
}

func (s *Service) runFarmSnapshot(ctx context.Context, st *runState) (model.Outcome, error) {
	snapshot, err := s.FarmSnapshot(ctx)
	if err != nil {
		return s.failed("%s: failed, %s", s.name(string(depSnapshot)), err), err
	}
	st.snapshot = &snapshot

	return s.success(0, "%s", s.progress(snapshot.Progress)), nil
}

func (s *Service) runCardInventory(ctx context.Context, st *runState) (model.Outcome, error) {
	cards, err := s.CardInventory(ctx)
	if err != nil {
		return s.failed("%s: failed, %s", s.name(string(depCards)), err), nil
	}
	st.cards = &cards

	return s.success(0, "backpack: %d double cards, %d fast cards, %d sign cards, %d bean cards",
		cards.DoubleCard, cards.FastCard, cards.SignCard, cards.BeanCard), nil
}

func (s *Service) runPopReward(ctx context.Context, st *runState) (model.Outcome, error) {
	if !st.snapshot.CanPop {
		return s.skipped("%s: nothing pending", s.name("pop reward")), nil
	}
	return s.PopReward(ctx), nil
}

func (s *Service) runTaskCatalog(ctx context.Context, st *runState) (model.Outcome, error) {
	catalog, err := s.TaskCatalog(ctx)
	if err != nil {
		return s.failed("%s: failed, %s", s.name(string(depCatalog)), err), err
	}
	st.catalog = &catalog

	return model.Outcome{Status: model.OutcomeStatusSuccess}, nil
}

func (s *Service) runClockIn(ctx context.Context, st *runState) (model.Outcome, error) {
	task, err := s.ClockIn(ctx)
	if err != nil {
		return s.failed("%s: failed, %s", s.name(string(depClockIn)), err), err
	}
	st.clockIn = &task

	if task.TodaySigned {
		return s.skipped("%s: done today", s.name("clock-in sign")), nil
	}
	return s.ClockInSignIn(ctx), nil
}

func (s *Service) runFollowTasks(ctx context.Context, st *runState) (model.Outcome, error) {
	return s.FollowTasks(ctx, st.clockIn.Themes), nil
}

func (s *Service) runCollectionReward(ctx context.Context, _ *runState) (model.Outcome, error) {
	return s.CollectionReward(ctx), nil
}

// runDoubleCard uses the fresh balance and backpack, the earlier steps may
// have changed both.
func (s *Service) runDoubleCard(ctx context.Context, _ *runState) (model.Outcome, error) {
	name := s.name(cardNames[model.CardTypeDouble])

	snapshot, err := s.FarmSnapshot(ctx)
	if err != nil {
		return s.failed("%s: failed, %s", name, err), nil
	}

	cards, err := s.CardInventory(ctx)
	if err != nil {
		return s.failed("%s: could not check the backpack", name), nil
	}

	return s.UseDoubleCard(ctx, snapshot, cards), nil
}

func (s *Service) runStageReward(ctx context.Context, _ *runState) (model.Outcome, error) {
	return s.StageReward(ctx), nil
}

func (s *Service) runFinalSnapshot(ctx context.Context, st *runState) (model.Outcome, error) {
	snapshot, err := s.FarmSnapshot(ctx)
	if err != nil {
		return s.failed("%s: failed, %s", s.name(string(depSnapshot)), err), nil
	}
	st.final = &snapshot.Progress

	return s.success(0, "%s", s.progress(snapshot.Progress)), nil
}
