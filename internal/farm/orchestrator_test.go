package farm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/farmer/internal/farm"
	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/model"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		cfg    farm.ServiceConfig
		expErr bool
	}{
		"Valid configuration should create service successfully": {
			cfg: farm.ServiceConfig{
				Gateway: newFakeGateway(&timeline{}, nil),
				Account: model.Account{ID: "alice"},
				Logger:  log.Noop,
			},
		},

		"Missing gateway should fail": {
			cfg: farm.ServiceConfig{
				Account: model.Account{ID: "alice"},
			},
			expErr: true,
		},

		"Missing account should fail": {
			cfg: farm.ServiceConfig{
				Gateway: newFakeGateway(&timeline{}, nil),
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			svc, err := farm.NewService(test.cfg)

			if test.expErr {
				assert.Error(err)
				assert.Nil(svc)
			} else {
				assert.NoError(err)
				assert.NotNil(svc)
			}
		})
	}
}

var allSteps = []model.StepName{
	model.StepFarmSnapshot,
	model.StepCardInventory,
	model.StepPopReward,
	model.StepTaskCatalog,
	model.StepSignIn,
	model.StepThreeMeals,
	model.StepPromoEntry,
	model.StepBrowseAds,
	model.StepWaterRain,
	model.StepWaterFriends,
	model.StepClockIn,
	model.StepFollowTasks,
	model.StepCollectionReward,
	model.StepDoubleCard,
	model.StepFirstWater,
	model.StepTenWaters,
	model.StepStageReward,
	model.StepFinalSnapshot,
}

func stepNames(r model.RunReport) []model.StepName {
	names := []model.StepName{}
	for _, s := range r.Steps {
		names = append(names, s.Step)
	}
	return names
}

func TestServiceRun(t *testing.T) {
	tests := map[string]struct {
		catalog     func(c map[string]any)
		responses   func(r map[string][]string)
		expTimeline timeline
		expSteps    []model.StepName
		expAborted  bool
		check       func(t *testing.T, r model.RunReport)
	}{
		"Every task done should only read the state": {
			expTimeline: timeline{
				"initForFarm",
				"myCardInfoForFarm",
				"taskInitForFarm",
				"clockInInitForFarm",
				"getFullCollectionReward",
				"initForFarm",
				"myCardInfoForFarm",
				"initForFarm",
			},
			expSteps: allSteps,
			check: func(t *testing.T, r model.RunReport) {
				assert.Equal(t, 0, r.TotalReward())
				assert.Equal(t, 0, r.Count(model.OutcomeStatusFailed))

				s, ok := r.Step(model.StepTenWaters)
				require.True(t, ok)
				assert.Equal(t, model.Outcome{Status: model.OutcomeStatusSkipped, Message: "ten waters: done today"}, s.Outcome)

				require.NotNil(t, r.Initial)
				require.NotNil(t, r.Final)
				assert.Equal(t, 50, r.Initial.TotalEnergy)
				assert.Equal(t, 700, r.Final.Remaining())
			},
		},

		"Pending ten waters should water the missing times and claim": {
			catalog: func(c map[string]any) {
				c["totalWaterTaskInit"] = map[string]any{"f": false, "totalWaterTaskLimit": 10, "totalWaterTaskTimes": 7}
			},
			responses: func(r map[string][]string) {
				r[farm.ActionTenWatersClaim] = []string{`{"code":"0","amount":10}`}
			},
			expTimeline: timeline{
				"initForFarm",
				"myCardInfoForFarm",
				"taskInitForFarm",
				"clockInInitForFarm",
				"getFullCollectionReward",
				"initForFarm",
				"myCardInfoForFarm",
				"waterGoodForFarm", "pause 1s",
				"waterGoodForFarm", "pause 1s",
				"waterGoodForFarm", "pause 1s",
				"totalWaterTaskForFarm",
				"initForFarm",
			},
			expSteps: allSteps,
			check: func(t *testing.T, r model.RunReport) {
				assert.Equal(t, 10, r.TotalReward())
			},
		},

		"Water rain not due should not be collected": {
			catalog: func(c map[string]any) {
				c["waterRainInit"] = map[string]any{"f": false, "winTimes": 1, "lastTime": testNow.Add(-2 * time.Hour).UnixMilli()}
			},
			expTimeline: timeline{
				"initForFarm",
				"myCardInfoForFarm",
				"taskInitForFarm",
				"clockInInitForFarm",
				"getFullCollectionReward",
				"initForFarm",
				"myCardInfoForFarm",
				"initForFarm",
			},
			expSteps: allSteps,
			check: func(t *testing.T, r model.RunReport) {
				s, ok := r.Step(model.StepWaterRain)
				require.True(t, ok)
				assert.Equal(t, model.OutcomeStatusSkipped, s.Outcome.Status)
			},
		},

		"Water rain due should be collected once": {
			catalog: func(c map[string]any) {
				c["waterRainInit"] = map[string]any{"f": false, "winTimes": 1, "lastTime": testNow.Add(-4 * time.Hour).UnixMilli()}
			},
			responses: func(r map[string][]string) {
				r[farm.ActionWaterRain] = []string{`{"code":"0","addEnergy":20}`}
			},
			expTimeline: timeline{
				"initForFarm",
				"myCardInfoForFarm",
				"taskInitForFarm",
				"waterRainForFarm",
				"clockInInitForFarm",
				"getFullCollectionReward",
				"initForFarm",
				"myCardInfoForFarm",
				"initForFarm",
			},
			expSteps: allSteps,
			check: func(t *testing.T, r model.RunReport) {
				assert.Equal(t, 20, r.TotalReward())
			},
		},

		"Pending pop reward should be claimed after the card inventory": {
			responses: func(r map[string][]string) {
				r[farm.ActionFarmSnapshot] = []string{
					`{"code":"0","farmUserPro":{"totalEnergy":50},"todayGotWaterGoalTask":{"canPop":true}}`,
					farmPayload,
				}
				r[farm.ActionPopReward] = []string{`{"code":"0","addEnergy":7}`}
			},
			expTimeline: timeline{
				"initForFarm",
				"myCardInfoForFarm",
				"gotWaterGoalTaskForFarm",
				"taskInitForFarm",
				"clockInInitForFarm",
				"getFullCollectionReward",
				"initForFarm",
				"myCardInfoForFarm",
				"initForFarm",
			},
			expSteps: allSteps,
			check: func(t *testing.T, r model.RunReport) {
				assert.Equal(t, 7, r.TotalReward())
			},
		},

		"Enough drops and a double card should use it": {
			responses: func(r map[string][]string) {
				r[farm.ActionFarmSnapshot] = []string{
					farmPayload,
					`{"code":"0","farmUserPro":{"totalEnergy":150},"todayGotWaterGoalTask":{"canPop":false}}`,
					farmPayload,
				}
				r[farm.ActionCardInventory] = []string{cardsPayload, `{"code":"0","doubleCard":1}`}
			},
			expTimeline: timeline{
				"initForFarm",
				"myCardInfoForFarm",
				"taskInitForFarm",
				"clockInInitForFarm",
				"getFullCollectionReward",
				"initForFarm",
				"myCardInfoForFarm",
				"userMyCardForFarm",
				"initForFarm",
			},
			expSteps: allSteps,
			check: func(t *testing.T, r model.RunReport) {
				s, ok := r.Step(model.StepDoubleCard)
				require.True(t, ok)
				assert.Equal(t, model.Outcome{Status: model.OutcomeStatusSuccess, Message: "used a double card"}, s.Outcome)
			},
		},

		"Card inventory failure should only disable the double card": {
			responses: func(r map[string][]string) {
				r[farm.ActionCardInventory] = []string{`{"code":"3"}`}
			},
			expTimeline: timeline{
				"initForFarm",
				"myCardInfoForFarm",
				"taskInitForFarm",
				"clockInInitForFarm",
				"getFullCollectionReward",
				"initForFarm",
			},
			expSteps: allSteps,
			check: func(t *testing.T, r model.RunReport) {
				s, ok := r.Step(model.StepDoubleCard)
				require.True(t, ok)
				assert.Equal(t, model.Outcome{Status: model.OutcomeStatusSkipped, Message: "double-card: skipped, backpack not available"}, s.Outcome)
			},
		},

		"Farm snapshot failure should abort the run": {
			responses: func(r map[string][]string) {
				r[farm.ActionFarmSnapshot] = []string{`{"code":"3","message":"not logged in"}`}
			},
			expTimeline: timeline{"initForFarm"},
			expSteps:    []model.StepName{model.StepFarmSnapshot},
			expAborted:  true,
			check: func(t *testing.T, r model.RunReport) {
				assert.Nil(t, r.Initial)
				assert.Nil(t, r.Final)
				assert.Contains(t, r.AbortReason, "farm: failed")
			},
		},

		"Task catalog failure should abort the run": {
			responses: func(r map[string][]string) {
				r[farm.ActionTaskCatalog] = []string{`{"code":"0","signInit":{"f":true}}`}
			},
			expTimeline: timeline{"initForFarm", "myCardInfoForFarm", "taskInitForFarm"},
			expSteps: []model.StepName{
				model.StepFarmSnapshot,
				model.StepCardInventory,
				model.StepPopReward,
				model.StepTaskCatalog,
			},
			expAborted: true,
			check: func(t *testing.T, r model.RunReport) {
				assert.NotNil(t, r.Initial)
				assert.Contains(t, r.AbortReason, "task list: failed")
			},
		},

		"Clock-in page failure should abort the run": {
			responses: func(r map[string][]string) {
				r[farm.ActionClockInSnapshot] = []string{`{"code":"1"}`}
			},
			expTimeline: timeline{"initForFarm", "myCardInfoForFarm", "taskInitForFarm", "clockInInitForFarm"},
			expSteps:    allSteps[:11],
			expAborted:  true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			catalog := doneCatalog()
			if test.catalog != nil {
				test.catalog(catalog)
			}
			responses := baseResponses(t, catalog)
			if test.responses != nil {
				test.responses(responses)
			}

			env := newTestEnv(t, responses)
			report := env.svc.Run(context.Background())

			assert.Equal(test.expTimeline, *env.tl)
			assert.Equal(test.expSteps, stepNames(report))
			assert.Equal(test.expAborted, report.Aborted)
			assert.Equal("alice", report.AccountID)
			assert.Equal("Alice", report.AccountName)
			assert.NotEmpty(report.ID)
			if test.check != nil {
				test.check(t, report)
			}
		})
	}
}

func TestServiceRunCancelled(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := newTestEnv(t, baseResponses(t, doneCatalog()))
	report := env.svc.Run(ctx)

	assert.True(report.Aborted)
	assert.Empty(report.Steps)
	assert.Empty(*env.tl)
	assert.Equal("run cancelled, context canceled", report.AbortReason)
}

func TestServiceRunChinese(t *testing.T) {
	assert := assert.New(t)

	env := newTestEnv(t, baseResponses(t, doneCatalog()), func(c *farm.ServiceConfig) { c.Lang = "zh" })
	report := env.svc.Run(context.Background())

	s, ok := report.Step(model.StepTenWaters)
	assert.True(ok)
	assert.Equal("十次浇水: 今日已完成", s.Outcome.Message)
}
