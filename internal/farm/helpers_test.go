package farm_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/slok/farmer/internal/farm"
	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/model"
)

var testNow = time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)

// timeline is the ordered record of the gateway calls and clock pauses.
type timeline []string

// fakeGateway answers every action with a scripted payload. The last payload
// of an action is repeated, unscripted actions succeed with an empty result.
type fakeGateway struct {
	responses map[string][]string
	timeline  *timeline
	bodies    map[string][]map[string]any
	unsigned  []string
}

func newFakeGateway(tl *timeline, responses map[string][]string) *fakeGateway {
	if responses == nil {
		responses = map[string][]string{}
	}
	return &fakeGateway{
		responses: responses,
		timeline:  tl,
		bodies:    map[string][]map[string]any{},
	}
}

func (g *fakeGateway) Send(_ context.Context, action string, body any) model.Envelope {
	return g.respond(action, body)
}

func (g *fakeGateway) SendUnsigned(_ context.Context, action string, body any) model.Envelope {
	g.unsigned = append(g.unsigned, action)
	return g.respond(action, body)
}

func (g *fakeGateway) respond(action string, body any) model.Envelope {
	*g.timeline = append(*g.timeline, action)

	var b map[string]any
	data, _ := json.Marshal(body)
	_ = json.Unmarshal(data, &b)
	g.bodies[action] = append(g.bodies[action], b)

	q := g.responses[action]
	if len(q) == 0 {
		return model.ParseEnvelope([]byte(`{"code":"0"}`))
	}
	payload := q[0]
	if len(q) > 1 {
		g.responses[action] = q[1:]
	}

	return model.ParseEnvelope([]byte(payload))
}

// calls returns the number of calls of an action.
func (g *fakeGateway) calls(action string) int {
	return len(g.bodies[action])
}

// fakeClock records the pauses on the timeline and advances immediately.
type fakeClock struct {
	now      time.Time
	timeline *timeline
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	*c.timeline = append(*c.timeline, "pause "+d.String())
	c.now = c.now.Add(d)

	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

type testEnv struct {
	svc   *farm.Service
	gw    *fakeGateway
	clock *fakeClock
	tl    *timeline
}

func newTestEnv(t *testing.T, responses map[string][]string, opts ...func(*farm.ServiceConfig)) testEnv {
	t.Helper()

	tl := &timeline{}
	gw := newFakeGateway(tl, responses)
	clock := &fakeClock{now: testNow, timeline: tl}

	cfg := farm.ServiceConfig{
		Gateway: gw,
		Account: model.Account{ID: "alice", Name: "Alice", Cookie: "pt_key=k;pt_pin=p;"},
		Clock:   clock,
		Logger:  log.Noop,
	}
	for _, o := range opts {
		o(&cfg)
	}

	svc, err := farm.NewService(cfg)
	require.NoError(t, err)

	return testEnv{svc: svc, gw: gw, clock: clock, tl: tl}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

// doneCatalog returns a task catalog payload with every task done today.
func doneCatalog() map[string]any {
	return map[string]any{
		"code":                "0",
		"signInit":            map[string]any{"f": true},
		"firstWaterInit":      map[string]any{"f": true},
		"totalWaterTaskInit":  map[string]any{"f": true, "totalWaterTaskLimit": 10, "totalWaterTaskTimes": 10},
		"waterFriendTaskInit": map[string]any{"f": true, "waterFriendMax": 2, "waterFriendCountKey": 2},
		"gotBrowseTaskAdInit": map[string]any{"f": true, "userBrowseTaskAds": []any{}},
		"treasureBoxInit":     map[string]any{"f": true},
		"waterRainInit":       map[string]any{"f": true, "winTimes": 2, "lastTime": testNow.Add(-time.Hour).UnixMilli()},
		"gotThreeMealInit":    map[string]any{"f": true},
	}
}

const (
	farmPayload    = `{"code":"0","farmUserPro":{"totalEnergy":50,"treeState":1,"treeEnergy":300,"treeTotalEnergy":1000,"name":"Apples","prizeLevel":2},"todayGotWaterGoalTask":{"canPop":false}}`
	cardsPayload   = `{"code":"0","doubleCard":0,"fastCard":1,"signCard":0,"beanCard":0}`
	clockInPayload = `{"code":"0","todaySigned":true,"themes":[{"id":"t1","name":"Shop","hadGot":true,"hadFollow":true}]}`
	limitPayload   = `{"code":"10"}`
)

// baseResponses returns the responses of a run where every task is done today.
func baseResponses(t *testing.T, catalog map[string]any) map[string][]string {
	return map[string][]string{
		farm.ActionFarmSnapshot:     {farmPayload},
		farm.ActionCardInventory:    {cardsPayload},
		farm.ActionTaskCatalog:      {mustJSON(t, catalog)},
		farm.ActionClockInSnapshot:  {clockInPayload},
		farm.ActionCollectionReward: {limitPayload},
	}
}
