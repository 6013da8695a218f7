package farm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/slok/farmer/internal/model"
)

// Farm actions.
const (
	ActionFarmSnapshot     = "initForFarm"
	ActionTaskCatalog      = "taskInitForFarm"
	ActionCardInventory    = "myCardInfoForFarm"
	ActionClockInSnapshot  = "clockInInitForFarm"
	ActionFriendList       = "friendListInitForFarm"
	ActionPopReward        = "gotWaterGoalTaskForFarm"
	ActionWater            = "waterGoodForFarm"
	ActionFirstWaterClaim  = "firstWaterTaskForFarm"
	ActionTenWatersClaim   = "totalWaterTaskForFarm"
	ActionPromoEntry       = "ddnc_getTreasureBoxAward"
	ActionBrowseAd         = "browseAdTaskForFarm"
	ActionWaterRain        = "waterRainForFarm"
	ActionWaterFriend      = "waterFriendForFarm"
	ActionWaterFriendClaim = "waterFriendGotAwardForFarm"
	ActionClockIn          = "clockInForFarm"
	ActionClockInFollow    = "clockInFollowForFarm"
	ActionUseCard          = "userMyCardForFarm"
	ActionCollectionReward = "getFullCollectionReward"
	ActionThreeMeals       = "gotThreeMealForFarm"
	ActionStageReward      = "gotStageAwardForFarm"
)

// FarmSnapshot returns the current farm progress and the pending pop reward flag.
func (s *Service) FarmSnapshot(ctx context.Context) (model.FarmSnapshot, error) {
	env := s.gw.Send(ctx, ActionFarmSnapshot, appBody(kv{"sid": "", "un_area": ""}))
	if !env.OK() {
		return model.FarmSnapshot{}, fmt.Errorf("could not get farm snapshot: %s: %w", env, model.ErrRemoteRejected)
	}

	var resp struct {
		FarmUserPro *model.FarmProgress `json:"farmUserPro"`
		WaterGoal   popFlag             `json:"todayGotWaterGoalTask"`
	}
	if err := env.Decode(&resp); err != nil {
		return model.FarmSnapshot{}, fmt.Errorf("could not decode farm snapshot: %w", err)
	}
	if resp.FarmUserPro == nil {
		return model.FarmSnapshot{}, fmt.Errorf("farm snapshot without farm progress: %w", model.ErrShape)
	}

	return model.FarmSnapshot{
		Progress: *resp.FarmUserPro,
		CanPop:   resp.WaterGoal.CanPop,
	}, nil
}

// catalogKeys are the entries a task catalog must have.
var catalogKeys = []string{
	"signInit",
	"firstWaterInit",
	"totalWaterTaskInit",
	"waterFriendTaskInit",
	"gotBrowseTaskAdInit",
	"treasureBoxInit",
	"waterRainInit",
	"gotThreeMealInit",
}

// TaskCatalog returns the daily task list.
func (s *Service) TaskCatalog(ctx context.Context) (model.TaskCatalog, error) {
	env := s.gw.Send(ctx, ActionTaskCatalog, appBody(nil))
	if !env.OK() {
		return model.TaskCatalog{}, fmt.Errorf("could not get task catalog: %s: %w", env, model.ErrRemoteRejected)
	}

	var entries map[string]json.RawMessage
	if err := env.Decode(&entries); err != nil {
		return model.TaskCatalog{}, fmt.Errorf("could not decode task catalog: %w", err)
	}
	for _, k := range catalogKeys {
		if _, ok := entries[k]; !ok {
			return model.TaskCatalog{}, fmt.Errorf("task catalog without %q entry: %w", k, model.ErrShape)
		}
	}

	var catalog model.TaskCatalog
	if err := env.Decode(&catalog); err != nil {
		return model.TaskCatalog{}, fmt.Errorf("could not decode task catalog: %w", err)
	}

	return catalog, nil
}

// CardInventory returns the booster cards of the account.
func (s *Service) CardInventory(ctx context.Context) (model.CardInventory, error) {
	env := s.gw.Send(ctx, ActionCardInventory, appBody(nil))
	if !env.OK() {
		return model.CardInventory{}, fmt.Errorf("could not get card inventory: %s: %w", env, model.ErrRemoteRejected)
	}

	var cards model.CardInventory
	if err := env.Decode(&cards); err != nil {
		return model.CardInventory{}, fmt.Errorf("could not decode card inventory: %w", err)
	}

	return cards, nil
}

// ClockIn returns the clock-in page state.
func (s *Service) ClockIn(ctx context.Context) (model.ClockInTask, error) {
	env := s.gw.Send(ctx, ActionClockInSnapshot, pageBody(nil))
	if !env.OK() {
		return model.ClockInTask{}, fmt.Errorf("could not get clock-in page: %s: %w", env, model.ErrRemoteRejected)
	}

	var task model.ClockInTask
	if err := env.Decode(&task); err != nil {
		return model.ClockInTask{}, fmt.Errorf("could not decode clock-in page: %w", err)
	}

	return task, nil
}

// Friends returns the farm friends of the account.
func (s *Service) Friends(ctx context.Context) ([]model.FriendRecord, error) {
	env := s.gw.SendUnsigned(ctx, ActionFriendList, appBody(kv{"lastId": nil}))
	if !env.OK() {
		return nil, fmt.Errorf("could not get friends: %s: %w", env, model.ErrRemoteRejected)
	}

	var resp struct {
		Friends []model.FriendRecord `json:"friends"`
	}
	if err := env.Decode(&resp); err != nil {
		return nil, fmt.Errorf("could not decode friends: %w", err)
	}

	return resp.Friends, nil
}
