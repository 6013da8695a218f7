package farm

import (
	"context"
	"time"

	"github.com/slok/farmer/internal/model"
)

type energyResult struct {
	AddEnergy int `json:"addEnergy"`
}

type claimResult struct {
	Amount               int     `json:"amount"`
	TotalWaterTaskEnergy int     `json:"totalWaterTaskEnergy"`
	WaterGoal            popFlag `json:"todayGotWaterGoalTask"`
}

// PopReward claims the pending pop reward.
func (s *Service) PopReward(ctx context.Context) model.Outcome {
	name := s.name("pop reward")

	env := s.gw.Send(ctx, ActionPopReward, appBody(kv{"type": 3}))
	if !env.OK() {
		return s.failed("%s: failed, %s", name, env)
	}

	r := decode[energyResult](env)
	return s.success(r.AddEnergy, "%s: got %dg drops", name, r.AddEnergy)
}

// Water waters the tree once, returns true when it was watered.
func (s *Service) Water(ctx context.Context) bool {
	env := s.gw.Send(ctx, ActionWater, appBody(kv{"type": ""}))
	if !env.OK() {
		s.warn("could not water the tree: %s", env)
		return false
	}

	r := decode[struct {
		TotalEnergy int `json:"totalEnergy"`
	}](env)
	s.info("watered the tree, %dg drops left", r.TotalEnergy)

	return true
}

// FirstWater waters the tree once and claims the first watering reward.
func (s *Service) FirstWater(ctx context.Context) model.Outcome {
	name := s.name("first water")

	if !s.Water(ctx) {
		return s.failed("%s: the tree could not be watered, reward pending", name)
	}

	return s.claimWaterTask(ctx, name, ActionFirstWaterClaim)
}

// TenWaters waters the tree the times still pending to reach the daily
// watering goal and claims the reward.
func (s *Service) TenWaters(ctx context.Context, task model.TotalWaterTask) model.Outcome {
	name := s.name("ten waters")

	pending := task.Pending()
	watered := 0
	for range pending {
		if s.Water(ctx) {
			watered++
		}
		if err := s.pause(ctx, waterPace); err != nil {
			return s.failed("%s: failed, %s", name, err)
		}
	}
	if pending > 0 {
		s.info("%s: watered %d of %d times", name, watered, pending)
	}

	return s.claimWaterTask(ctx, name, ActionTenWatersClaim)
}

// claimWaterTask claims a watering task reward, the pop reward is claimed too
// when the claim signals it.
func (s *Service) claimWaterTask(ctx context.Context, name, action string) model.Outcome {
	env := s.gw.Send(ctx, action, appBody(nil))
	if !env.OK() {
		return s.failed("%s: failed, %s", name, env)
	}

	r := decode[claimResult](env)
	amount := r.Amount
	if amount == 0 {
		amount = r.TotalWaterTaskEnergy
	}
	o := s.success(amount, "%s: got %dg drops", name, amount)

	if r.WaterGoal.CanPop {
		if pop := s.PopReward(ctx); pop.Status == model.OutcomeStatusSuccess {
			o.Reward += pop.Reward
		}
	}

	return o
}

// WaterFriends waters the eligible friends until the daily quota is met and
// claims the reward.
func (s *Service) WaterFriends(ctx context.Context, task model.WaterFriendTask) model.Outcome {
	name := s.name("water two friends")

	quota := task.Pending()
	if quota == 0 {
		return s.skipped("%s: quota already met", name)
	}

	friends, err := s.Friends(ctx)
	if err != nil {
		return s.failed("%s: could not fetch friends: %s", name, err)
	}

	watered := 0
	for _, f := range friends {
		if watered >= quota {
			break
		}
		if !f.Eligible() {
			continue
		}

		if watered > 0 {
			if err := s.pause(ctx, friendPace); err != nil {
				return s.failed("%s: failed, %s", name, err)
			}
		}

		env := s.gw.Send(ctx, ActionWaterFriend, appBody(kv{"shareCode": f.ShareCode}))
		if env.OK() {
			s.info("%s: watered friend %s", name, f.NickName)
		} else {
			s.warn("%s: could not water friend %s", name, f.NickName)
		}
		// Attempts count towards the quota, the server decides on the next run.
		watered++
	}

	env := s.gw.Send(ctx, ActionWaterFriendClaim, appBody(nil))
	if !env.OK() {
		return s.failed("%s: failed, %s", name, env)
	}

	r := decode[struct {
		AddWater int `json:"addWater"`
	}](env)
	return s.success(r.AddWater, "%s: got %dg drops", name, r.AddWater)
}

// WaterRain collects the water rain event when it is due, the event is
// available 3 hours after the last one.
func (s *Service) WaterRain(ctx context.Context, task model.WaterRainTask) model.Outcome {
	name := s.name("water rain")

	now := s.clock.Now()
	round := task.WinTimes + 1
	due := time.UnixMilli(task.LastTime).Add(waterRainCooldown)
	if now.Before(due) {
		return s.skipped("%s: round %d not due yet, next at %s", name, round, due.In(chinaTime).Format("15:04:05"))
	}

	body := kv{
		"type":         1,
		"hongBaoTimes": now.UnixMilli()%5 + 50,
		"version":      14,
		"channel":      1,
	}
	env := s.gw.Send(ctx, ActionWaterRain, body)
	if !env.OK() {
		return s.failed("%s: round %d failed", name, round)
	}

	r := decode[energyResult](env)
	return s.success(r.AddEnergy, "%s: round %d got %dg drops", name, round, r.AddEnergy)
}
