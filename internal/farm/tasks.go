package farm

import (
	"context"
	"time"

	"github.com/slok/farmer/internal/model"
)

// SignIn is the daily sign-in. The remote action was retired, the task is
// kept so the catalog flag is still reported.
func (s *Service) SignIn(_ context.Context) model.Outcome {
	return s.skipped("%s: retired on the server, skipped", s.name("sign-in"))
}

// ThreeMeals claims the scheduled meal time reward. The claim windows are
// only advisory, the claim is always sent and the server decides.
func (s *Service) ThreeMeals(ctx context.Context) model.Outcome {
	name := s.name("scheduled claim")

	if mealClaimClosed(s.clock.Now()) {
		s.info("%s: outside the claim window, trying anyway", name)
	}

	env := s.gw.Send(ctx, ActionThreeMeals, appBody(kv{"type": 0}))
	if !env.OK() {
		return s.failed("%s: failed, %s", name, env)
	}

	r := decode[claimResult](env)
	return s.success(r.Amount, "%s: got %dg drops", name, r.Amount)
}

// mealClaimClosed returns true on the UTC+8 hours the meal claim is known to
// be closed.
func mealClaimClosed(t time.Time) bool {
	h := t.In(chinaTime).Hour()
	return h >= 21 || (h >= 9 && h < 11) || (h >= 14 && h < 17)
}

// PromoEntry claims the reward of entering the farm through the promo page.
func (s *Service) PromoEntry(ctx context.Context, task model.PromoEntryTask) model.Outcome {
	name := s.name("promo entry")

	ack := s.gw.Send(ctx, ActionPromoEntry, appBody(kv{"type": 1}))
	if !ack.OK() {
		s.logger.Debugf("promo entry acknowledge rejected: %s", ack)
	}

	if err := s.pause(ctx, promoPace); err != nil {
		return s.failed("%s: failed, %s", name, err)
	}

	env := s.gw.Send(ctx, ActionPromoEntry, pageBody(kv{"line": task.Line, "type": 2}))
	if !env.OK() {
		return s.failed("%s: failed, %s", name, env)
	}

	r := decode[struct {
		WaterGram int `json:"waterGram"`
	}](env)
	return s.success(r.WaterGram, "%s: got %dg drops", name, r.WaterGram)
}

// BrowseAds watches every ad that didn't reach its daily limit and claims its reward.
func (s *Service) BrowseAds(ctx context.Context, ads []model.BrowseAd) model.Outcome {
	name := s.name("ad browsing")

	pending, done, failed, reward := 0, 0, 0, 0
	for _, ad := range ads {
		if ad.Completed() {
			s.info("%s: ad %q already completed today", name, ad.Title)
			continue
		}
		pending++

		start := s.gw.Send(ctx, ActionBrowseAd, pageBody(kv{"advertId": ad.AdvertID, "type": 0}))
		if !start.OK() {
			s.logger.Debugf("ad %q start rejected: %s", ad.AdvertID, start)
		}

		s.info("%s: watching ad %q, waiting %d seconds", name, ad.Title, ad.WaitSeconds)
		if err := s.pause(ctx, time.Duration(ad.WaitSeconds)*time.Second); err != nil {
			return s.failed("%s: failed, %s", name, err)
		}

		env := s.gw.Send(ctx, ActionBrowseAd, pageBody(kv{"advertId": ad.AdvertID, "type": 1}))
		if !env.OK() {
			s.warn("%s: ad %q failed", name, ad.Title)
			failed++
			continue
		}

		r := decode[claimResult](env)
		s.info("%s: ad %q got %dg drops", name, ad.Title, r.Amount)
		reward += r.Amount
		done++

		if r.WaterGoal.CanPop {
			if pop := s.PopReward(ctx); pop.Status == model.OutcomeStatusSuccess {
				reward += pop.Reward
			}
		}
	}

	if pending == 0 {
		return s.skipped("%s: nothing pending", name)
	}

	return s.summary(name, done, failed, reward)
}

// StageReward claims the watering stage reward when enabled.
func (s *Service) StageReward(ctx context.Context) model.Outcome {
	name := s.name("stage reward")

	if !s.claimStageRewards {
		return s.skipped("%s: disabled", name)
	}

	env := s.gw.Send(ctx, ActionStageReward, pageBody(kv{"type": 1}))
	if !env.OK() {
		return s.failed("%s: failed, %s", name, env)
	}

	r := decode[energyResult](env)
	return s.success(r.AddEnergy, "%s: got %dg drops", name, r.AddEnergy)
}
