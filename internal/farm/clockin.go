package farm

import (
	"context"

	"github.com/slok/farmer/internal/model"
)

// ClockInSignIn signs the clock-in page and uses the available sign cards.
func (s *Service) ClockInSignIn(ctx context.Context) model.Outcome {
	name := s.name("clock-in sign")

	env := s.gw.Send(ctx, ActionClockIn, appBody(kv{"type": 1}))
	if !env.OK() {
		return s.failed("%s: failed, %s", name, env)
	}
	o := s.success(0, "%s: signed", name)

	cards, err := s.CardInventory(ctx)
	if err != nil {
		s.warn("%s: could not check the backpack", name)
		return o
	}

	for range min(maxSignCards, cards.SignCard) {
		s.UseCard(ctx, model.CardTypeSign)
		if err := s.pause(ctx, cardPace); err != nil {
			break
		}
	}

	return o
}

// FollowTasks follows the clock-in themes and claims their rewards.
func (s *Service) FollowTasks(ctx context.Context, themes []model.FollowTask) model.Outcome {
	name := s.name("clock-in follow")

	pending, done, failed, reward := 0, 0, 0, 0
	for _, t := range themes {
		if t.HadGot {
			continue
		}
		pending++

		if !t.HadFollow {
			env := s.gw.Send(ctx, ActionClockInFollow, pageBody(kv{"id": t.ID, "type": "theme", "step": 1}))
			if env.OK() {
				s.info("%s: followed %q", name, t.Name)
			} else {
				s.logger.Debugf("follow %q rejected: %s", t.ID, env)
			}
		}

		env := s.gw.Send(ctx, ActionClockInFollow, pageBody(kv{"id": t.ID, "type": "theme", "step": 2}))
		if !env.OK() {
			s.warn("%s: %q reward failed", name, t.Name)
			failed++
			continue
		}

		r := decode[claimResult](env)
		s.info("%s: %q got %dg drops", name, t.Name, r.Amount)
		reward += r.Amount
		done++
	}

	if pending == 0 {
		return s.skipped("%s: nothing pending", name)
	}

	return s.summary(name, done, failed, reward)
}
