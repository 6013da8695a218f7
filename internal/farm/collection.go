package farm

import (
	"context"

	"github.com/slok/farmer/internal/model"
)

// CollectionReward taps the duck up to 10 times, until the daily limit is reached.
func (s *Service) CollectionReward(ctx context.Context) model.Outcome {
	name := s.name("duck")

	done, failed := 0, 0
	for attempt := 1; attempt <= maxCollectAttempts; attempt++ {
		if attempt > 1 {
			if err := s.pause(ctx, collectPace); err != nil {
				return s.failed("%s: failed, %s", name, err)
			}
		}

		env := s.gw.Send(ctx, ActionCollectionReward, pageBody(kv{"type": 2}))
		if env.Code == collectLimitCode {
			if done == 0 {
				return s.skipped("%s: daily limit reached", name)
			}
			s.info("%s: daily limit reached", name)
			break
		}

		if !env.OK() {
			s.warn("%s: attempt %d failed, %s", name, attempt, env)
			failed++
			continue
		}

		r := decode[struct {
			Title string `json:"title"`
		}](env)
		s.info("%s: attempt %d succeeded, %s", name, attempt, r.Title)
		done++
	}

	return s.summary(name, done, failed, 0)
}
