package farm

import (
	"context"

	"github.com/slok/farmer/internal/model"
)

var cardNames = map[model.CardType]string{
	model.CardTypeDouble: "double card",
	model.CardTypeFast:   "fast card",
	model.CardTypeSign:   "sign card",
	model.CardTypeBean:   "bean card",
}

// UseCard consumes a booster card.
func (s *Service) UseCard(ctx context.Context, t model.CardType) model.Outcome {
	name := s.name(cardNames[t])

	env := s.gw.Send(ctx, ActionUseCard, pageBody(kv{"cardType": string(t)}))
	if !env.OK() {
		return s.failed("could not use a %s", name)
	}

	return s.success(0, "used a %s", name)
}

// UseDoubleCard consumes a double card when the balance is worth doubling.
func (s *Service) UseDoubleCard(ctx context.Context, snapshot model.FarmSnapshot, cards model.CardInventory) model.Outcome {
	if snapshot.Progress.TotalEnergy < doubleCardMinEnergy || cards.DoubleCard < 1 {
		return s.skipped("%s: not enough drops or cards", s.name(cardNames[model.CardTypeDouble]))
	}

	return s.UseCard(ctx, model.CardTypeDouble)
}
