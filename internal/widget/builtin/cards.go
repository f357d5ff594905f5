package builtin

import (
	"context"
	"errors"
	"fmt"

	"github.com/faciam-dev/widgetboard/internal/fetch"
	"github.com/faciam-dev/widgetboard/internal/widget"
	"github.com/faciam-dev/widgetboard/pkg/metrics"
)

const cardGuessImage = "../static/images/card_guess_image.png"

var (
	cardRanks = []string{"ACE", "2", "3", "4", "5", "6", "7", "8", "9", "10", "JACK", "QUEEN", "KING"}
	cardSuits = []string{"CLUBS", "DIAMONDS", "SPADES", "HEARTS"}
)

// cardGuess draws a fresh card on every detail view and compares it to the
// configured guess. The draw must be random, so it bypasses the cache.
type cardGuess struct {
	deps Deps
}

type deckDraw struct {
	Success bool `json:"success"`
	Cards   []struct {
		Value string `json:"value"`
		Suit  string `json:"suit"`
		Image string `json:"image"`
	} `json:"cards"`
}

func (w *cardGuess) Summary(ctx context.Context, inv widget.Invocation) widget.Summary {
	rank := inv.Config.Get("rank", "")
	suit := inv.Config.Get("suit", "")
	if rank == "" || suit == "" {
		return widget.Summary{Text: "No Current Guess", Image: cardGuessImage}
	}
	return widget.Summary{
		Text:  fmt.Sprintf("Current Guess: %s of %s", rank, suit),
		Image: cardGuessImage,
	}
}

func (w *cardGuess) Detail(ctx context.Context, inv widget.Invocation) []widget.Row {
	rank := inv.Config.Get("rank", "")
	suit := inv.Config.Get("suit", "")
	if rank == "" || suit == "" {
		return []widget.Row{widget.SeparatorRow("Please make a guess in the config menu.")}
	}

	u := w.deps.Config.Current().Endpoints.DeckOfCards + "/api/deck/new/draw/?count=1"
	var data deckDraw
	if err := w.deps.Gateway.JSONUncached(ctx, u, &data); err != nil {
		metrics.WidgetErrors.WithLabelValues("Is This My Card?", "detail").Inc()
		var ue *fetch.UpstreamError
		if errors.As(err, &ue) {
			return []widget.Row{widget.TextRow("Error", "Dealer not letting go of your card...")}
		}
		return []widget.Row{widget.TextRow("Error", "Dealer is playing '52 Card Pickup'.")}
	}
	if !data.Success || len(data.Cards) == 0 {
		return []widget.Row{widget.TextRow("Error", "Dealer forgot the deck at home.")}
	}

	card := data.Cards[0]
	verdict := "NO, that was NOT your card!"
	if card.Value == rank && card.Suit == suit {
		verdict = "YES, that WAS your card!"
	}
	return []widget.Row{
		widget.SeparatorRow(verdict),
		widget.ImageRow("", card.Image),
		widget.TextRow("Your Card", fmt.Sprintf("%s of %s", card.Value, card.Suit)),
		widget.TextRow("Your Guess", fmt.Sprintf("%s of %s", rank, suit)),
	}
}
