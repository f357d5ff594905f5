// Package builtin contains the widget behaviors compiled into the process.
// Each behavior catches its own failures and degrades to a placeholder; no
// error may cross the Behavior boundary.
package builtin

import (
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/faciam-dev/widgetboard/internal/config"
	"github.com/faciam-dev/widgetboard/internal/fetch"
	"github.com/faciam-dev/widgetboard/internal/state"
	"github.com/faciam-dev/widgetboard/internal/widget"
)

// Deps holds the collaborators behaviors share. Rand is injectable so tests
// can pin the randomizers.
type Deps struct {
	Gateway *fetch.Gateway
	Config  *config.Store
	State   *state.Store
	Rand    func(n int) int
	Filter  Filterer
}

// All returns the full descriptor set in registration order. This order is
// the stable list the settings UI and persistence layer reconcile against.
func All(d Deps) []widget.Descriptor {
	if d.Rand == nil {
		d.Rand = rand.IntN
	}
	return []widget.Descriptor{
		{Name: "Bitcoin Tracker", Behavior: &cryptoWidget{d}},
		{Name: "Pokemon Randomizer", Behavior: &pokemonRandomizer{d}},
		{Name: "Weather", Behavior: &weatherWidget{d}, Schema: []widget.Field{
			{Name: "city", Default: "Salinas"},
		}},
		{Name: "Pokemon Search", Behavior: &pokemonSearch{d}, Schema: []widget.Field{
			{Name: "target_pokemon", Default: "pikachu"},
		}},
		{Name: "Book Search", Behavior: &bookSearch{d}, Schema: []widget.Field{
			{Name: "search", Default: "N/A"},
		}},
		{Name: "Image Filtering", Behavior: &imageFilter{d}, Schema: []widget.Field{
			{Name: "filter", Options: []string{"grayscale", "negative", "sepia"}},
			{Name: "image"},
		}},
		{Name: "MiniPlayer", Behavior: &miniPlayer{}},
		{Name: "News Feed", Behavior: &newsFeed{d}, Schema: []widget.Field{
			{Name: "country", Default: "us"},
		}},
		{Name: "Is This My Card?", Behavior: &cardGuess{d}, Schema: []widget.Field{
			{Name: "rank", Options: cardRanks, Note: "Please make a guess here:"},
			{Name: "suit", Options: cardSuits},
		}},
	}
}

// titleCase uppercases the first letter of each word and lowercases the
// rest. Upstream payloads arrive all-lowercase.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// capitalize uppercases the first rune and lowercases the remainder.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
