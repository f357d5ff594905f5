package builtin

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/faciam-dev/widgetboard/internal/cache"
	"github.com/faciam-dev/widgetboard/internal/config"
	"github.com/faciam-dev/widgetboard/internal/fetch"
	"github.com/faciam-dev/widgetboard/internal/state"
	"github.com/faciam-dev/widgetboard/internal/widget"
)

// testDeps points every endpoint at srvURL and pins the randomizer to its
// lowest roll.
func testDeps(t *testing.T, srvURL string) (Deps, *cache.Memory) {
	t.Helper()
	store, err := config.NewStore("", nil)
	if err != nil {
		t.Fatalf("config store: %v", err)
	}
	rt := config.Default()
	rt.Keys = config.Keys{Weather: "testkey", News: "testkey"}
	rt.Endpoints = config.Endpoints{
		Coinbase:    srvURL,
		OpenWeather: srvURL,
		PokeAPI:     srvURL,
		Gutendex:    srvURL,
		NewsData:    srvURL,
		DeckOfCards: srvURL,
	}
	store.Set(rt)

	c := cache.NewMemory(rt.CacheTTL.D())
	return Deps{
		Gateway: fetch.New(c, store),
		Config:  store,
		State:   state.NewStore(),
		Rand:    func(n int) int { return 0 },
	}, c
}

func TestAllRegistrationOrder(t *testing.T) {
	deps, _ := testDeps(t, "http://127.0.0.1:0")
	reg, err := widget.NewRegistry(All(deps)...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	want := []string{
		"Bitcoin Tracker",
		"Pokemon Randomizer",
		"Weather",
		"Pokemon Search",
		"Book Search",
		"Image Filtering",
		"MiniPlayer",
		"News Feed",
		"Is This My Card?",
	}
	if diff := cmp.Diff(want, reg.Names()); diff != "" {
		t.Fatalf("registry names mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigSchemas(t *testing.T) {
	deps, _ := testDeps(t, "http://127.0.0.1:0")
	reg, err := widget.NewRegistry(All(deps)...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	weather, _ := reg.Get("Weather")
	if !weather.HasSettings() || weather.Schema[0].Default != "Salinas" {
		t.Fatalf("weather schema = %+v", weather.Schema)
	}

	crypto, _ := reg.Get("Bitcoin Tracker")
	if crypto.HasSettings() {
		t.Fatalf("Bitcoin Tracker should not expose settings")
	}

	cards, _ := reg.Get("Is This My Card?")
	if len(cards.Schema) != 2 || len(cards.Schema[0].Options) != 13 || len(cards.Schema[1].Options) != 4 {
		t.Fatalf("card schema = %+v", cards.Schema)
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("clear sky"); got != "Clear Sky" {
		t.Fatalf("titleCase = %q", got)
	}
	if got := capitalize("pikachu"); got != "Pikachu" {
		t.Fatalf("capitalize = %q", got)
	}
}
