package builtin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/faciam-dev/widgetboard/internal/widget"
)

const pikachuJSON = `{
	"id": 25,
	"name": "pikachu",
	"height": 4,
	"weight": 60,
	"sprites": {
		"front_default": "https://sprites.example/25.png",
		"other": {"official-artwork": {"front_default": "https://art.example/25.png"}}
	},
	"types": [{"type": {"name": "electric"}}],
	"abilities": [{"ability": {"name": "static"}}, {"ability": {"name": "lightning-rod"}}],
	"stats": [
		{"base_stat": 35, "stat": {"name": "hp"}},
		{"base_stat": 90, "stat": {"name": "speed"}}
	]
}`

func TestPokemonRandomizerRemembersRoll(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(pikachuJSON))
	}))
	defer srv.Close()

	deps, c := testDeps(t, srv.URL)
	deps.Rand = func(n int) int { return 24 } // roll id 25
	b := &pokemonRandomizer{deps}
	ctx := context.Background()

	got := b.Summary(ctx, widget.Invocation{InstanceID: 7})
	if got.Text != "It's Pikachu!" || got.Image != "https://sprites.example/25.png" {
		t.Fatalf("summary = %+v", got)
	}

	rows := b.Detail(ctx, widget.Invocation{InstanceID: 7})
	if len(rows) == 0 || rows[0] != widget.ImageRow("Official Artwork", "https://art.example/25.png") {
		t.Fatalf("detail rows = %+v", rows)
	}

	// Summary and detail must both hit /api/v2/pokemon/25: the detail uses
	// the remembered roll, not a new one.
	for _, p := range paths {
		if p != "/api/v2/pokemon/25" {
			t.Fatalf("unexpected path %q", p)
		}
	}
	// Randomized lookups never populate the shared cache.
	if c.Len() != 0 {
		t.Fatalf("randomizer fetch was cached")
	}
}

func TestPokemonRandomizerPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	deps, _ := testDeps(t, srv.URL)
	b := &pokemonRandomizer{deps}
	got := b.Summary(context.Background(), widget.Invocation{InstanceID: 1})
	if got.Text != "Wild Pokemon fled!" || got.Image != "" {
		t.Fatalf("placeholder = %+v", got)
	}
}

func TestPokemonSearch(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/api/v2/pokemon/pikachu" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(pikachuJSON))
	}))
	defer srv.Close()

	deps, _ := testDeps(t, srv.URL)
	b := &pokemonSearch{deps}
	ctx := context.Background()

	// Configured name is lowercased before the lookup.
	inv := widget.Invocation{Config: widget.Settings{"Target_Pokemon": "PIKACHU"}}
	got := b.Summary(ctx, inv)
	if got.Text != "Tracking: Pikachu" {
		t.Fatalf("summary = %+v", got)
	}

	// Deterministic lookups are cached.
	b.Summary(ctx, inv)
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("upstream fetched %d times, want 1", hits)
	}
}

func TestPokedexRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pikachuJSON))
	}))
	defer srv.Close()

	deps, _ := testDeps(t, srv.URL)
	b := &pokemonSearch{deps}
	rows := b.Detail(context.Background(), widget.Invocation{})

	assertRow := func(i int, want widget.Row) {
		t.Helper()
		if rows[i] != want {
			t.Fatalf("row %d = %+v, want %+v", i, rows[i], want)
		}
	}
	assertRow(2, widget.TextRow("Name", "Pikachu"))
	assertRow(3, widget.TextRow("ID", "#25"))
	assertRow(5, widget.TextRow("Height", "0.4 m"))
	assertRow(6, widget.TextRow("Weight", "6 kg"))
	assertRow(8, widget.TextRow("Types", "Electric"))
	assertRow(9, widget.TextRow("Abilities", "Static, Lightning Rod"))
	assertRow(11, widget.TextRow("HP", "35"))
	assertRow(12, widget.TextRow("Speed", "90"))
}
