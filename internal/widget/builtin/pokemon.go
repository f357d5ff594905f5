package builtin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/faciam-dev/widgetboard/internal/widget"
	"github.com/faciam-dev/widgetboard/pkg/metrics"
)

// stateScopePokemon keys the randomizer's rolled id per instance so the
// detail page shows the same pokemon the tile did.
const stateScopePokemon = "pokemon"

const kantoPokedexSize = 151

type pokemonData struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Height  int    `json:"height"`
	Weight  int    `json:"weight"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Types []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
	} `json:"abilities"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
}

// pokedexRows renders the shared detail layout for both pokemon widgets.
func pokedexRows(d pokemonData) []widget.Row {
	image := d.Sprites.Other.OfficialArtwork.FrontDefault
	if image == "" {
		image = d.Sprites.FrontDefault
	}

	rows := []widget.Row{
		widget.ImageRow("Official Artwork", image),
		widget.SeparatorRow("Basic Info"),
		widget.TextRow("Name", capitalize(d.Name)),
		widget.TextRow("ID", fmt.Sprintf("#%d", d.ID)),
		widget.SeparatorRow("Physical Traits"),
		widget.TextRow("Height", strconv.FormatFloat(float64(d.Height)/10, 'f', -1, 64)+" m"),
		widget.TextRow("Weight", strconv.FormatFloat(float64(d.Weight)/10, 'f', -1, 64)+" kg"),
		widget.SeparatorRow("Combat Info"),
		widget.TextRow("Types", typeList(d)),
		widget.TextRow("Abilities", abilityList(d)),
		widget.SeparatorRow("Base Stats"),
	}
	for _, s := range d.Stats {
		name := titleCase(strings.ReplaceAll(s.Stat.Name, "-", " "))
		if name == "Hp" {
			name = "HP"
		}
		rows = append(rows, widget.TextRow(name, strconv.Itoa(s.BaseStat)))
	}
	return rows
}

func typeList(d pokemonData) string {
	parts := make([]string, len(d.Types))
	for i, t := range d.Types {
		parts[i] = titleCase(t.Type.Name)
	}
	return strings.Join(parts, ", ")
}

func abilityList(d pokemonData) string {
	parts := make([]string, len(d.Abilities))
	for i, a := range d.Abilities {
		parts[i] = titleCase(strings.ReplaceAll(a.Ability.Name, "-", " "))
	}
	return strings.Join(parts, ", ")
}

// pokemonRandomizer rolls a random Kanto pokemon on every summary. The roll
// must differ call to call, so it bypasses the cache, and the rolled id is
// remembered per instance for the matching detail view.
type pokemonRandomizer struct {
	deps Deps
}

func (w *pokemonRandomizer) url(id int) string {
	return fmt.Sprintf("%s/api/v2/pokemon/%d", w.deps.Config.Current().Endpoints.PokeAPI, id)
}

func (w *pokemonRandomizer) Summary(ctx context.Context, inv widget.Invocation) widget.Summary {
	id := w.deps.Rand(kantoPokedexSize) + 1
	w.deps.State.Put(stateScopePokemon, inv.InstanceID, strconv.Itoa(id))

	var data pokemonData
	if err := w.deps.Gateway.JSONUncached(ctx, w.url(id), &data); err != nil {
		metrics.WidgetErrors.WithLabelValues("Pokemon Randomizer", "summary").Inc()
		return widget.Summary{Text: "Wild Pokemon fled!", Image: ""}
	}
	return widget.Summary{
		Text:  fmt.Sprintf("It's %s!", capitalize(data.Name)),
		Image: data.Sprites.FrontDefault,
	}
}

func (w *pokemonRandomizer) Detail(ctx context.Context, inv widget.Invocation) []widget.Row {
	id := 0
	if v, ok := w.deps.State.Get(stateScopePokemon, inv.InstanceID); ok {
		id, _ = strconv.Atoi(v)
	}
	if id == 0 {
		id = w.deps.Rand(kantoPokedexSize) + 1
	}

	var data pokemonData
	if err := w.deps.Gateway.JSONUncached(ctx, w.url(id), &data); err != nil {
		metrics.WidgetErrors.WithLabelValues("Pokemon Randomizer", "detail").Inc()
		return []widget.Row{widget.TextRow("Error", "Wild Pokemon fled!")}
	}
	return pokedexRows(data)
}

// pokemonSearch tracks one configured pokemon; lookups are deterministic,
// so they go through the cache.
type pokemonSearch struct {
	deps Deps
}

func (w *pokemonSearch) url(target string) string {
	return fmt.Sprintf("%s/api/v2/pokemon/%s", w.deps.Config.Current().Endpoints.PokeAPI, target)
}

func (w *pokemonSearch) Summary(ctx context.Context, inv widget.Invocation) widget.Summary {
	target := strings.ToLower(inv.Config.Get("target_pokemon", "pikachu"))

	var data pokemonData
	if err := w.deps.Gateway.JSON(ctx, w.url(target), &data); err != nil {
		metrics.WidgetErrors.WithLabelValues("Pokemon Search", "summary").Inc()
		return widget.Summary{Text: "Not Found", Image: ""}
	}
	return widget.Summary{
		Text:  fmt.Sprintf("Tracking: %s", capitalize(data.Name)),
		Image: data.Sprites.FrontDefault,
	}
}

func (w *pokemonSearch) Detail(ctx context.Context, inv widget.Invocation) []widget.Row {
	target := strings.ToLower(inv.Config.Get("target_pokemon", "pikachu"))

	var data pokemonData
	if err := w.deps.Gateway.JSON(ctx, w.url(target), &data); err != nil {
		metrics.WidgetErrors.WithLabelValues("Pokemon Search", "detail").Inc()
		return []widget.Row{widget.TextRow("Error", "Could not load details")}
	}
	return pokedexRows(data)
}
