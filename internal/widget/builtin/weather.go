package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/faciam-dev/widgetboard/internal/widget"
	"github.com/faciam-dev/widgetboard/pkg/metrics"
)

// weatherWidget reports current conditions for a configured city via the
// OpenWeatherMap current-weather endpoint.
type weatherWidget struct {
	deps Deps
}

type openWeatherReply struct {
	Cod  json.Number `json:"cod"`
	Name string      `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (w *weatherWidget) url(city string) string {
	rt := w.deps.Config.Current()
	return fmt.Sprintf("%s/data/2.5/weather?q=%s&appid=%s&units=imperial",
		rt.Endpoints.OpenWeather, url.QueryEscape(city), rt.Keys.Weather)
}

func (w *weatherWidget) Summary(ctx context.Context, inv widget.Invocation) widget.Summary {
	city := inv.Config.Get("city", "Salinas")

	var data openWeatherReply
	if err := w.deps.Gateway.JSON(ctx, w.url(city), &data); err != nil {
		metrics.WidgetErrors.WithLabelValues("Weather", "summary").Inc()
		return widget.Summary{Text: "Weather Error", Image: ""}
	}
	// The API can answer 200 with an error payload carrying a non-200 cod.
	if c := data.Cod.String(); c != "" && c != "200" {
		return widget.Summary{Text: "City Not Found", Image: ""}
	}
	if len(data.Weather) == 0 {
		metrics.WidgetErrors.WithLabelValues("Weather", "summary").Inc()
		return widget.Summary{Text: "Weather Error", Image: ""}
	}

	temp := int(math.Round(data.Main.Temp))
	icon := fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", data.Weather[0].Icon)
	return widget.Summary{
		Text:  fmt.Sprintf("%s: %d°F", city, temp),
		Image: icon,
	}
}

func (w *weatherWidget) Detail(ctx context.Context, inv widget.Invocation) []widget.Row {
	city := inv.Config.Get("city", "Salinas")

	var data openWeatherReply
	if err := w.deps.Gateway.JSON(ctx, w.url(city), &data); err != nil {
		metrics.WidgetErrors.WithLabelValues("Weather", "detail").Inc()
		return []widget.Row{widget.TextRow("Error", "Could not fetch weather")}
	}
	if len(data.Weather) == 0 {
		metrics.WidgetErrors.WithLabelValues("Weather", "detail").Inc()
		return []widget.Row{widget.TextRow("Error", "Could not fetch weather")}
	}
	return []widget.Row{
		widget.TextRow("Location", fmt.Sprintf("%s, %s", data.Name, data.Sys.Country)),
		widget.TextRow("Temperature", strconv.FormatFloat(data.Main.Temp, 'f', -1, 64)+"°F"),
		widget.TextRow("Condition", titleCase(data.Weather[0].Description)),
		widget.TextRow("Wind Speed", strconv.FormatFloat(data.Wind.Speed, 'f', -1, 64)+" mph"),
	}
}
