package builtin

import (
	"context"
	"strconv"
	"strings"

	"github.com/faciam-dev/widgetboard/internal/widget"
	"github.com/faciam-dev/widgetboard/pkg/metrics"
)

const btcLogo = "https://upload.wikimedia.org/wikipedia/commons/thumb/4/46/Bitcoin.svg/128px-Bitcoin.svg.png"

// cryptoWidget shows the Coinbase BTC-USD spot price. The spot endpoint is
// shared by every user's tracker, so the cache collapses them into one fetch
// per TTL window.
type cryptoWidget struct {
	deps Deps
}

type coinbaseSpot struct {
	Data struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
		Base     string `json:"base"`
	} `json:"data"`
}

func (w *cryptoWidget) url() string {
	return w.deps.Config.Current().Endpoints.Coinbase + "/v2/prices/BTC-USD/spot"
}

func (w *cryptoWidget) Summary(ctx context.Context, inv widget.Invocation) widget.Summary {
	var data coinbaseSpot
	if err := w.deps.Gateway.JSON(ctx, w.url(), &data); err != nil {
		metrics.WidgetErrors.WithLabelValues("Bitcoin Tracker", "summary").Inc()
		return widget.Summary{Text: "Loading...", Image: btcLogo}
	}
	price, err := strconv.ParseFloat(data.Data.Amount, 64)
	if err != nil {
		metrics.WidgetErrors.WithLabelValues("Bitcoin Tracker", "summary").Inc()
		return widget.Summary{Text: "Loading...", Image: btcLogo}
	}
	return widget.Summary{Text: formatUSD(price), Image: btcLogo}
}

func (w *cryptoWidget) Detail(ctx context.Context, inv widget.Invocation) []widget.Row {
	var data coinbaseSpot
	if err := w.deps.Gateway.JSON(ctx, w.url(), &data); err != nil {
		metrics.WidgetErrors.WithLabelValues("Bitcoin Tracker", "detail").Inc()
		return []widget.Row{widget.TextRow("Error", "Could not load details")}
	}
	price, err := strconv.ParseFloat(data.Data.Amount, 64)
	if err != nil {
		metrics.WidgetErrors.WithLabelValues("Bitcoin Tracker", "detail").Inc()
		return []widget.Row{widget.TextRow("Error", "Could not load details")}
	}
	return []widget.Row{
		widget.ImageRow("Logo", btcLogo),
		widget.SeparatorRow("Market Data"),
		widget.TextRow("Current Price", formatUSD(price)),
		widget.TextRow("Currency", data.Data.Currency),
		widget.TextRow("Asset Code", data.Data.Base),
		widget.SeparatorRow("Asset Information"),
		widget.TextRow("Name", "Bitcoin"),
		widget.TextRow("Category", "Cryptocurrency"),
		widget.TextRow("Provider", "Coinbase Public API"),
	}
}

// formatUSD renders a price as "$12,345.67".
func formatUSD(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := "$" + b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
