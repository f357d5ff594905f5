package builtin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/faciam-dev/widgetboard/internal/widget"
	"github.com/faciam-dev/widgetboard/pkg/metrics"
)

const bookSearchImage = "../static/images/book_search_image.jpg"

// bookSearch queries the Gutendex catalog. Its summary is purely local; the
// detail fetch is the distinguished slow endpoint with the long timeout.
type bookSearch struct {
	deps Deps
}

type gutendexReply struct {
	Count   int `json:"count"`
	Results []struct {
		Title   string `json:"title"`
		Authors []struct {
			Name string `json:"name"`
		} `json:"authors"`
		DownloadCount int `json:"download_count"`
	} `json:"results"`
}

func (w *bookSearch) Summary(ctx context.Context, inv widget.Invocation) widget.Summary {
	term := inv.Config.Get("search", "N/A")
	return widget.Summary{
		Text:  fmt.Sprintf("Last Search: %s", term),
		Image: bookSearchImage,
	}
}

func (w *bookSearch) Detail(ctx context.Context, inv widget.Invocation) []widget.Row {
	term := strings.ToLower(inv.Config.Get("search", ""))
	u := fmt.Sprintf("%s/books?search=%s&languages=en",
		w.deps.Config.Current().Endpoints.Gutendex, url.QueryEscape(term))

	var data gutendexReply
	if err := w.deps.Gateway.JSON(ctx, u, &data); err != nil {
		metrics.WidgetErrors.WithLabelValues("Book Search", "detail").Inc()
		return []widget.Row{widget.TextRow("Error", "Search Failed.")}
	}

	rows := []widget.Row{
		widget.TextRow("Total Number of Search Results", strconv.Itoa(data.Count)),
	}
	for i, book := range data.Results {
		authors := make([]string, len(book.Authors))
		for j, a := range book.Authors {
			authors[j] = naturalName(a.Name)
		}
		rows = append(rows,
			widget.SeparatorRow(fmt.Sprintf("Result %d", i+1)),
			widget.TextRow(fmt.Sprintf("(%d) Title", i+1), book.Title),
			widget.TextRow(fmt.Sprintf("(%d) Authors", i+1), strings.Join(authors, ", ")),
			widget.TextRow(fmt.Sprintf("(%d) Download Count", i+1), strconv.Itoa(book.DownloadCount)),
		)
	}
	return rows
}

// naturalName flips a catalog-style "Last, First" name to "First Last".
// Names without a comma pass through unchanged.
func naturalName(name string) string {
	last, first, ok := strings.Cut(name, ",")
	if !ok {
		return name
	}
	return strings.TrimSpace(first) + " " + strings.TrimSpace(last)
}
