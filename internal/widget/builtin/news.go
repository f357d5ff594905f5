package builtin

import (
	"context"
	"fmt"

	"github.com/faciam-dev/widgetboard/internal/widget"
	"github.com/faciam-dev/widgetboard/pkg/metrics"
)

const (
	stateScopeNews = "news"
	newsFallback   = "https://upload.wikimedia.org/wikipedia/commons/thumb/e/ec/Circle-icons-news.svg/512px-Circle-icons-news.svg.png"
	noDescription  = "No description available. Click the link to read more."
)

// newsFeed shows a random current headline for a configured country. The
// headline's link is remembered per user so the detail page opens the same
// story the tile showed.
type newsFeed struct {
	deps Deps
}

type newsArticle struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Content     string `json:"content"`
	ImageURL    string `json:"image_url"`
	PubDate     string `json:"pubDate"`
	SourceID    string `json:"source_id"`
}

type newsReply struct {
	Status  string        `json:"status"`
	Results []newsArticle `json:"results"`
}

func (w *newsFeed) url(country string) string {
	rt := w.deps.Config.Current()
	return fmt.Sprintf("%s/api/1/news?apikey=%s&country=%s&language=en",
		rt.Endpoints.NewsData, rt.Keys.News, country)
}

func validStories(results []newsArticle) []newsArticle {
	var out []newsArticle
	for _, a := range results {
		if a.Title != "" {
			out = append(out, a)
		}
	}
	return out
}

// truncate caps s at max runes total, ellipsis included. Slicing runes, not
// bytes, keeps a multi-byte character at the boundary from being torn.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func (w *newsFeed) Summary(ctx context.Context, inv widget.Invocation) widget.Summary {
	country := inv.Config.Get("country", "us")

	var data newsReply
	if err := w.deps.Gateway.JSON(ctx, w.url(country), &data); err != nil {
		metrics.WidgetErrors.WithLabelValues("News Feed", "summary").Inc()
		return widget.Summary{Text: "Connection Error", Image: ""}
	}
	if data.Status != "success" {
		return widget.Summary{Text: "API Error", Image: ""}
	}
	if len(data.Results) == 0 {
		return widget.Summary{Text: "No News Found", Image: ""}
	}
	stories := validStories(data.Results)
	if len(stories) == 0 {
		return widget.Summary{Text: "No Headlines", Image: ""}
	}

	article := stories[w.deps.Rand(len(stories))]
	if inv.UserID != 0 {
		w.deps.State.Put(stateScopeNews, inv.UserID, article.Link)
	}

	image := article.ImageURL
	if image == "" || len(image) > 250 {
		image = newsFallback
	}
	return widget.Summary{Text: truncate(article.Title, 100), Image: image}
}

func (w *newsFeed) Detail(ctx context.Context, inv widget.Invocation) []widget.Row {
	country := inv.Config.Get("country", "us")

	var data newsReply
	if err := w.deps.Gateway.JSON(ctx, w.url(country), &data); err != nil {
		metrics.WidgetErrors.WithLabelValues("News Feed", "detail").Inc()
		return []widget.Row{widget.TextRow("Error", "Could not fetch news details")}
	}
	if len(data.Results) == 0 {
		return []widget.Row{widget.TextRow("Error", "No news data found")}
	}
	stories := validStories(data.Results)
	if len(stories) == 0 {
		return []widget.Row{widget.TextRow("Error", "No articles found.")}
	}

	// Prefer the story the user's tile last showed; fall back to the first.
	article := stories[0]
	if link, ok := w.deps.State.Get(stateScopeNews, inv.UserID); ok {
		for _, s := range stories {
			if s.Link == link {
				article = s
				break
			}
		}
	}

	desc := article.Description
	if desc == "" {
		desc = article.Content
	}
	if desc == "" {
		desc = noDescription
	}
	if r := []rune(desc); len(r) > 300 {
		desc = string(r[:300]) + "..."
	}

	date := article.PubDate
	if date == "" {
		date = "Unknown"
	}
	source := article.SourceID
	if source == "" {
		source = "News"
	}
	link := article.Link
	if link == "" {
		link = "#"
	}
	return []widget.Row{
		widget.TextRow("Headline", article.Title),
		widget.TextRow("Date", date),
		widget.TextRow("Source", titleCase(source)),
		widget.TextRow("Description", desc),
		widget.TextRow("Link", link),
	}
}
