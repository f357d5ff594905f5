package builtin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/faciam-dev/widgetboard/internal/widget"
)

const newsJSON = `{"status":"success","results":[
	{"title":"","link":"https://n.example/skip"},
	{"title":"First Headline","link":"https://n.example/a","description":"Short desc","image_url":"https://img.example/a.jpg","pubDate":"2025-01-02","source_id":"example times"},
	{"title":"Second Headline","link":"https://n.example/b","description":""}
]}`

func TestNewsSummaryRemembersArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(newsJSON))
	}))
	defer srv.Close()

	deps, _ := testDeps(t, srv.URL)
	// Rand pinned to 0: the first valid story is chosen.
	b := &newsFeed{deps}
	ctx := context.Background()

	got := b.Summary(ctx, widget.Invocation{UserID: 42})
	if got.Text != "First Headline" || got.Image != "https://img.example/a.jpg" {
		t.Fatalf("summary = %+v", got)
	}

	rows := b.Detail(ctx, widget.Invocation{UserID: 42})
	if rows[0] != widget.TextRow("Headline", "First Headline") {
		t.Fatalf("headline row = %+v", rows[0])
	}
	if rows[1] != widget.TextRow("Date", "2025-01-02") {
		t.Fatalf("date row = %+v", rows[1])
	}
	if rows[2] != widget.TextRow("Source", "Example Times") {
		t.Fatalf("source row = %+v", rows[2])
	}
	if rows[4] != widget.TextRow("Link", "https://n.example/a") {
		t.Fatalf("link row = %+v", rows[4])
	}
}

func TestNewsDetailFallsBackToFirstValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(newsJSON))
	}))
	defer srv.Close()

	deps, _ := testDeps(t, srv.URL)
	b := &newsFeed{deps}

	// No remembered article for this user.
	rows := b.Detail(context.Background(), widget.Invocation{UserID: 99})
	if rows[0] != widget.TextRow("Headline", "First Headline") {
		t.Fatalf("fallback row = %+v", rows[0])
	}
	// Missing description falls through content to the stock message.
	foundDesc := false
	for _, r := range rows {
		if r.Label == "Description" && r.Value == "Short desc" {
			foundDesc = true
		}
	}
	if !foundDesc {
		t.Fatalf("description row missing: %+v", rows)
	}
}

func TestNewsSummaryStatuses(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"api error", `{"status":"error","results":[]}`, "API Error"},
		{"no results", `{"status":"success","results":[]}`, "No News Found"},
		{"no headlines", `{"status":"success","results":[{"title":""}]}`, "No Headlines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			deps, _ := testDeps(t, srv.URL)
			b := &newsFeed{deps}
			got := b.Summary(context.Background(), widget.Invocation{UserID: 1})
			if got.Text != tt.want {
				t.Fatalf("summary = %+v, want text %q", got, tt.want)
			}
		})
	}
}

func TestNewsSummaryConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	deps, _ := testDeps(t, srv.URL)
	b := &newsFeed{deps}
	got := b.Summary(context.Background(), widget.Invocation{UserID: 1})
	if got.Text != "Connection Error" {
		t.Fatalf("summary = %+v", got)
	}
}

func TestNewsTitleTruncation(t *testing.T) {
	long := strings.Repeat("x", 150)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","results":[{"title":"` + long + `","link":"https://n.example/l"}]}`))
	}))
	defer srv.Close()

	deps, _ := testDeps(t, srv.URL)
	b := &newsFeed{deps}
	got := b.Summary(context.Background(), widget.Invocation{UserID: 1})
	if len(got.Text) != 100 || !strings.HasSuffix(got.Text, "...") {
		t.Fatalf("truncated title = %q (len %d)", got.Text, len(got.Text))
	}
	if got.Image != newsFallback {
		t.Fatalf("image fallback = %q", got.Image)
	}
}

func TestNewsTitleTruncationKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("é", 150)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","results":[{"title":"` + long + `","link":"https://n.example/l"}]}`))
	}))
	defer srv.Close()

	deps, _ := testDeps(t, srv.URL)
	b := &newsFeed{deps}
	got := b.Summary(context.Background(), widget.Invocation{UserID: 1})
	if !utf8.ValidString(got.Text) {
		t.Fatalf("truncated title is not valid UTF-8: %q", got.Text)
	}
	if utf8.RuneCountInString(got.Text) != 100 || !strings.HasSuffix(got.Text, "...") {
		t.Fatalf("truncated title = %q (%d runes)", got.Text, utf8.RuneCountInString(got.Text))
	}
}

func TestNewsDetailDescriptionTruncation(t *testing.T) {
	long := strings.Repeat("é", 350)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","results":[{"title":"T","link":"https://n.example/l","description":"` + long + `"}]}`))
	}))
	defer srv.Close()

	deps, _ := testDeps(t, srv.URL)
	b := &newsFeed{deps}
	rows := b.Detail(context.Background(), widget.Invocation{UserID: 1})
	var desc string
	for _, r := range rows {
		if r.Label == "Description" {
			desc = r.Value
		}
	}
	if !utf8.ValidString(desc) {
		t.Fatalf("description is not valid UTF-8: %q", desc)
	}
	if utf8.RuneCountInString(desc) != 303 || !strings.HasSuffix(desc, "...") {
		t.Fatalf("description = %q (%d runes)", desc, utf8.RuneCountInString(desc))
	}
}
