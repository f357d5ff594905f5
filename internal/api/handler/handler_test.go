package handler

import (
	"context"
	"net/http"
	"testing"

	humago "github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/widgetboard/internal/dashboard"
	instancesrepo "github.com/faciam-dev/widgetboard/internal/repository/instances"
	"github.com/faciam-dev/widgetboard/internal/widget"
)

// fakeStore keeps instances in memory for handler tests.
type fakeStore struct {
	instances []instancesrepo.Instance
	settings  map[int64]widget.Settings
	catalog   []string
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: map[int64]widget.Settings{}, nextID: 10}
}

func (s *fakeStore) ListForUser(ctx context.Context, userID int64) ([]instancesrepo.Instance, error) {
	var out []instancesrepo.Instance
	for _, it := range s.instances {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, id int64) (instancesrepo.Instance, error) {
	for _, it := range s.instances {
		if it.ID == id {
			return it, nil
		}
	}
	return instancesrepo.Instance{}, instancesrepo.ErrNotFound
}

func (s *fakeStore) Settings(ctx context.Context, id int64) (widget.Settings, error) {
	if cfg, ok := s.settings[id]; ok {
		return cfg, nil
	}
	return widget.Settings{}, nil
}

func (s *fakeStore) SaveSettings(ctx context.Context, id int64, set widget.Settings) error {
	s.settings[id] = set
	return nil
}

func (s *fakeStore) Add(ctx context.Context, userID int64, widgetName string) (int64, error) {
	for _, n := range s.catalog {
		if n == widgetName {
			s.nextID++
			s.instances = append(s.instances, instancesrepo.Instance{ID: s.nextID, UserID: userID, WidgetName: widgetName})
			return s.nextID, nil
		}
	}
	return 0, instancesrepo.ErrNotFound
}

func (s *fakeStore) WidgetNames(ctx context.Context) ([]string, error) { return s.catalog, nil }

func (s *fakeStore) EnsureWidgets(ctx context.Context, names []string) error {
	known := map[string]bool{}
	for _, n := range s.catalog {
		known[n] = true
	}
	for _, n := range names {
		if !known[n] {
			s.catalog = append(s.catalog, n)
		}
	}
	return nil
}

type staticBehavior struct {
	summary widget.Summary
	rows    []widget.Row
}

func (b staticBehavior) Summary(ctx context.Context, inv widget.Invocation) widget.Summary {
	return b.summary
}

func (b staticBehavior) Detail(ctx context.Context, inv widget.Invocation) []widget.Row {
	return b.rows
}

func newAggregator(t *testing.T, store instancesrepo.Store) *dashboard.Aggregator {
	t.Helper()
	reg, err := widget.NewRegistry(
		widget.Descriptor{
			Name:     "Weather",
			Behavior: staticBehavior{summary: widget.Summary{Text: "Reno: 70°F"}, rows: []widget.Row{widget.TextRow("Location", "Reno")}},
			Schema:   []widget.Field{{Name: "city", Default: "Salinas"}},
		},
		widget.Descriptor{
			Name:     "MiniPlayer",
			Behavior: staticBehavior{summary: widget.Summary{Text: "MiniPlayer"}},
		},
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return dashboard.New(reg, store)
}

func TestDashboardGet(t *testing.T) {
	store := newFakeStore()
	store.instances = []instancesrepo.Instance{{ID: 1, UserID: 7, WidgetName: "Weather"}}
	h := &DashboardHandler{Agg: newAggregator(t, store)}
	out, err := h.get(context.Background(), &dashboardParams{UserID: 7})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(out.Body.Tiles) != 1 || out.Body.Tiles[0].Summary.Text != "Reno: 70°F" {
		t.Fatalf("tiles = %+v", out.Body.Tiles)
	}
}

func TestDashboardGetEmptyBoardIsNotNull(t *testing.T) {
	h := &DashboardHandler{Agg: newAggregator(t, newFakeStore())}
	out, err := h.get(context.Background(), &dashboardParams{UserID: 7})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Body.Tiles == nil || len(out.Body.Tiles) != 0 {
		t.Fatalf("tiles = %#v", out.Body.Tiles)
	}
}

func TestDashboardAdd(t *testing.T) {
	store := newFakeStore()
	h := &DashboardHandler{Agg: newAggregator(t, store)}
	in := &addWidgetIn{}
	in.Body.UserID = 7
	in.Body.Widget = "Weather"
	out, err := h.add(context.Background(), in)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if out.Body.InstanceID == 0 {
		t.Fatalf("instance id = 0")
	}
}

func TestDashboardAddUnknownIs404(t *testing.T) {
	h := &DashboardHandler{Agg: newAggregator(t, newFakeStore())}
	in := &addWidgetIn{}
	in.Body.UserID = 7
	in.Body.Widget = "Nope"
	_, err := h.add(context.Background(), in)
	se, ok := err.(humago.StatusError)
	if !ok || se.GetStatus() != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestInstanceDetail(t *testing.T) {
	store := newFakeStore()
	store.instances = []instancesrepo.Instance{{ID: 3, UserID: 7, WidgetName: "Weather"}}
	h := &InstanceHandler{Agg: newAggregator(t, store)}
	out, err := h.detail(context.Background(), &instanceParams{ID: 3})
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if out.Body.Widget != "Weather" || len(out.Body.Rows) != 1 {
		t.Fatalf("detail = %+v", out.Body)
	}
}

func TestInstanceDetailUnknownFailsClosed(t *testing.T) {
	// Detail retrieval never errors out: an unknown instance renders an
	// error page, not a 404.
	h := &InstanceHandler{Agg: newAggregator(t, newFakeStore())}
	out, err := h.detail(context.Background(), &instanceParams{ID: 404})
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if out.Body.Widget != "Error" || len(out.Body.Rows) != 0 {
		t.Fatalf("detail = %+v", out.Body)
	}
}

func TestInstanceConfigRoundTrip(t *testing.T) {
	store := newFakeStore()
	store.instances = []instancesrepo.Instance{{ID: 3, UserID: 7, WidgetName: "Weather"}}
	h := &InstanceHandler{Agg: newAggregator(t, store)}

	in := &configIn{ID: 3}
	in.Body.Settings = map[string]string{"city": "Boise", "bogus": "x"}
	if _, err := h.putConfig(context.Background(), in); err != nil {
		t.Fatalf("putConfig: %v", err)
	}

	out, err := h.getConfig(context.Background(), &instanceParams{ID: 3})
	if err != nil {
		t.Fatalf("getConfig: %v", err)
	}
	if out.Body.Widget != "Weather" {
		t.Fatalf("widget = %q", out.Body.Widget)
	}
	if len(out.Body.Fields) != 1 || out.Body.Fields[0].Default != "Boise" {
		t.Fatalf("fields = %+v", out.Body.Fields)
	}
}

func TestWidgetsList(t *testing.T) {
	h := &WidgetsHandler{Agg: newAggregator(t, newFakeStore())}
	out, err := h.list(context.Background(), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Body.Widgets) != 2 {
		t.Fatalf("widgets = %+v", out.Body.Widgets)
	}
	if out.Body.Widgets[0].Name != "Weather" || !out.Body.Widgets[0].HasSettings {
		t.Fatalf("first = %+v", out.Body.Widgets[0])
	}
	if out.Body.Widgets[1].HasSettings {
		t.Fatalf("second = %+v", out.Body.Widgets[1])
	}
}
