// Package dashboard assembles a user's board from stored widget instances,
// fanning summary calls out over a bounded worker pool so one slow upstream
// delays the page by at most its own fetch budget.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/faciam-dev/widgetboard/internal/logger"
	instancesrepo "github.com/faciam-dev/widgetboard/internal/repository/instances"
	"github.com/faciam-dev/widgetboard/internal/widget"
	"github.com/faciam-dev/widgetboard/pkg/metrics"
)

// maxWorkers caps the number of concurrent summary fetches per build.
const maxWorkers = 10

// errorSummary is what a tile renders when its behavior panics.
var errorSummary = widget.Summary{Text: "Error", Image: ""}

// Tile is one rendered dashboard entry.
type Tile struct {
	InstanceID  int64          `json:"instance_id"`
	Widget      string         `json:"widget"`
	Summary     widget.Summary `json:"summary"`
	HasSettings bool           `json:"has_settings"`
}

// Detail is a widget instance's full page.
type Detail struct {
	InstanceID int64        `json:"instance_id"`
	Widget     string       `json:"widget"`
	Rows       []widget.Row `json:"rows"`
}

// Aggregator builds dashboards and detail pages from the registry plus the
// instance store.
type Aggregator struct {
	reg   *widget.Registry
	store instancesrepo.Store
}

// New creates an Aggregator.
func New(reg *widget.Registry, store instancesrepo.Store) *Aggregator {
	return &Aggregator{reg: reg, store: store}
}

// Build renders the user's dashboard. Tiles come back in placement order
// regardless of which upstream answers first. Instances whose widget is no
// longer registered are skipped.
func (a *Aggregator) Build(ctx context.Context, userID int64) ([]Tile, error) {
	start := time.Now()
	defer func() { metrics.DashboardBuilds.Observe(time.Since(start).Seconds()) }()

	insts, err := a.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}

	type job struct {
		idx  int
		inst instancesrepo.Instance
		desc widget.Descriptor
	}
	var jobs []job
	for _, inst := range insts {
		d, err := a.reg.Get(inst.WidgetName)
		if err != nil {
			logger.L.Warn("skipping unregistered widget", "widget", inst.WidgetName, "instance", inst.ID)
			continue
		}
		jobs = append(jobs, job{idx: len(jobs), inst: inst, desc: d})
	}

	tiles := make([]Tile, len(jobs))
	ch := make(chan job)
	var wg sync.WaitGroup
	workers := maxWorkers
	if len(jobs) < workers {
		workers = len(jobs)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range ch {
				tiles[j.idx] = a.tile(ctx, j.inst, j.desc)
			}
		}()
	}
	for _, j := range jobs {
		ch <- j
	}
	close(ch)
	wg.Wait()
	return tiles, nil
}

// tile runs one summary call with a panic guard. A panicking behavior yields
// an error tile instead of killing the build.
func (a *Aggregator) tile(ctx context.Context, inst instancesrepo.Instance, d widget.Descriptor) (t Tile) {
	t = Tile{InstanceID: inst.ID, Widget: inst.WidgetName, HasSettings: d.HasSettings()}
	defer func() {
		if r := recover(); r != nil {
			logger.L.Error("widget summary panicked", "widget", inst.WidgetName, "instance", inst.ID, "panic", r)
			metrics.WidgetErrors.WithLabelValues(inst.WidgetName, "summary").Inc()
			t.Summary = errorSummary
		}
	}()
	inv, err := a.invocation(ctx, inst)
	if err != nil {
		logger.L.Error("load settings", "widget", inst.WidgetName, "instance", inst.ID, "err", err)
		t.Summary = errorSummary
		return t
	}
	t.Summary = d.Behavior.Summary(ctx, inv)
	return t
}

// Detail renders an instance's detail page. The page always renders
// something: an unknown instance or widget yields an "Error" header with no
// rows, and a panicking behavior keeps the instance's identity but drops
// its rows. The result parameters are named so the recover path returns
// the partially built detail instead of zero values.
func (a *Aggregator) Detail(ctx context.Context, instanceID int64) (out Detail) {
	out = Detail{InstanceID: instanceID, Widget: "Error"}
	inst, err := a.store.Get(ctx, instanceID)
	if err != nil {
		logger.L.Warn("detail for unknown instance", "instance", instanceID, "err", err)
		return out
	}
	d, err := a.reg.Get(inst.WidgetName)
	if err != nil {
		logger.L.Warn("detail for unregistered widget", "widget", inst.WidgetName, "instance", inst.ID)
		return out
	}
	out = Detail{InstanceID: inst.ID, Widget: inst.WidgetName}
	defer func() {
		if r := recover(); r != nil {
			logger.L.Error("widget detail panicked", "widget", inst.WidgetName, "instance", inst.ID, "panic", r)
			metrics.WidgetErrors.WithLabelValues(inst.WidgetName, "detail").Inc()
			out.Rows = nil
		}
	}()
	inv, err := a.invocation(ctx, inst)
	if err != nil {
		logger.L.Error("load settings", "widget", inst.WidgetName, "instance", inst.ID, "err", err)
		return out
	}
	out.Rows = d.Behavior.Detail(ctx, inv)
	return out
}

func (a *Aggregator) invocation(ctx context.Context, inst instancesrepo.Instance) (widget.Invocation, error) {
	cfg, err := a.store.Settings(ctx, inst.ID)
	if err != nil {
		return widget.Invocation{}, err
	}
	return widget.Invocation{Config: cfg, InstanceID: inst.ID, UserID: inst.UserID}, nil
}

// ConfigFields returns the settings schema of the instance's widget, with
// saved values substituted for schema defaults.
func (a *Aggregator) ConfigFields(ctx context.Context, instanceID int64) (string, []widget.Field, error) {
	inst, err := a.store.Get(ctx, instanceID)
	if err != nil {
		return "", nil, err
	}
	d, err := a.reg.Get(inst.WidgetName)
	if err != nil {
		return "", nil, err
	}
	saved, err := a.store.Settings(ctx, inst.ID)
	if err != nil {
		return "", nil, err
	}
	fields := make([]widget.Field, len(d.Schema))
	copy(fields, d.Schema)
	for i, f := range fields {
		if v, ok := saved[f.Name]; ok {
			fields[i].Default = v
		}
	}
	return inst.WidgetName, fields, nil
}

// SaveConfig validates the instance exists, drops keys outside the widget's
// schema, and stores the rest.
func (a *Aggregator) SaveConfig(ctx context.Context, instanceID int64, s widget.Settings) error {
	inst, err := a.store.Get(ctx, instanceID)
	if err != nil {
		return err
	}
	d, err := a.reg.Get(inst.WidgetName)
	if err != nil {
		return err
	}
	allowed := make(map[string]bool, len(d.Schema))
	for _, f := range d.Schema {
		allowed[f.Name] = true
	}
	keep := widget.Settings{}
	for k, v := range s {
		if allowed[k] {
			keep[k] = v
		}
	}
	return a.store.SaveSettings(ctx, instanceID, keep)
}

// Available lists every registered widget with its settings flag.
type Available struct {
	Name        string `json:"name"`
	HasSettings bool   `json:"has_settings"`
}

// Widgets returns the registered widgets in declaration order.
func (a *Aggregator) Widgets() []Available {
	names := a.reg.Names()
	out := make([]Available, 0, len(names))
	for _, n := range names {
		d, err := a.reg.Get(n)
		if err != nil {
			continue
		}
		out = append(out, Available{Name: n, HasSettings: d.HasSettings()})
	}
	return out
}

// AddWidget places a registered widget on the user's board.
func (a *Aggregator) AddWidget(ctx context.Context, userID int64, name string) (int64, error) {
	if !a.reg.Has(name) {
		return 0, fmt.Errorf("%w: %q", widget.ErrNotFound, name)
	}
	id, err := a.store.Add(ctx, userID, name)
	if errors.Is(err, instancesrepo.ErrNotFound) {
		// Registered but missing from the catalog table; heal and retry.
		if serr := a.store.EnsureWidgets(ctx, []string{name}); serr != nil {
			return 0, serr
		}
		return a.store.Add(ctx, userID, name)
	}
	return id, err
}

// SyncWidgets reconciles the catalog table with the compiled-in registry.
func (a *Aggregator) SyncWidgets(ctx context.Context) error {
	return a.store.EnsureWidgets(ctx, a.reg.Names())
}
