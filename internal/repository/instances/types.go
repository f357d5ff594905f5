package instancesrepo

import (
	"context"
	"errors"

	"github.com/faciam-dev/widgetboard/internal/widget"
)

// ErrNotFound is returned when a widget instance does not exist.
var ErrNotFound = errors.New("instancesrepo: not found")

// Instance is one placed widget on a user's board.
type Instance struct {
	ID         int64
	UserID     int64
	WidgetName string
}

// Store persists widget placements and their per-instance settings.
type Store interface {
	// ListForUser returns the user's instances in placement order.
	ListForUser(ctx context.Context, userID int64) ([]Instance, error)
	// Get returns a single instance by id.
	Get(ctx context.Context, id int64) (Instance, error)
	// Settings returns the saved settings of an instance. A missing
	// instance yields an empty map, not an error.
	Settings(ctx context.Context, id int64) (widget.Settings, error)
	// SaveSettings replaces the stored settings of an instance.
	SaveSettings(ctx context.Context, id int64, s widget.Settings) error
	// Add places a widget on the user's board and returns the new id.
	Add(ctx context.Context, userID int64, widgetName string) (int64, error)
	// WidgetNames lists the names known to the widgets catalog table.
	WidgetNames(ctx context.Context) ([]string, error)
	// EnsureWidgets inserts any missing names into the catalog table.
	EnsureWidgets(ctx context.Context, names []string) error
}
