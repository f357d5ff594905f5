package instancesrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/faciam-dev/widgetboard/internal/widget"
)

// PGStore implements Store for PostgreSQL databases.
type PGStore struct{ DB *sql.DB }

// NewPGStore creates a new PGStore.
func NewPGStore(db *sql.DB) Store { return &PGStore{DB: db} }

// ListForUser returns the user's instances in placement order.
func (s *PGStore) ListForUser(ctx context.Context, userID int64) ([]Instance, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT uw.id, uw.user_id, w.name
        FROM user_widgets uw JOIN widgets w ON w.id = uw.widget_id
        WHERE uw.user_id = $1 ORDER BY uw.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Instance
	for rows.Next() {
		var it Instance
		if err := rows.Scan(&it.ID, &it.UserID, &it.WidgetName); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Get returns a single instance by id.
func (s *PGStore) Get(ctx context.Context, id int64) (Instance, error) {
	var it Instance
	err := s.DB.QueryRowContext(ctx, `
        SELECT uw.id, uw.user_id, w.name
        FROM user_widgets uw JOIN widgets w ON w.id = uw.widget_id
        WHERE uw.id = $1`, id).Scan(&it.ID, &it.UserID, &it.WidgetName)
	if errors.Is(err, sql.ErrNoRows) {
		return Instance{}, ErrNotFound
	}
	if err != nil {
		return Instance{}, err
	}
	return it, nil
}

// Settings returns the saved settings of an instance.
func (s *PGStore) Settings(ctx context.Context, id int64) (widget.Settings, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT setting_name, setting_value FROM user_widget_settings
        WHERE user_widget_id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := widget.Settings{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// SaveSettings replaces the stored settings of an instance.
func (s *PGStore) SaveSettings(ctx context.Context, id int64, set widget.Settings) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_widget_settings WHERE user_widget_id = $1`, id); err != nil {
		return err
	}
	for k, v := range set {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO user_widget_settings (user_widget_id, setting_name, setting_value)
            VALUES ($1,$2,$3)`, id, k, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Add places a widget on the user's board.
func (s *PGStore) Add(ctx context.Context, userID int64, widgetName string) (int64, error) {
	var widgetID int64
	err := s.DB.QueryRowContext(ctx, `SELECT id FROM widgets WHERE name = $1`, widgetName).Scan(&widgetID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var id int64
	if err := s.DB.QueryRowContext(ctx, `
        INSERT INTO user_widgets (user_id, widget_id) VALUES ($1,$2) RETURNING id`,
		userID, widgetID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// WidgetNames lists the names known to the widgets catalog table.
func (s *PGStore) WidgetNames(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT name FROM widgets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// EnsureWidgets inserts any missing names into the catalog table.
func (s *PGStore) EnsureWidgets(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	have, err := s.WidgetNames(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(have))
	for _, n := range have {
		known[n] = true
	}
	var missing []string
	for _, n := range names {
		if !known[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	q := "INSERT INTO widgets (name) VALUES "
	args := make([]any, 0, len(missing))
	parts := make([]string, 0, len(missing))
	for i, n := range missing {
		parts = append(parts, fmt.Sprintf("($%d)", i+1))
		args = append(args, n)
	}
	q += strings.Join(parts, ",")
	_, err = s.DB.ExecContext(ctx, q, args...)
	return err
}
