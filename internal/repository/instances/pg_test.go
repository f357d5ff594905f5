package instancesrepo

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/faciam-dev/widgetboard/internal/widget"
)

func TestPGGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)
	mock.ExpectQuery(`SELECT uw.id, uw.user_id, w.name`).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).AddRow(5, 7, "News Feed"))
	got, err := store.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != 5 || got.UserID != 7 || got.WidgetName != "News Feed" {
		t.Fatalf("unexpected instance: %+v", got)
	}
}

func TestPGAddReturnsGeneratedID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)
	mock.ExpectQuery(`SELECT id FROM widgets`).WithArgs("Weather").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(`INSERT INTO user_widgets`).WithArgs(int64(7), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	id, err := store.Add(context.Background(), 7, "Weather")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d", id)
	}
}

func TestPGSaveSettingsRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)
	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_widget_settings`).WithArgs(int64(3)).WillReturnError(boom)
	mock.ExpectRollback()
	if err := store.SaveSettings(context.Background(), 3, widget.Settings{"city": "Boise"}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGWidgetNames(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)
	mock.ExpectQuery(`SELECT name FROM widgets`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Crypto Tracker").AddRow("Weather"))
	names, err := store.WidgetNames(context.Background())
	if err != nil {
		t.Fatalf("WidgetNames: %v", err)
	}
	if len(names) != 2 || names[0] != "Crypto Tracker" {
		t.Fatalf("unexpected names: %v", names)
	}
}
