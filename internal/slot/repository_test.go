package slot

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the slots table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Schema matching the slots migration
	schema := `
		CREATE TABLE slots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			is_booked INTEGER NOT NULL DEFAULT 0,
			client_name TEXT,
			client_email TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			UNIQUE (date, time)
		) STRICT;
		CREATE INDEX idx_slots_date ON slots(date);
		CREATE INDEX idx_slots_time ON slots(time);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// testSlot creates an open slot for testing.
func testSlot(date, timeOfDay string) *Slot {
	return &Slot{
		Date: date,
		Time: timeOfDay,
	}
}

func TestSQLiteRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	t.Run("creates slot and assigns id", func(t *testing.T) {
		sl := testSlot("2026-09-14", "10:00")

		if err := repo.Create(ctx, sl); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if sl.ID == 0 {
			t.Error("Create() did not assign an id")
		}
		if sl.CreatedAt.IsZero() {
			t.Error("Create() did not populate CreatedAt")
		}

		got, err := repo.GetByID(ctx, sl.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Date != "2026-09-14" || got.Time != "10:00" {
			t.Errorf("got slot %s %s, want 2026-09-14 10:00", got.Date, got.Time)
		}
		if got.IsBooked {
			t.Error("new slot should not be booked")
		}
		if got.ClientName != nil || got.ClientEmail != nil {
			t.Error("new slot should have no client details")
		}
	})

	t.Run("returns ErrSlotExists for duplicate date and time", func(t *testing.T) {
		if err := repo.Create(ctx, testSlot("2026-09-15", "09:30")); err != nil {
			t.Fatalf("first Create() error = %v", err)
		}

		err := repo.Create(ctx, testSlot("2026-09-15", "09:30"))
		if !errors.Is(err, ErrSlotExists) {
			t.Errorf("Create() error = %v, want ErrSlotExists", err)
		}
	})

	t.Run("same time on a different date is allowed", func(t *testing.T) {
		if err := repo.Create(ctx, testSlot("2026-09-16", "09:30")); err != nil {
			t.Errorf("Create() error = %v", err)
		}
	})

	t.Run("stores client details on pre-booked slot", func(t *testing.T) {
		name, email := "Ada Lovelace", "ada@example.com"
		sl := &Slot{
			Date:        "2026-09-17",
			Time:        "14:00",
			IsBooked:    true,
			ClientName:  &name,
			ClientEmail: &email,
		}

		if err := repo.Create(ctx, sl); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := repo.GetByID(ctx, sl.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if !got.IsBooked {
			t.Error("slot should be booked")
		}
		if got.ClientName == nil || *got.ClientName != name {
			t.Errorf("ClientName = %v, want %q", got.ClientName, name)
		}
		if got.ClientEmail == nil || *got.ClientEmail != email {
			t.Errorf("ClientEmail = %v, want %q", got.ClientEmail, email)
		}
	})
}

func TestSQLiteRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	t.Run("returns ErrSlotNotFound for missing id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		if !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("GetByID() error = %v, want ErrSlotNotFound", err)
		}
	})
}

func TestSQLiteRepository_GetByDateTime(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	sl := testSlot("2026-10-01", "11:00")
	if err := repo.Create(ctx, sl); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("finds slot by date and time", func(t *testing.T) {
		got, err := repo.GetByDateTime(ctx, "2026-10-01", "11:00")
		if err != nil {
			t.Fatalf("GetByDateTime() error = %v", err)
		}
		if got.ID != sl.ID {
			t.Errorf("ID = %d, want %d", got.ID, sl.ID)
		}
	})

	t.Run("returns ErrSlotNotFound for absent pair", func(t *testing.T) {
		_, err := repo.GetByDateTime(ctx, "2026-10-01", "12:00")
		if !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("GetByDateTime() error = %v, want ErrSlotNotFound", err)
		}
	})
}

func TestSQLiteRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	// Insert out of order to verify sorting
	for _, pair := range [][2]string{
		{"2026-10-02", "14:00"},
		{"2026-10-01", "10:00"},
		{"2026-10-02", "09:00"},
	} {
		if err := repo.Create(ctx, testSlot(pair[0], pair[1])); err != nil {
			t.Fatalf("Create(%s %s) error = %v", pair[0], pair[1], err)
		}
	}

	t.Run("returns all slots ordered by date then time", func(t *testing.T) {
		slots, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(slots) != 3 {
			t.Fatalf("List() returned %d slots, want 3", len(slots))
		}

		want := [][2]string{
			{"2026-10-01", "10:00"},
			{"2026-10-02", "09:00"},
			{"2026-10-02", "14:00"},
		}
		for i, w := range want {
			if slots[i].Date != w[0] || slots[i].Time != w[1] {
				t.Errorf("slots[%d] = %s %s, want %s %s", i, slots[i].Date, slots[i].Time, w[0], w[1])
			}
		}
	})

	t.Run("filters by date", func(t *testing.T) {
		slots, err := repo.ListByDate(ctx, "2026-10-02")
		if err != nil {
			t.Fatalf("ListByDate() error = %v", err)
		}
		if len(slots) != 2 {
			t.Fatalf("ListByDate() returned %d slots, want 2", len(slots))
		}
		if slots[0].Time != "09:00" || slots[1].Time != "14:00" {
			t.Errorf("slots not ordered by time: %s, %s", slots[0].Time, slots[1].Time)
		}
	})

	t.Run("empty result for unknown date", func(t *testing.T) {
		slots, err := repo.ListByDate(ctx, "2030-01-01")
		if err != nil {
			t.Fatalf("ListByDate() error = %v", err)
		}
		if len(slots) != 0 {
			t.Errorf("ListByDate() returned %d slots, want 0", len(slots))
		}
	})
}

func TestSQLiteRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	sl := testSlot("2026-10-05", "15:00")
	if err := repo.Create(ctx, sl); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("persists booking fields", func(t *testing.T) {
		name, email := "Grace Hopper", "grace@example.com"
		sl.IsBooked = true
		sl.ClientName = &name
		sl.ClientEmail = &email

		if err := repo.Update(ctx, sl); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := repo.GetByID(ctx, sl.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if !got.IsBooked {
			t.Error("slot should be booked after update")
		}
		if got.ClientName == nil || *got.ClientName != name {
			t.Errorf("ClientName = %v, want %q", got.ClientName, name)
		}
	})

	t.Run("returns ErrSlotNotFound for missing id", func(t *testing.T) {
		missing := testSlot("2026-10-06", "15:00")
		missing.ID = 9999
		err := repo.Update(ctx, missing)
		if !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("Update() error = %v, want ErrSlotNotFound", err)
		}
	})
}

func TestSQLiteRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	sl := testSlot("2026-10-07", "08:00")
	if err := repo.Create(ctx, sl); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("deletes existing slot", func(t *testing.T) {
		if err := repo.Delete(ctx, sl.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		_, err := repo.GetByID(ctx, sl.ID)
		if !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("GetByID() after delete error = %v, want ErrSlotNotFound", err)
		}
	})

	t.Run("returns ErrSlotNotFound for missing id", func(t *testing.T) {
		err := repo.Delete(ctx, sl.ID)
		if !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("Delete() error = %v, want ErrSlotNotFound", err)
		}
	})
}

func TestSQLiteRepository_DeleteAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, pair := range [][2]string{
		{"2026-11-01", "09:00"},
		{"2026-11-01", "10:00"},
	} {
		if err := repo.Create(ctx, testSlot(pair[0], pair[1])); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	t.Run("removes everything and reports count", func(t *testing.T) {
		n, err := repo.DeleteAll(ctx)
		if err != nil {
			t.Fatalf("DeleteAll() error = %v", err)
		}
		if n != 2 {
			t.Errorf("DeleteAll() = %d, want 2", n)
		}

		slots, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(slots) != 0 {
			t.Errorf("List() returned %d slots after DeleteAll, want 0", len(slots))
		}
	})

	t.Run("returns zero on empty store", func(t *testing.T) {
		n, err := repo.DeleteAll(ctx)
		if err != nil {
			t.Fatalf("DeleteAll() error = %v", err)
		}
		if n != 0 {
			t.Errorf("DeleteAll() = %d, want 0", n)
		}
	})

	t.Run("ids are not reused after clearing", func(t *testing.T) {
		sl := testSlot("2026-11-02", "09:00")
		if err := repo.Create(ctx, sl); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if sl.ID <= 2 {
			t.Errorf("id %d was reused after DeleteAll", sl.ID)
		}
	})
}
