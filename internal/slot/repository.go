package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Repository defines the interface for slot persistence operations.
type Repository interface {
	Create(ctx context.Context, s *Slot) error
	GetByID(ctx context.Context, id int64) (*Slot, error)
	GetByDateTime(ctx context.Context, date, timeOfDay string) (*Slot, error)
	List(ctx context.Context) ([]Slot, error)
	ListByDate(ctx context.Context, date string) ([]Slot, error)
	Update(ctx context.Context, s *Slot) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed slot repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// slotColumns is the column list shared by every SELECT in this file.
const slotColumns = `id, date, time, is_booked, client_name, client_email, created_at, updated_at`

// Create inserts a new slot and populates its id and timestamps.
//
// The slots table carries a UNIQUE (date, time) index, so two concurrent
// creates for the same pair cannot both succeed; the loser gets
// ErrSlotExists mapped from the constraint violation.
func (r *SQLiteRepository) Create(ctx context.Context, s *Slot) error {
	const query = `INSERT INTO slots (date, time, is_booked, client_name, client_email)
		VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		s.Date, s.Time, boolToInt(s.IsBooked), nullStr(s.ClientName), nullStr(s.ClientEmail))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotExists
		}
		return fmt.Errorf("inserting slot %s %s: %w", s.Date, s.Time, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted slot id: %w", err)
	}

	// Reload to pick up the schema-assigned timestamps.
	created, err := r.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("reloading slot %d: %w", id, err)
	}
	*s = *created
	return nil
}

// GetByID returns a single slot by id.
// Returns ErrSlotNotFound if the slot does not exist.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Slot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE id = ?`, id)
	return scanSlot(row)
}

// GetByDateTime returns the slot for an exact (date, time) pair.
// Returns ErrSlotNotFound if no such slot exists.
func (r *SQLiteRepository) GetByDateTime(ctx context.Context, date, timeOfDay string) (*Slot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE date = ? AND time = ?`, date, timeOfDay)
	return scanSlot(row)
}

// List returns every slot ordered by date then time.
func (r *SQLiteRepository) List(ctx context.Context) ([]Slot, error) {
	return r.querySlots(ctx, `SELECT `+slotColumns+` FROM slots ORDER BY date, time`)
}

// ListByDate returns all slots for a specific date ordered by time.
func (r *SQLiteRepository) ListByDate(ctx context.Context, date string) ([]Slot, error) {
	return r.querySlots(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE date = ? ORDER BY time`, date)
}

// Update overwrites the mutable fields of an existing slot.
// Returns ErrSlotNotFound if the slot does not exist.
func (r *SQLiteRepository) Update(ctx context.Context, s *Slot) error {
	const query = `UPDATE slots SET is_booked = ?, client_name = ?, client_email = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		boolToInt(s.IsBooked), nullStr(s.ClientName), nullStr(s.ClientEmail), s.ID)
	if err != nil {
		return fmt.Errorf("updating slot %d: %w", s.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// Delete removes a single slot by id.
// Returns ErrSlotNotFound if the slot does not exist.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM slots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting slot %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// DeleteAll removes every slot and returns the number of rows deleted.
// AUTOINCREMENT sequencing is preserved, so deleted ids are never reused.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM slots")
	if err != nil {
		return 0, fmt.Errorf("deleting all slots: %w", err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	return n, nil
}

// querySlots executes a query and returns a slice of Slot.
func (r *SQLiteRepository) querySlots(ctx context.Context, query string, args ...any) ([]Slot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		s, err := scanSlotRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning slot row: %w", err)
		}
		slots = append(slots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slot rows: %w", err)
	}
	return slots, nil
}

// scanSlot scans a single row into a Slot (for QueryRow).
func scanSlot(row *sql.Row) (*Slot, error) {
	var s Slot
	var isBooked int
	var clientName, clientEmail sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&s.ID, &s.Date, &s.Time, &isBooked,
		&clientName, &clientEmail, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("scanning slot: %w", err)
	}

	fillSlot(&s, isBooked, clientName, clientEmail, createdAt, updatedAt)
	return &s, nil
}

// scanSlotRow scans a slot from a Rows cursor.
func scanSlotRow(rows *sql.Rows) (*Slot, error) {
	var s Slot
	var isBooked int
	var clientName, clientEmail sql.NullString
	var createdAt, updatedAt string

	err := rows.Scan(&s.ID, &s.Date, &s.Time, &isBooked,
		&clientName, &clientEmail, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning slot row: %w", err)
	}

	fillSlot(&s, isBooked, clientName, clientEmail, createdAt, updatedAt)
	return &s, nil
}

// fillSlot converts scanned column values into Slot fields.
func fillSlot(s *Slot, isBooked int, clientName, clientEmail sql.NullString, createdAt, updatedAt string) {
	s.IsBooked = isBooked != 0
	if clientName.Valid {
		s.ClientName = &clientName.String
	}
	if clientEmail.Valid {
		s.ClientEmail = &clientEmail.String
	}
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// nullStr converts a *string to a sql.NullString for nullable columns.
func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// boolToInt converts a bool to the 0/1 representation used by the schema.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseTime parses an ISO 8601 timestamp from SQLite.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// SQLite default format without timezone offset.
		t, err = time.Parse("2006-01-02T15:04:05Z", s)
		if err != nil {
			return time.Time{}
		}
	}
	return t
}
