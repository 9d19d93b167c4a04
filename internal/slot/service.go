package slot

import (
	"context"
	"errors"
	"fmt"
)

// Logger defines the logging interface used by the Service.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Notifier receives advisory change events from the Service.
//
// Implementations must be safe for concurrent use and must never block for
// long: the Service calls them from short-lived goroutines after a mutation
// commits, and it neither waits for nor observes the outcome.
type Notifier interface {
	// SlotsChanged signals that the slot collection changed and viewers
	// should re-fetch the list.
	SlotsChanged()

	// SlotBooked signals that a slot was just booked, with display details.
	SlotBooked(n BookingNotice)
}

// noopNotifier is a Notifier that does nothing.
type noopNotifier struct{}

func (noopNotifier) SlotsChanged()         {}
func (noopNotifier) SlotBooked(BookingNotice) {}

// Service implements the slot business rules on top of a Repository.
//
// It holds no slot state between requests; every operation reads the
// authoritative state from the store. All public methods are thread-safe.
type Service struct {
	repo     Repository
	logger   Logger
	notifier Notifier
}

// NewService creates a new slot service.
// Logger and Notifier default to no-ops until set.
func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		logger:   noopLogger{},
		notifier: noopNotifier{},
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// SetNotifier sets the notifier that receives change events.
func (s *Service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// CreateSlot creates a new slot for the given date and time.
//
// Returns ErrMissingDateTime if either field is empty and ErrSlotExists if
// a slot for the pair already exists. The duplicate pre-check gives a clean
// error on the common path; the store's unique index closes the remaining
// race window between check and insert.
//
// isBooked and client allow importing an already-booked slot. The normal
// path creates an open slot and books it later via BookSlot.
func (s *Service) CreateSlot(ctx context.Context, date, timeOfDay string, isBooked bool, client *ClientDetails) (*Slot, error) {
	if date == "" || timeOfDay == "" {
		return nil, ErrMissingDateTime
	}

	_, err := s.repo.GetByDateTime(ctx, date, timeOfDay)
	switch {
	case err == nil:
		return nil, ErrSlotExists
	case !errors.Is(err, ErrSlotNotFound):
		return nil, fmt.Errorf("checking for existing slot: %w", err)
	}

	sl := &Slot{
		Date:     date,
		Time:     timeOfDay,
		IsBooked: isBooked,
	}
	if client != nil {
		name, email := client.Name, client.Email
		sl.ClientName = &name
		sl.ClientEmail = &email
	}

	if err := s.repo.Create(ctx, sl); err != nil {
		return nil, err
	}

	s.logger.Info("slot created", "id", sl.ID, "date", sl.Date, "time", sl.Time)
	s.notifyRefresh()
	return sl, nil
}

// ListSlots returns every slot. Read-only; no notification.
func (s *Service) ListSlots(ctx context.Context) ([]Slot, error) {
	return s.repo.List(ctx)
}

// ListSlotsByDate returns all slots for a date. Read-only; no notification.
func (s *Service) ListSlotsByDate(ctx context.Context, date string) ([]Slot, error) {
	return s.repo.ListByDate(ctx, date)
}

// GetSlot returns a single slot by id.
// Returns ErrSlotNotFound if the slot does not exist.
func (s *Service) GetSlot(ctx context.Context, id int64) (*Slot, error) {
	return s.repo.GetByID(ctx, id)
}

// DeleteSlot removes a slot by id.
// Returns ErrSlotNotFound if the slot does not exist.
func (s *Service) DeleteSlot(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("slot deleted", "id", id)
	s.notifyRefresh()
	return nil
}

// DeleteAllSlots removes every slot and returns the count deleted.
// A refresh notification is sent even when the store was already empty, so
// viewers converge on the same (empty) state.
func (s *Service) DeleteAllSlots(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Info("all slots deleted", "count", n)
	s.notifyRefresh()
	return n, nil
}

// BookSlot transitions an open slot to booked, recording the client details.
//
// Returns ErrMissingClient if name or email is empty, ErrSlotNotFound if the
// id is absent, and ErrSlotBooked if the slot was already booked. There is
// no reverse transition; a booked slot stays booked until deleted.
func (s *Service) BookSlot(ctx context.Context, id int64, client ClientDetails) (*Slot, error) {
	if client.Name == "" || client.Email == "" {
		return nil, ErrMissingClient
	}

	sl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sl.IsBooked {
		return nil, ErrSlotBooked
	}

	name, email := client.Name, client.Email
	sl.IsBooked = true
	sl.ClientName = &name
	sl.ClientEmail = &email

	if err := s.repo.Update(ctx, sl); err != nil {
		return nil, err
	}

	s.logger.Info("slot booked", "id", sl.ID, "date", sl.Date, "time", sl.Time)
	s.notifyBooked(BookingNotice{
		Date:        sl.Date,
		Time:        sl.Time,
		ClientName:  client.Name,
		ClientEmail: client.Email,
	})
	return sl, nil
}

// notifyRefresh dispatches a refresh event without blocking the caller.
// Delivery failures are the notifier's concern; the operation that
// triggered the event has already committed.
func (s *Service) notifyRefresh() {
	n := s.notifier
	go n.SlotsChanged()
}

// notifyBooked dispatches a booking event without blocking the caller.
func (s *Service) notifyBooked(notice BookingNotice) {
	n := s.notifier
	go n.SlotBooked(notice)
}
