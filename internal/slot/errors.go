package slot

import "errors"

var (
	// ErrSlotExists is returned when a slot with the same date and time
	// already exists.
	ErrSlotExists = errors.New("slot already exists for this date and time")

	// ErrSlotNotFound is returned when a slot id does not exist.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotBooked is returned when booking a slot that is already booked.
	ErrSlotBooked = errors.New("slot is already booked")

	// ErrMissingDateTime is returned when a create request omits the date
	// or time field.
	ErrMissingDateTime = errors.New("slot date and time are required")

	// ErrMissingClient is returned when a booking request omits the client
	// name or email. The pair is required together.
	ErrMissingClient = errors.New("client name and email are required")
)
