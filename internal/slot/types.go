package slot

import "time"

// Slot represents a bookable appointment slot.
//
// Date and time are stored as opaque strings (YYYY-MM-DD and HH:MM by
// convention); the service checks presence only and attaches no calendar
// semantics. ClientName and ClientEmail are populated together when the
// slot is booked and are absent otherwise.
type Slot struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	IsBooked    bool      `json:"is_booked"`
	ClientName  *string   `json:"client_name,omitempty"`
	ClientEmail *string   `json:"client_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClientDetails identifies the person booking a slot.
// Name and email travel as a pair so a booked slot always carries both.
type ClientDetails struct {
	Name  string `json:"client_name"`
	Email string `json:"client_email"`
}

// BookingNotice is the informational payload broadcast when a slot is
// booked. It carries the human-relevant fields rather than the raw id;
// viewers refresh authoritative state from the list endpoint.
type BookingNotice struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
}
