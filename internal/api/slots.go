package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/slotbook/internal/audit"
	"github.com/nerrad567/slotbook/internal/slot"
)

// createSlotRequest is the payload for POST /slots/.
// client_name and client_email are accepted together with is_booked so an
// admin can pre-load a slot that was booked out of band.
type createSlotRequest struct {
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	IsBooked    bool    `json:"is_booked"`
	ClientName  *string `json:"client_name"`
	ClientEmail *string `json:"client_email"`
}

// bookSlotRequest is the payload for POST /book/{id}.
type bookSlotRequest struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
}

func (s *Server) handleCreateSlot(w http.ResponseWriter, r *http.Request) {
	var req createSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	var client *slot.ClientDetails
	if req.ClientName != nil || req.ClientEmail != nil {
		client = &slot.ClientDetails{}
		if req.ClientName != nil {
			client.Name = *req.ClientName
		}
		if req.ClientEmail != nil {
			client.Email = *req.ClientEmail
		}
	}

	created, err := s.slots.CreateSlot(r.Context(), req.Date, req.Time, req.IsBooked, client)
	switch {
	case err == nil:
	case errors.Is(err, slot.ErrMissingDateTime):
		writeBadRequest(w, "date and time are required")
		return
	case errors.Is(err, slot.ErrSlotExists):
		writeConflict(w, "slot already exists for this date and time")
		return
	default:
		s.logger.Error("failed to create slot", "error", err)
		writeInternalError(w, "failed to create slot")
		return
	}

	s.recordAudit(r, audit.ActionSlotCreated, &created.ID, map[string]any{
		"date": created.Date,
		"time": created.Time,
	})

	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := s.slots.ListSlots(r.Context())
	if err != nil {
		s.logger.Error("failed to list slots", "error", err)
		writeInternalError(w, "failed to list slots")
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (s *Server) handleListSlotsByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	slots, err := s.slots.ListSlotsByDate(r.Context(), date)
	if err != nil {
		s.logger.Error("failed to list slots for date", "date", date, "error", err)
		writeInternalError(w, "failed to list slots")
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (s *Server) handleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSlotID(w, r)
	if !ok {
		return
	}

	err := s.slots.DeleteSlot(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, slot.ErrSlotNotFound):
		writeNotFound(w, "slot not found")
		return
	default:
		s.logger.Error("failed to delete slot", "id", id, "error", err)
		writeInternalError(w, "failed to delete slot")
		return
	}

	s.recordAudit(r, audit.ActionSlotDeleted, &id, nil)

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDeleteAllSlots(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.slots.DeleteAllSlots(r.Context())
	if err != nil {
		s.logger.Error("failed to delete all slots", "error", err)
		writeInternalError(w, "failed to delete slots")
		return
	}

	s.recordAudit(r, audit.ActionSlotsCleared, nil, map[string]any{"deleted": deleted})

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": deleted})
}

func (s *Server) handleBookSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSlotID(w, r)
	if !ok {
		return
	}

	var req bookSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	client := slot.ClientDetails{Name: req.ClientName, Email: req.ClientEmail}

	_, err := s.slots.BookSlot(r.Context(), id, client)
	switch {
	case err == nil:
	case errors.Is(err, slot.ErrMissingClient):
		writeBadRequest(w, "client_name and client_email are required")
		return
	case errors.Is(err, slot.ErrSlotNotFound):
		writeNotFound(w, "slot not found")
		return
	case errors.Is(err, slot.ErrSlotBooked):
		writeBadRequest(w, "slot is already booked")
		return
	default:
		s.logger.Error("failed to book slot", "id", id, "error", err)
		writeInternalError(w, "failed to book slot")
		return
	}

	s.recordAudit(r, audit.ActionSlotBooked, &id, map[string]any{
		"client_name":  req.ClientName,
		"client_email": req.ClientEmail,
	})

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "slot booked"})
}

// parseSlotID extracts and validates the {id} URL parameter. On failure it
// writes a 400 response and returns ok=false.
func parseSlotID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeBadRequest(w, "invalid slot id")
		return 0, false
	}
	return id, true
}
