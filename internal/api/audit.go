package api

import (
	"net/http"
	"strconv"

	"github.com/nerrad567/slotbook/internal/audit"
)

// recordAudit writes an audit entry for a completed mutation.
//
// Best-effort: when no trail is configured the call is a no-op, and a
// failed write is logged but never surfaced to the client - the mutation
// it describes has already committed.
func (s *Server) recordAudit(r *http.Request, action string, slotID *int64, details map[string]any) {
	if s.audit == nil {
		return
	}

	entry := &audit.Entry{
		Action:  action,
		SlotID:  slotID,
		Details: details,
	}
	if err := s.audit.Record(r.Context(), entry); err != nil {
		s.logger.Warn("failed to record audit entry", "action", action, "error", err)
	}
}

// handleAudit returns the audit trail, most recent first.
//
// Query parameters: action (filter by action name), slot_id, limit, offset.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeNotFound(w, "audit trail not enabled")
		return
	}

	filter := audit.Filter{
		Action: r.URL.Query().Get("action"),
	}
	if v := r.URL.Query().Get("slot_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeBadRequest(w, "invalid slot_id")
			return
		}
		filter.SlotID = id
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list audit entries", "error", err)
		writeInternalError(w, "failed to list audit entries")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
