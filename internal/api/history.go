package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/havenhome/haven-history/internal/history"
)

// handleQuery returns the recorded values for an entity over a time window.
//
// GET /api/history/query/{entityID}?start=<RFC3339>&end=<RFC3339>
//
// Responds with a JSON array of {time, value} points ordered by time.
// An entity with no recorded data in the window yields an empty array.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID := chi.URLParam(r, "entityID")
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	points, err := s.history.Query(ctx, entityID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, history.ErrMalformedEntityID):
			writeBadRequest(w, "malformed entity id")
		case errors.Is(err, history.ErrInvalidTimeRange):
			writeBadRequest(w, "invalid time range")
		case errors.Is(err, history.ErrBackendUnavailable):
			s.logger.Error("history backend unavailable",
				"error", err,
				"entity_id", entityID,
				"request_id", ctx.Value(ctxKeyRequestID),
			)
			writeInternalError(w, "history query failed")
		default:
			s.logger.Error("history query failed",
				"error", err,
				"entity_id", entityID,
				"request_id", ctx.Value(ctxKeyRequestID),
			)
			writeInternalError(w, "history query failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, points)
}
