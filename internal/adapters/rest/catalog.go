package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

type recommendationsRequest struct {
	SeedIDs []string `json:"seed_ids"`
	Limit   int      `json:"limit"`
}

type tracksResponse struct {
	Tracks []domain.Track `json:"tracks"`
}

type discoverRequest struct {
	UserID string `json:"user_id"`
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
}

// SearchTrack handles GET /search?q=
func (h *Handler) SearchTrack(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	track, err := h.svc.SearchTrack(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// Recommendations handles POST /recommendations. It always answers 200: when
// the catalog is unavailable the body carries the fallback list.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must not be negative")
		return
	}

	tracks := h.svc.Recommendations(r.Context(), req.SeedIDs, req.Limit)
	writeJSON(w, http.StatusOK, tracksResponse{Tracks: tracks})
}

// Discover handles POST /discover
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	var req discoverRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must not be negative")
		return
	}

	d, err := h.svc.Discover(r.Context(), strings.TrimSpace(req.UserID), req.Query, req.Limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("X-Recommendation-Count", strconv.Itoa(len(d.Recommendations)))
	writeJSON(w, http.StatusOK, d)
}
