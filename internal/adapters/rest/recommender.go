package rest

import (
	"net/http"
	"strings"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

type selectRequest struct {
	UserID     string         `json:"user_id"`
	Candidates []domain.Track `json:"candidates"`
}

type selectResponse struct {
	Track *domain.Track `json:"track"`
}

type feedbackRequest struct {
	UserID   string          `json:"user_id"`
	TrackID  string          `json:"track_id"`
	Feedback string          `json:"feedback"`
	Features domain.Features `json:"features,omitempty"`
}

// Select handles POST /select. An empty candidate list yields {"track": null}.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeErrorWithCode(w, http.StatusBadRequest, "user_id is required", errCodeInvalidArgument)
		return
	}

	var resp selectResponse
	if track, ok := h.svc.Select(r.Context(), req.UserID, req.Candidates); ok {
		resp.Track = &track
	}
	writeJSON(w, http.StatusOK, resp)
}

// RecordFeedback handles POST /feedback
func (h *Handler) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.RecordFeedback(r.Context(), req.UserID, req.TrackID, req.Features, req.Feedback); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProfile handles GET /users/{id}/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
