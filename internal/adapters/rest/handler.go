package rest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ewilliams-labs/aidj/backend/internal/core/services"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Orchestrator // Dependency on the Core Service
	router *http.ServeMux         // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Orchestrator) *Handler {
	h := &Handler{
		svc:    svc,
		router: http.NewServeMux(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// Every request is tagged with a request ID and logged on the way out.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withRequestLog(h.router).ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.Handle("GET /metrics", promhttp.Handler())

	// Catalog
	h.router.HandleFunc("GET /search", h.SearchTrack)
	h.router.HandleFunc("POST /recommendations", h.Recommendations)
	h.router.HandleFunc("POST /discover", h.Discover)

	// Recommender
	h.router.HandleFunc("POST /select", h.Select)
	h.router.HandleFunc("POST /feedback", h.RecordFeedback)
	h.router.HandleFunc("GET /users/{id}/profile", h.GetProfile)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "aidj is live"})
}
