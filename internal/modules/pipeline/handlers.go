package pipeline

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler handles pipeline HTTP requests
type Handler struct {
	service *Service
	repo    *SnapshotRepository
	log     zerolog.Logger
}

// NewHandler creates a new pipeline handler
func NewHandler(service *Service, repo *SnapshotRepository, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		repo:    repo,
		log:     log.With().Str("handler", "pipeline").Logger(),
	}
}

// HandleRun forces a full pipeline recompute and returns the fresh snapshot
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Run()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, snapshot)
}

// HandleLatest returns the most recent persisted snapshot, computing one if
// none exists yet
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.repo.GetLatest()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snapshot == nil {
		fresh, err := h.service.Run()
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		snapshot = fresh
	}

	h.writeJSON(w, http.StatusOK, snapshot)
}

// HandleScenarios returns the 81-entry scenario distribution from the latest
// snapshot
func (h *Handler) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.latestOrFresh()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"current_id": snapshot.Scenarios.CurrentID,
		"scenarios":  snapshot.Scenarios.Scenarios,
	})
}

// HandleThemes returns the per-theme values, states and forecasts
func (h *Handler) HandleThemes(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.latestOrFresh()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"themes": snapshot.Themes,
	})
}

// HandleTarget returns the target allocation with its diagnostics bundle
func (h *Handler) HandleTarget(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.latestOrFresh()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"target":      snapshot.Target,
		"diagnostics": snapshot.Diagnostics,
		"created_at":  snapshot.CreatedAt,
	})
}

func (h *Handler) latestOrFresh() (*Snapshot, error) {
	snapshot, err := h.repo.GetLatest()
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		return snapshot, nil
	}
	return h.service.Run()
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
