package indicators

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles indicator HTTP requests
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new indicator handler
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "indicators").Logger(),
	}
}

// indicatorView is an indicator plus its current comparison signal
type indicatorView struct {
	Indicator
	Signal string `json:"signal"`
}

// HandleList returns all indicators with their current signals
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.repo.GetSnapshot()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	comparison := DefaultComparison()
	views := make([]indicatorView, 0, len(snapshot.Indicators))
	for _, ind := range snapshot.Indicators {
		views = append(views, indicatorView{
			Indicator: ind,
			Signal:    comparison.Evaluate(ind).String(),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"indicators": views,
		"count":      len(views),
	})
}

// HandleGet returns a single indicator by key
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	ind, err := h.repo.GetByKey(key)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ind == nil {
		h.writeError(w, http.StatusNotFound, "indicator not found")
		return
	}

	h.writeJSON(w, http.StatusOK, ind)
}

// updateRequest is the body of PUT /api/indicators/{key}
type updateRequest struct {
	Value           *float64 `json:"value"`
	AppendToHistory bool     `json:"append_to_history"`
}

// HandleUpdate updates an indicator's current value
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Value == nil {
		h.writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	if err := h.repo.UpdateValue(key, *req.Value, req.AppendToHistory); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.log.Info().Str("key", key).Float64("value", *req.Value).Msg("Indicator value updated")

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"key":   key,
		"value": *req.Value,
	})
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
