package rebalancing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/macro-trader/internal/modules/pipeline"
)

// Handler handles rebalancing HTTP requests
type Handler struct {
	service  *Service
	pipeline *pipeline.Service
	repo     *pipeline.SnapshotRepository
	log      zerolog.Logger
}

// NewHandler creates a new rebalancing handler
func NewHandler(service *Service, pipelineSvc *pipeline.Service, repo *pipeline.SnapshotRepository, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		pipeline: pipelineSvc,
		repo:     repo,
		log:      log.With().Str("handler", "rebalancing").Logger(),
	}
}

// HandleDrift returns the drift report against the latest target allocation
func (h *Handler) HandleDrift(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.repo.GetLatest()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snapshot == nil {
		snapshot, err = h.pipeline.Run()
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	report, err := h.service.BuildDriftReport(snapshot.Target)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// positionRequest is the body of PUT /api/rebalancing/positions/{symbol}
type positionRequest struct {
	Quantity float64 `json:"quantity"`
	Value    float64 `json:"value"`
}

// HandleUpsertPosition stores a held position
func (h *Handler) HandleUpsertPosition(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p := Position{Symbol: symbol, Quantity: req.Quantity, Value: req.Value}
	if err := h.service.positions.Upsert(p); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, p)
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
