package allocation

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler handles allocation HTTP requests
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new allocation handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "allocation").Logger(),
	}
}

// HandleUniverse returns the fixed security universe with the baseline allocation
func (h *Handler) HandleUniverse(w http.ResponseWriter, r *http.Request) {
	baseline := BaselineAllocation()

	type entry struct {
		Security
		BaselineWeight float64 `json:"baseline_weight"`
	}

	securities := Universe()
	entries := make([]entry, 0, len(securities))
	for _, sec := range securities {
		entries = append(entries, entry{Security: sec, BaselineWeight: baseline[sec.Symbol]})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"securities": entries,
		"count":      len(entries),
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
