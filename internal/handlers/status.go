package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"legisync/internal/contextutil"
	"legisync/internal/ingest"
	"legisync/internal/storage"
)

// StatusHandler reports the watermark, table sizes and the last run.
type StatusHandler struct {
	store    StatusStore
	ingester Ingester
}

// NewStatusHandler creates a new StatusHandler. ingester may be nil when no
// pipeline runs in this process.
func NewStatusHandler(store StatusStore, ingester Ingester) *StatusHandler {
	return &StatusHandler{store: store, ingester: ingester}
}

// StatusResponse represents the response from the status endpoint.
type StatusResponse struct {
	// Watermark is empty until a full snapshot has been applied.
	Watermark string            `json:"watermark"`
	Counts    map[string]int    `json:"counts"`
	LastRun   *ingest.RunReport `json:"last_run,omitempty"`
}

// ServeHTTP handles GET /api/status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	watermark, err := h.store.Watermark(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.ErrorContext(ctx, "failed to read watermark", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read watermark")
		return
	}

	counts, err := h.store.Counts(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to count rows", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to count rows")
		return
	}

	response := StatusResponse{Watermark: watermark, Counts: counts}
	if h.ingester != nil {
		response.LastRun = h.ingester.LastReport()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode status response", "error", err)
	}
}
