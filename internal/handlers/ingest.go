package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"legisync/internal/contextutil"
)

// IngestHandler handles HTTP requests for triggering an ingestion run.
type IngestHandler struct {
	ingester Ingester
	dir      string
	running  atomic.Bool
}

// NewIngestHandler creates a new IngestHandler that ingests archives from dir.
func NewIngestHandler(ingester Ingester, dir string) *IngestHandler {
	return &IngestHandler{ingester: ingester, dir: dir}
}

// IngestResponse represents the response from the ingest endpoint.
type IngestResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP handles POST /api/ingest. The run happens in the background;
// a second request while one is in progress is rejected.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if h.dir == "" {
		writeError(w, http.StatusServiceUnavailable, "No archive directory configured")
		return
	}
	if !h.running.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "Ingestion already running")
		return
	}

	logger.InfoContext(ctx, "ingestion triggered via API", "dir", h.dir)

	// Detached from the request so the run outlives the response.
	runCtx := contextutil.WithLogger(context.Background(), logger)
	go func() {
		defer h.running.Store(false)
		if _, err := h.ingester.Run(runCtx, h.dir); err != nil {
			logger.ErrorContext(runCtx, "ingestion failed", "error", err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(IngestResponse{
		Message: "Ingestion started. Check /api/status for progress.",
		Status:  "accepted",
	})
}
