package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_deps.go -package=mocks legisync/internal/handlers Pinger,StatusStore,Ingester

import (
	"context"
	"encoding/json"
	"net/http"

	"legisync/internal/ingest"
)

// Pinger checks that the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusStore reads the ingestion state of the database.
type StatusStore interface {
	// Watermark returns the date of the last applied archive, or
	// storage.ErrNotFound before the first snapshot.
	Watermark(ctx context.Context) (string, error)
	// Counts returns the number of rows of every table.
	Counts(ctx context.Context) (map[string]int, error)
}

// Ingester runs the archive pipeline.
type Ingester interface {
	Run(ctx context.Context, dir string) (*ingest.RunReport, error)
	LastReport() *ingest.RunReport
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
