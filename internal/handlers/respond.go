package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"sciingest/internal/contextutil"
	"sciingest/internal/dedup"
	"sciingest/internal/service"
)

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges an operation that returns no resource.
//
// swagger:model MessageResponse
type MessageResponse struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// writeJSON encodes v with the given status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		ctx := r.Context()
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, service.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	if errors.Is(err, service.ErrExternalService) {
		writeError(w, http.StatusBadGateway, "External service error")
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
}

// queryParser reads typed query parameters, keeping the first parse error.
type queryParser struct {
	r   *http.Request
	err error
}

func (q *queryParser) bool(name string, def bool) bool {
	raw := q.r.URL.Query().Get(name)
	if raw == "" || q.err != nil {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.err = &service.ValidationError{Field: name, Message: "must be a boolean"}
		return def
	}
	return v
}

func (q *queryParser) int(name string, def int) int {
	raw := q.r.URL.Query().Get(name)
	if raw == "" || q.err != nil {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.err = &service.ValidationError{Field: name, Message: "must be an integer"}
		return def
	}
	return v
}

func (q *queryParser) float(name string, def float64) float64 {
	raw := q.r.URL.Query().Get(name)
	if raw == "" || q.err != nil {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.err = &service.ValidationError{Field: name, Message: "must be a number"}
		return def
	}
	return v
}

// Defaults are the configured values for parameters a request omits.
type Defaults struct {
	DryRun bool
	// Threshold is the duplicate similarity threshold; zero selects
	// dedup.DefaultThreshold.
	Threshold float64
}

func (d Defaults) threshold() float64 {
	if d.Threshold == 0 {
		return dedup.DefaultThreshold
	}
	return d.Threshold
}

// ingestOptions reads the batch ingestion query parameters on top of
// the defaults.
func ingestOptions(r *http.Request, d Defaults) (service.IngestOptions, error) {
	def := service.DefaultIngestOptions()
	q := &queryParser{r: r}
	opts := service.IngestOptions{
		GenerateEmbeddings:  q.bool("generate_embeddings", def.GenerateEmbeddings),
		GenerateTags:        q.bool("generate_tags", def.GenerateTags),
		MaxTags:             q.int("max_tags", def.MaxTags),
		ChunkSize:           q.int("chunk_size", 0),
		ChunkOverlap:        q.int("chunk_overlap", 0),
		DryRun:              q.bool("dry_run", d.DryRun),
		CheckDuplicates:     q.bool("check_duplicates", def.CheckDuplicates),
		SimilarityThreshold: q.float("similarity_threshold", d.threshold()),
	}
	return opts, q.err
}
