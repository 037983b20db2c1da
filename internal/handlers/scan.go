package handlers

import (
	"context"
	"net/http"
	"sync/atomic"

	"sciingest/internal/contextutil"
	"sciingest/internal/service"
)

// DirIngester ingests every file of a directory.
type DirIngester interface {
	IngestDir(ctx context.Context, dir string, opts service.IngestOptions) (service.DirResult, error)
}

// ScanHandler handles HTTP requests for scanning the ingest directory.
type ScanHandler struct {
	ingester DirIngester
	dir      string
	defaults Defaults
	running  atomic.Bool
}

// NewScanHandler creates a new ScanHandler for dir.
func NewScanHandler(ingester DirIngester, dir string, defaults Defaults) *ScanHandler {
	return &ScanHandler{
		ingester: ingester,
		dir:      dir,
		defaults: defaults,
	}
}

// ScanResponse represents the response from the scan endpoint.
//
// swagger:model ScanResponse
type ScanResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Dir     string `json:"dir"`
}

// ServeHTTP handles POST /api/ingest/scan. It accepts the batch ingestion
// query parameters and returns 202 while the scan runs in the background.
// Only one scan runs at a time.
//
// swagger:route POST /api/ingest/scan scanIngestDir
//
// # Ingest every file of the ingest directory
//
// ---
// produces:
// - application/json
// parameters:
//   - in: query
//     name: generate_embeddings
//     type: boolean
//   - in: query
//     name: generate_tags
//     type: boolean
//   - in: query
//     name: max_tags
//     type: integer
//   - in: query
//     name: chunk_size
//     type: integer
//   - in: query
//     name: chunk_overlap
//     type: integer
//   - in: query
//     name: dry_run
//     type: boolean
//   - in: query
//     name: check_duplicates
//     type: boolean
//   - in: query
//     name: similarity_threshold
//     type: number
//
// responses:
//
//	'202':
//	  description: Scan started
//	  schema:
//	    "$ref": "#/definitions/ScanResponse"
//	'400':
//	  description: Invalid query parameters
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'409':
//	  description: A scan is already running
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ScanHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	opts, err := ingestOptions(r, h.defaults)
	if err != nil {
		handleServiceError(w, ctx, err, "Invalid query parameters")
		return
	}
	if err := opts.Validate(); err != nil {
		handleServiceError(w, ctx, err, "Invalid query parameters")
		return
	}

	if !h.running.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "A scan is already running")
		return
	}

	logger.InfoContext(ctx, "ingest scan triggered via API", "dir", h.dir)

	// The scan outlives the request, so it gets its own context.
	go func() {
		defer h.running.Store(false)
		scanCtx := contextutil.WithLogger(context.Background(), logger)
		res, err := h.ingester.IngestDir(scanCtx, h.dir, opts)
		if err != nil {
			logger.ErrorContext(scanCtx, "ingest scan failed", "error", err)
			return
		}
		logger.InfoContext(scanCtx, "ingest scan completed",
			"files", res.Files,
			"failed_files", len(res.FailedFiles),
			"documents", res.TotalDocuments,
			"chunks", res.TotalChunksCreated,
			"duplicates", res.DuplicatesSkipped,
		)
	}()

	writeJSON(ctx, w, http.StatusAccepted, ScanResponse{
		Message: "Scan started. Check server logs for progress.",
		Status:  "accepted",
		Dir:     h.dir,
	})
}
