package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sciingest/internal/contextutil"
	"sciingest/internal/service"
	"sciingest/internal/source"
)

// DocumentHandler handles text document ingestion and document deletion.
type DocumentHandler struct {
	svc      service.IngestService
	defaults Defaults
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(svc service.IngestService, defaults Defaults) *DocumentHandler {
	return &DocumentHandler{svc: svc, defaults: defaults}
}

// TextRequest is the body of POST /api/documents/text.
//
// swagger:model TextRequest
type TextRequest struct {
	Documents []source.TextDocument `json:"documents"`
}

// DeleteDocumentResponse reports a document deletion.
//
// swagger:model DeleteDocumentResponse
type DeleteDocumentResponse struct {
	SourceKey     string `json:"source_key"`
	ChunksDeleted int    `json:"chunks_deleted"`
}

// ProcessText handles POST /api/documents/text. It accepts the same
// query parameters as article processing.
//
// swagger:route POST /api/documents/text processText
//
// # Process extracted PDF or plain text documents
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// parameters:
//   - in: body
//     name: body
//     required: true
//     schema:
//     "$ref": "#/definitions/TextRequest"
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
//	'200':
//	  description: Batch ingestion result
//	  schema:
//	    "$ref": "#/definitions/IngestBatchResult"
//	'400':
//	  description: Invalid parameters or body
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Embedding or tagging service error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *DocumentHandler) ProcessText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	opts, err := ingestOptions(r, h.defaults)
	if err != nil {
		handleServiceError(w, ctx, err, "Invalid query parameters")
		return
	}

	var req TextRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	logger.InfoContext(ctx, "processing text documents", "count", len(req.Documents), "dry_run", opts.DryRun)
	result, err := h.svc.ProcessText(ctx, req.Documents, opts)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process documents")
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

// Delete handles DELETE /api/documents/{sourceKey}.
//
// swagger:route DELETE /api/documents/{sourceKey} deleteDocument
//
// # Delete every chunk of a document
//
// ---
// produces:
// - application/json
// parameters:
//   - in: path
//     name: sourceKey
//     type: string
//     required: true
//
// responses:
//
//	'200':
//	  description: Document deleted
//	  schema:
//	    "$ref": "#/definitions/DeleteDocumentResponse"
//	'404':
//	  description: Document not found
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "sourceKey")

	n, err := h.svc.DeleteDocument(ctx, key)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to delete document")
		return
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "document deleted", "source_key", key, "chunks", n)
	writeJSON(ctx, w, http.StatusOK, DeleteDocumentResponse{SourceKey: key, ChunksDeleted: n})
}
