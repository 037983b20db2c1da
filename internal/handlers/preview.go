package handlers

import (
	"net/http"

	"sciingest/internal/service"
)

// PreviewHandler chunks text without storing it.
type PreviewHandler struct {
	svc service.IngestService
}

// NewPreviewHandler creates a new PreviewHandler.
func NewPreviewHandler(svc service.IngestService) *PreviewHandler {
	return &PreviewHandler{svc: svc}
}

// ServeHTTP handles POST /api/chunk-preview.
//
// swagger:route POST /api/chunk-preview previewChunks
//
// # Preview chunking of a text
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
//     "$ref": "#/definitions/PreviewRequest"
//
// responses:
//
//	'200':
//	  description: Chunks that would be stored
//	  schema:
//	    "$ref": "#/definitions/PreviewResult"
//	'400':
//	  description: Invalid request
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.PreviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.Chunk(ctx, req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to chunk text")
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}
