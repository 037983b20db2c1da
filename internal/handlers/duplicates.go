package handlers

import (
	"net/http"

	"sciingest/internal/service"
)

// DuplicateHandler checks texts against stored chunks.
type DuplicateHandler struct {
	svc       service.IngestService
	threshold float64
}

// NewDuplicateHandler creates a new DuplicateHandler.
func NewDuplicateHandler(svc service.IngestService, defaults Defaults) *DuplicateHandler {
	return &DuplicateHandler{svc: svc, threshold: defaults.threshold()}
}

// DuplicateCheckRequest checks either one text or several. An absent
// threshold selects the configured default.
//
// swagger:model DuplicateCheckRequest
type DuplicateCheckRequest struct {
	Text       string   `json:"text,omitempty"`
	Texts      []string `json:"texts,omitempty"`
	SourceType string   `json:"source_type,omitempty"`
	Threshold  *float64 `json:"threshold,omitempty"`
}

// DuplicateCheckResponse holds one result per checked text.
//
// swagger:model DuplicateCheckResponse
type DuplicateCheckResponse struct {
	Results []service.DuplicateResult `json:"results"`
}

// ServeHTTP handles POST /api/duplicates/check.
//
// swagger:route POST /api/duplicates/check checkDuplicates
//
// # Check texts against stored chunks
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
//     "$ref": "#/definitions/DuplicateCheckRequest"
//
// responses:
//
//	'200':
//	  description: One result per text
//	  schema:
//	    "$ref": "#/definitions/DuplicateCheckResponse"
//	'400':
//	  description: Invalid request
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *DuplicateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DuplicateCheckRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	threshold := h.threshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	if len(req.Texts) > 0 {
		results, err := h.svc.FindDuplicates(ctx, service.DuplicateBatchRequest{
			Texts:      req.Texts,
			SourceType: req.SourceType,
			Threshold:  threshold,
		})
		if err != nil {
			handleServiceError(w, ctx, err, "Failed to check duplicates")
			return
		}
		writeJSON(ctx, w, http.StatusOK, DuplicateCheckResponse{Results: results})
		return
	}

	result, err := h.svc.FindDuplicate(ctx, service.DuplicateRequest{
		Text:       req.Text,
		SourceType: req.SourceType,
		Threshold:  threshold,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to check duplicates")
		return
	}
	writeJSON(ctx, w, http.StatusOK, DuplicateCheckResponse{Results: []service.DuplicateResult{result}})
}
