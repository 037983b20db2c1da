package handlers

import (
	"net/http"

	"sciingest/internal/contextutil"
	"sciingest/internal/service"
	"sciingest/internal/source"
)

// ArticleHandler handles article batch ingestion and article stats.
type ArticleHandler struct {
	svc      service.IngestService
	defaults Defaults
}

// NewArticleHandler creates a new ArticleHandler. defaults fill the
// parameters a request omits.
func NewArticleHandler(svc service.IngestService, defaults Defaults) *ArticleHandler {
	return &ArticleHandler{svc: svc, defaults: defaults}
}

// Process handles POST /api/articles/process.
//
// The body is a JSON array of articles. Query parameters:
// generate_embeddings, generate_tags, max_tags, chunk_size, chunk_overlap,
// dry_run, check_duplicates, similarity_threshold.
//
// swagger:route POST /api/articles/process processArticles
//
// # Process a batch of articles
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
//       type: array
//       items:
//         "$ref": "#/definitions/Article"
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
func (h *ArticleHandler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	opts, err := ingestOptions(r, h.defaults)
	if err != nil {
		handleServiceError(w, ctx, err, "Invalid query parameters")
		return
	}

	articles, err := source.DecodeArticles(r.Body)
	if err != nil {
		logger.WarnContext(ctx, "invalid article payload", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	logger.InfoContext(ctx, "processing articles", "count", len(articles), "dry_run", opts.DryRun)
	result, err := h.svc.ProcessArticles(ctx, articles, opts)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process articles")
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

// Stats handles GET /api/articles/stats.
//
// swagger:route GET /api/articles/stats articleStats
//
// # Statistics of stored article chunks
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Chunk statistics
//	  schema:
//	    "$ref": "#/definitions/SourceStats"
//	'500':
//	  description: Failed to compute stats
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ArticleHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.svc.Stats(ctx, source.TypeArticle)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to compute stats")
		return
	}

	writeJSON(ctx, w, http.StatusOK, stats)
}
