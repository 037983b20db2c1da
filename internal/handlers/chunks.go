package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sciingest/internal/search"
	"sciingest/internal/service"
	"sciingest/internal/storage"
)

// ChunkHandler handles chunk CRUD and vector search.
type ChunkHandler struct {
	svc service.IngestService
}

// NewChunkHandler creates a new ChunkHandler.
func NewChunkHandler(svc service.IngestService) *ChunkHandler {
	return &ChunkHandler{svc: svc}
}

// ChunkResponse is the HTTP representation of a stored chunk. The
// embedding itself is not returned.
//
// swagger:model ChunkResponse
type ChunkResponse struct {
	ID             string         `json:"id"`
	Text           string         `json:"text"`
	SourceKey      string         `json:"source_key"`
	SourceType     string         `json:"source_type"`
	ChunkIndex     int            `json:"chunk_index"`
	TotalChunks    int            `json:"total_chunks"`
	CharCount      int            `json:"char_count"`
	WordCount      int            `json:"word_count"`
	SentencesCount int            `json:"sentences_count"`
	StartPos       int            `json:"start_pos"`
	EndPos         int            `json:"end_pos"`
	Tags           []string       `json:"tags"`
	Category       string         `json:"category"`
	Metadata       map[string]any `json:"metadata"`
	HasEmbedding   bool           `json:"has_embedding"`
	EmbeddingDims  int            `json:"embedding_dimensions,omitempty"`
	EmbeddingModel string         `json:"embedding_model,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ChunkListResponse is one page of chunks.
//
// swagger:model ChunkListResponse
type ChunkListResponse struct {
	Chunks []ChunkResponse `json:"chunks"`
	Total  int             `json:"total"`
	Skip   int             `json:"skip"`
	Limit  int             `json:"limit"`
}

func toChunkResponse(c *storage.ChunkRecord) ChunkResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	meta := c.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	return ChunkResponse{
		ID:             c.ID,
		Text:           c.Text,
		SourceKey:      c.SourceKey,
		SourceType:     c.SourceType,
		ChunkIndex:     c.ChunkIndex,
		TotalChunks:    c.TotalChunks,
		CharCount:      c.CharCount,
		WordCount:      c.WordCount,
		SentencesCount: c.SentencesCount,
		StartPos:       c.StartPos,
		EndPos:         c.EndPos,
		Tags:           tags,
		Category:       c.Category,
		Metadata:       meta,
		HasEmbedding:   len(c.Embedding) > 0,
		EmbeddingDims:  len(c.Embedding),
		EmbeddingModel: c.EmbeddingModel,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// Create handles POST /api/chunks.
//
// swagger:route POST /api/chunks createChunk
//
// # Create a single chunk
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
//     "$ref": "#/definitions/CreateChunkRequest"
//
// responses:
//
//	'201':
//	  description: Chunk created
//	  schema:
//	    "$ref": "#/definitions/ChunkResponse"
//	'400':
//	  description: Invalid request
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ChunkHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateChunkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rec, err := h.svc.CreateChunk(ctx, req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to create chunk")
		return
	}

	writeJSON(ctx, w, http.StatusCreated, toChunkResponse(rec))
}

// List handles GET /api/chunks?skip=&limit=&source_type=.
//
// swagger:route GET /api/chunks listChunks
//
// # List stored chunks
//
// ---
// produces:
// - application/json
// parameters:
//   - in: query
//     name: skip
//     type: integer
//   - in: query
//     name: limit
//     type: integer
//   - in: query
//     name: source_type
//     type: string
//
// responses:
//
//	'200':
//	  description: One page of chunks
//	  schema:
//	    "$ref": "#/definitions/ChunkListResponse"
//	'400':
//	  description: Invalid query parameters
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ChunkHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := &queryParser{r: r}
	req := service.ListRequest{
		Skip:       q.int("skip", 0),
		Limit:      q.int("limit", 0),
		SourceType: r.URL.Query().Get("source_type"),
	}
	if q.err != nil {
		handleServiceError(w, ctx, q.err, "Invalid query parameters")
		return
	}

	list, err := h.svc.ListChunks(ctx, req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list chunks")
		return
	}

	resp := ChunkListResponse{
		Chunks: make([]ChunkResponse, len(list.Chunks)),
		Total:  list.Total,
		Skip:   list.Skip,
		Limit:  list.Limit,
	}
	for i, c := range list.Chunks {
		resp.Chunks[i] = toChunkResponse(c)
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Get handles GET /api/chunks/{id}.
//
// swagger:route GET /api/chunks/{id} getChunk
//
// # Get a chunk
//
// ---
// produces:
// - application/json
// parameters:
//   - in: path
//     name: id
//     type: string
//     required: true
//
// responses:
//
//	'200':
//	  description: The chunk
//	  schema:
//	    "$ref": "#/definitions/ChunkResponse"
//	'404':
//	  description: Chunk not found
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ChunkHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, err := h.svc.GetChunk(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to get chunk")
		return
	}

	writeJSON(ctx, w, http.StatusOK, toChunkResponse(rec))
}

// Regenerate handles PUT /api/chunks/{id}/regenerate.
//
// swagger:route PUT /api/chunks/{id}/regenerate regenerateChunk
//
// # Regenerate tags, category and embedding of a chunk
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// parameters:
//   - in: path
//     name: id
//     type: string
//     required: true
//   - in: body
//     name: body
//     required: true
//     schema:
//     "$ref": "#/definitions/RegenerateRequest"
//
// responses:
//
//	'200':
//	  description: The updated chunk
//	  schema:
//	    "$ref": "#/definitions/ChunkResponse"
//	'404':
//	  description: Chunk not found
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Embedding or tagging service error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ChunkHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.RegenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rec, err := h.svc.RegenerateChunk(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to regenerate chunk")
		return
	}

	writeJSON(ctx, w, http.StatusOK, toChunkResponse(rec))
}

// Delete handles DELETE /api/chunks/{id}.
//
// swagger:route DELETE /api/chunks/{id} deleteChunk
//
// # Delete a chunk
//
// ---
// produces:
// - application/json
// parameters:
//   - in: path
//     name: id
//     type: string
//     required: true
//
// responses:
//
//	'200':
//	  description: Chunk deleted
//	  schema:
//	    "$ref": "#/definitions/MessageResponse"
//	'404':
//	  description: Chunk not found
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ChunkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.svc.DeleteChunk(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete chunk")
		return
	}

	writeJSON(ctx, w, http.StatusOK, MessageResponse{Message: "Chunk deleted successfully"})
}

// Search handles POST /api/chunks/search.
//
// swagger:route POST /api/chunks/search searchChunks
//
// # Vector search over stored chunks
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
//     "$ref": "#/definitions/SearchRequest"
//
// responses:
//
//	'200':
//	  description: Ranked results
//	  schema:
//	    "$ref": "#/definitions/SearchResponse"
//	'400':
//	  description: Invalid request
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Embedding service error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ChunkHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req search.Request
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.svc.Search(ctx, req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to search chunks")
		return
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
