package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sciingest/internal/search"
	"sciingest/internal/service"
	"sciingest/internal/service/mocks"
	"sciingest/internal/storage"

	"go.uber.org/mock/gomock"
)

func testChunk() *storage.ChunkRecord {
	return &storage.ChunkRecord{
		ID:             "c1",
		SourceKey:      "mars-habitat",
		SourceType:     "article",
		Text:           "Crew lived inside the habitat.",
		TotalChunks:    1,
		CharCount:      30,
		Tags:           []string{"mars"},
		Category:       "planets",
		Embedding:      []float32{0.1, 0.2, 0.3},
		EmbeddingModel: "test-model",
		CreatedAt:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestChunkHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockIngestService(ctrl)
	svc.EXPECT().
		CreateChunk(gomock.Any(), service.CreateChunkRequest{Text: "Crew lived inside the habitat.", Source: "Mars Habitat", GenerateEmbedding: true}).
		Return(testChunk(), nil)

	handler := NewChunkHandler(svc)
	body := `{"text":"Crew lived inside the habitat.","source":"Mars Habitat","generate_embedding":true}`
	w := httptest.NewRecorder()
	handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/chunks", bytes.NewBufferString(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	var resp ChunkResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "c1" || !resp.HasEmbedding || resp.EmbeddingDims != 3 || resp.EmbeddingModel != "test-model" {
		t.Errorf("response = %+v", resp)
	}
}

func TestChunkHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name       string
		query      string
		mockSetup  func(*mocks.MockIngestService)
		wantStatus int
		wantCount  int
	}{
		{
			name:  "defaults",
			query: "",
			mockSetup: func(m *mocks.MockIngestService) {
				m.EXPECT().
					ListChunks(gomock.Any(), service.ListRequest{}).
					Return(service.ChunkList{Chunks: []*storage.ChunkRecord{testChunk()}, Total: 1, Limit: service.DefaultLimit}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name:  "paging and filter",
			query: "?skip=10&limit=5&source_type=pdf",
			mockSetup: func(m *mocks.MockIngestService) {
				m.EXPECT().
					ListChunks(gomock.Any(), service.ListRequest{Skip: 10, Limit: 5, SourceType: "pdf"}).
					Return(service.ChunkList{Chunks: []*storage.ChunkRecord{}, Total: 12, Skip: 10, Limit: 5}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
		{
			name:  "limit out of range",
			query: "?limit=500",
			mockSetup: func(m *mocks.MockIngestService) {
				m.EXPECT().
					ListChunks(gomock.Any(), gomock.Any()).
					Return(service.ChunkList{}, &service.ValidationError{Field: "limit", Message: "must be between 1 and 100"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-numeric skip",
			query:      "?skip=x",
			mockSetup:  func(m *mocks.MockIngestService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockIngestService(ctrl)
			tt.mockSetup(svc)
			handler := NewChunkHandler(svc)

			w := httptest.NewRecorder()
			handler.List(w, httptest.NewRequest(http.MethodGet, "/api/chunks"+tt.query, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp ChunkListResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Chunks) != tt.wantCount {
				t.Errorf("len(Chunks) = %d, want %d", len(resp.Chunks), tt.wantCount)
			}
		})
	}
}

func TestChunkHandler_GetAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockIngestService(ctrl)
	handler := NewChunkHandler(svc)

	svc.EXPECT().GetChunk(gomock.Any(), "c1").Return(testChunk(), nil)
	w := httptest.NewRecorder()
	handler.Get(w, withURLParam(httptest.NewRequest(http.MethodGet, "/api/chunks/c1", nil), "id", "c1"))
	if w.Code != http.StatusOK {
		t.Errorf("Get status = %d, want 200", w.Code)
	}

	svc.EXPECT().GetChunk(gomock.Any(), "missing").Return(nil, fmt.Errorf("failed to get chunk: %w", service.ErrNotFound))
	w = httptest.NewRecorder()
	handler.Get(w, withURLParam(httptest.NewRequest(http.MethodGet, "/api/chunks/missing", nil), "id", "missing"))
	if w.Code != http.StatusNotFound {
		t.Errorf("Get(missing) status = %d, want 404", w.Code)
	}

	svc.EXPECT().DeleteChunk(gomock.Any(), "c1").Return(nil)
	w = httptest.NewRecorder()
	handler.Delete(w, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/chunks/c1", nil), "id", "c1"))
	if w.Code != http.StatusOK {
		t.Errorf("Delete status = %d, want 200", w.Code)
	}

	svc.EXPECT().DeleteChunk(gomock.Any(), "c1").Return(fmt.Errorf("failed to delete chunk: %w", service.ErrNotFound))
	w = httptest.NewRecorder()
	handler.Delete(w, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/chunks/c1", nil), "id", "c1"))
	if w.Code != http.StatusNotFound {
		t.Errorf("Delete(missing) status = %d, want 404", w.Code)
	}
}

func TestChunkHandler_Regenerate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name       string
		body       string
		mockSetup  func(*mocks.MockIngestService)
		wantStatus int
	}{
		{
			name: "tags and embedding",
			body: `{"regenerate_tags":true,"regenerate_embedding":true,"max_tags":5}`,
			mockSetup: func(m *mocks.MockIngestService) {
				m.EXPECT().
					RegenerateChunk(gomock.Any(), "c1", service.RegenerateRequest{Tags: true, Embedding: true, MaxTags: 5}).
					Return(testChunk(), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "provider failure",
			body: `{"regenerate_embedding":true}`,
			mockSetup: func(m *mocks.MockIngestService) {
				m.EXPECT().
					RegenerateChunk(gomock.Any(), "c1", gomock.Any()).
					Return(nil, fmt.Errorf("%w: embedding failed", service.ErrExternalService))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "invalid body",
			body:       `{`,
			mockSetup:  func(m *mocks.MockIngestService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockIngestService(ctrl)
			tt.mockSetup(svc)
			handler := NewChunkHandler(svc)

			req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/chunks/c1/regenerate", bytes.NewBufferString(tt.body)), "id", "c1")
			w := httptest.NewRecorder()
			handler.Regenerate(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestChunkHandler_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockIngestService(ctrl)
	svc.EXPECT().
		Search(gomock.Any(), search.Request{Query: "habitat", Limit: 5, MinScore: 0.5, Filters: map[string]string{"source_type": "article"}}).
		Return(search.Response{
			Query:   "habitat",
			Results: []search.Result{{ChunkID: "c1", Score: 1.2}},
			Count:   1,
		}, nil)
	svc.EXPECT().
		Search(gomock.Any(), search.Request{Query: ""}).
		Return(search.Response{}, &service.ValidationError{Field: "query", Message: "cannot be empty"})

	handler := NewChunkHandler(svc)

	body := `{"query":"habitat","limit":5,"min_score":0.5,"filters":{"source_type":"article"}}`
	w := httptest.NewRecorder()
	handler.Search(w, httptest.NewRequest(http.MethodPost, "/api/chunks/search", bytes.NewBufferString(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp search.Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 || resp.Results[0].ChunkID != "c1" {
		t.Errorf("response = %+v", resp)
	}

	w = httptest.NewRecorder()
	handler.Search(w, httptest.NewRequest(http.MethodPost, "/api/chunks/search", bytes.NewBufferString(`{"query":""}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty query status = %d, want 400", w.Code)
	}
}
