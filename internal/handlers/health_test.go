package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeCollections struct {
	exists bool
	err    error
}

func (f fakeCollections) CollectionExists(context.Context, string) (bool, error) {
	return f.exists, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		vectors    fakeCollections
		db         fakePinger
		wantStatus int
		wantState  string
		wantIssues []string
	}{
		{
			name:       "healthy",
			method:     http.MethodGet,
			vectors:    fakeCollections{exists: true},
			wantStatus: http.StatusOK,
			wantState:  "healthy",
		},
		{
			name:       "collection missing",
			method:     http.MethodGet,
			vectors:    fakeCollections{exists: false},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
			wantIssues: []string{"vector_store_unavailable"},
		},
		{
			name:       "both down",
			method:     http.MethodGet,
			vectors:    fakeCollections{err: errors.New("connection refused")},
			db:         fakePinger{err: errors.New("database is locked")},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
			wantIssues: []string{"vector_store_unavailable", "database_unavailable"},
		},
		{
			name:       "method not allowed",
			method:     http.MethodPost,
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.vectors, tt.db, "chunks")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantState == "" {
				return
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("Status = %q, want %q", resp.Status, tt.wantState)
			}
			if len(resp.Issues) != len(tt.wantIssues) {
				t.Fatalf("Issues = %v, want %v", resp.Issues, tt.wantIssues)
			}
			for i := range tt.wantIssues {
				if resp.Issues[i] != tt.wantIssues[i] {
					t.Errorf("Issues[%d] = %q, want %q", i, resp.Issues[i], tt.wantIssues[i])
				}
			}
			if resp.Timestamp == "" {
				t.Error("Timestamp should be set")
			}
		})
	}
}
