package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/event-ingest-service/internal/delivery/http/response"
	"github.com/user/event-ingest-service/internal/entity"
	"github.com/user/event-ingest-service/internal/usecase"
)

type stubPipeline struct {
	runResult   *entity.RunResult
	runErr      error
	queueStatus *entity.QueueStatus
	queueErr    error
}

func (s *stubPipeline) Run(ctx context.Context) (*entity.RunResult, error) {
	return s.runResult, s.runErr
}

func (s *stubPipeline) QueueStatus(ctx context.Context) (*entity.QueueStatus, error) {
	return s.queueStatus, s.queueErr
}

func TestHandleRunPipelineSuccess(t *testing.T) {
	h := NewHandler(&stubPipeline{
		runResult: &entity.RunResult{
			RunID:     "run-1",
			Message:   "Processed 2 listings",
			Processed: 2,
			Items: []entity.ItemResult{
				{ListingID: 10, Status: entity.ItemStatusCompleted, EventsInserted: 3},
				{ListingID: 11, Status: entity.ItemStatusError, Error: "content fetch failed for https://example.com/b: timeout"},
			},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/run", nil)
	rec := httptest.NewRecorder()
	h.HandleRunPipeline(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp response.PipelineRunResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.RunID != "run-1" || resp.Processed != 2 {
		t.Errorf("Unexpected envelope: %+v", resp)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].ID != 10 || resp.Results[0].Status != "completed" || resp.Results[0].EventsInserted != 3 {
		t.Errorf("Unexpected first result: %+v", resp.Results[0])
	}
	if resp.Results[1].Status != "error" || resp.Results[1].Error == "" {
		t.Errorf("Unexpected second result: %+v", resp.Results[1])
	}
}

func TestHandleRunPipelineEmptyQueue(t *testing.T) {
	h := NewHandler(&stubPipeline{
		runResult: &entity.RunResult{
			RunID:   "run-2",
			Message: "No items in queue",
			Items:   []entity.ItemResult{},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/run", nil)
	rec := httptest.NewRecorder()
	h.HandleRunPipeline(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp response.PipelineRunResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Message != "No items in queue" {
		t.Errorf("Expected no-items message, got %q", resp.Message)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("Expected an empty results array, got %v", resp.Results)
	}
}

func TestHandleRunPipelineConfigurationError(t *testing.T) {
	h := NewHandler(&stubPipeline{runErr: usecase.ErrExtractionNotConfigured})

	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/run", nil)
	rec := httptest.NewRecorder()
	h.HandleRunPipeline(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["error"] != usecase.ErrExtractionNotConfigured.Error() {
		t.Errorf("Expected the configuration error surfaced, got %q", resp["error"])
	}
}

func TestHandleRunPipelineRunInProgress(t *testing.T) {
	h := NewHandler(&stubPipeline{runErr: usecase.ErrRunInProgress})

	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/run", nil)
	rec := httptest.NewRecorder()
	h.HandleRunPipeline(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", rec.Code)
	}
}

func TestHandleRunPipelineUnexpectedError(t *testing.T) {
	h := NewHandler(&stubPipeline{runErr: errors.New("pool exhausted")})

	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/run", nil)
	rec := httptest.NewRecorder()
	h.HandleRunPipeline(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["error"] != "Internal server error" {
		t.Errorf("Expected a generic message for unexpected errors, got %q", resp["error"])
	}
}

func TestHandleRunPipelineMethodNotAllowed(t *testing.T) {
	h := NewHandler(&stubPipeline{})

	req := httptest.NewRequest(http.MethodGet, "/api/pipeline/run", nil)
	rec := httptest.NewRecorder()
	h.HandleRunPipeline(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected 405, got %d", rec.Code)
	}
}

func TestHandleQueueStatus(t *testing.T) {
	h := NewHandler(&stubPipeline{queueStatus: &entity.QueueStatus{Depth: 7}})

	req := httptest.NewRequest(http.MethodGet, "/api/queue", nil)
	rec := httptest.NewRecorder()
	h.HandleQueueStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp response.QueueStatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Depth != 7 {
		t.Errorf("Expected depth 7, got %d", resp.Depth)
	}
}

func TestHandleHealthCheck(t *testing.T) {
	h := NewHandler(&stubPipeline{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.HandleHealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
}
