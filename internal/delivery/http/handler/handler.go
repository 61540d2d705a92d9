package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/user/event-ingest-service/internal/delivery/http/response"
	"github.com/user/event-ingest-service/internal/entity"
	"github.com/user/event-ingest-service/internal/usecase"
)

type Handler struct {
	pipeline usecase.PipelineRunner
}

func NewHandler(pipeline usecase.PipelineRunner) *Handler {
	return &Handler{
		pipeline: pipeline,
	}
}

// HandleRunPipeline triggers one batch invocation. No request body is
// required; the batch size and throttle delay come from configuration.
func (h *Handler) HandleRunPipeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := h.pipeline.Run(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrRunInProgress):
			h.writeJSONError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, usecase.ErrExtractionNotConfigured),
			errors.Is(err, usecase.ErrFetchNotConfigured):
			h.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		default:
			slog.Error("Pipeline run failed", "error", err)
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, toRunResponse(result))
}

// HandleQueueStatus reports the eligible queue without side effects.
func (h *Handler) HandleQueueStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	qs, err := h.pipeline.QueueStatus(r.Context())
	if err != nil {
		slog.Error("Failed to get queue status", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.QueueStatusResponse{
		Depth:           qs.Depth,
		OldestCreatedAt: qs.OldestCreatedAt,
	})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toRunResponse(result *entity.RunResult) response.PipelineRunResponse {
	resp := response.PipelineRunResponse{
		RunID:     result.RunID,
		Message:   result.Message,
		Processed: result.Processed,
		Results:   []response.ItemResult{},
	}
	for _, item := range result.Items {
		resp.Results = append(resp.Results, response.ItemResult{
			ID:             item.ListingID,
			Status:         item.Status,
			EventsInserted: item.EventsInserted,
			InsertErrors:   item.InsertErrors,
			Error:          item.Error,
		})
	}
	return resp
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
