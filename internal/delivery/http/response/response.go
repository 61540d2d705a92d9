package response

import "time"

// ItemResult is the per-listing outcome reported to the trigger caller.
type ItemResult struct {
	ID             int64    `json:"id"`
	Status         string   `json:"status"` // "completed", "error", "skipped"
	EventsInserted int      `json:"events_inserted,omitempty"`
	InsertErrors   []string `json:"insert_errors,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// PipelineRunResponse is the envelope for one batch invocation.
type PipelineRunResponse struct {
	RunID     string       `json:"run_id"`
	Message   string       `json:"message"`
	Processed int          `json:"processed"`
	Results   []ItemResult `json:"results"`
}

// QueueStatusResponse reports the eligible processing queue.
type QueueStatusResponse struct {
	Depth           int64      `json:"depth"`
	OldestCreatedAt *time.Time `json:"oldest_created_at,omitempty"`
}
