package entity

import "time"

// Per-item outcome statuses reported by one pipeline invocation.
// "skipped" means a concurrent invocation claimed the listing first.
const (
	ItemStatusCompleted = "completed"
	ItemStatusError     = "error"
	ItemStatusSkipped   = "skipped"
)

// ItemResult is the outcome of driving one listing through the pipeline.
type ItemResult struct {
	ListingID      int64
	Status         string
	EventsInserted int
	InsertErrors   []string
	Error          string
}

// RunResult aggregates one batch invocation.
type RunResult struct {
	RunID     string
	Message   string
	Processed int
	Items     []ItemResult
}

// QueueStatus reports the depth and age of the eligible processing queue.
type QueueStatus struct {
	Depth           int64
	OldestCreatedAt *time.Time
}
