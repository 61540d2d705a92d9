package repository

import (
	"context"

	"github.com/user/event-ingest-service/internal/entity"
)

// EventExtractor defines the contract for the external extraction service,
// which converts raw page content into structured event candidates.
type EventExtractor interface {
	// Extract submits page content plus its source URL and returns the
	// service's candidate events.
	Extract(ctx context.Context, markdown, url string) (*entity.ExtractionResult, error)
	// Configured reports whether the service credentials are present.
	// Checked before a run touches the listing store.
	Configured() bool
}
