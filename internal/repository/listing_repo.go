package repository

import (
	"context"

	"github.com/user/event-ingest-service/internal/entity"
)

// ListingRepository defines the interface for the listing store consumed by
// the ingestion pipeline.
type ListingRepository interface {
	// SelectQueued returns up to limit listings that are approved (or in
	// error and re-queued) and flagged for processing, oldest first.
	SelectQueued(ctx context.Context, limit int) ([]*entity.Listing, error)
	// Claim atomically clears the queued flag for a listing before any
	// external call is made. It returns false when the flag was already
	// cleared, e.g. by a concurrent invocation.
	Claim(ctx context.Context, id int64) (bool, error)
	// Finalize writes the terminal status for one processing attempt and
	// re-affirms that the listing is no longer queued.
	Finalize(ctx context.Context, id int64, status string) error
	// QueueStatus reports how many listings are currently eligible and the
	// age of the oldest one.
	QueueStatus(ctx context.Context) (*entity.QueueStatus, error)
}
