package repository

import (
	"context"

	"github.com/user/event-ingest-service/internal/entity"
)

// EventRepository defines the interface for the append-only event store.
type EventRepository interface {
	// Insert stores one event derived from a listing.
	Insert(ctx context.Context, event *entity.Event) error
}
