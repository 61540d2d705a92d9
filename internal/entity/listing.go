package entity

import "time"

// Listing status lifecycle: the crawler creates records as "pending",
// an external approval flips them to "approved" and queues them, and the
// pipeline terminates every processing attempt in "processed" or "error".
const (
	ListingStatusPending   = "pending"
	ListingStatusApproved  = "approved"
	ListingStatusProcessed = "processed"
	ListingStatusError     = "error"
)

// Listing mirrors the `listings` PostgreSQL table schema.
type Listing struct {
	ID                  int64
	URL                 string
	Title               string
	ImageURL            string
	Status              string
	QueuedForProcessing bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
