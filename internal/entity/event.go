package entity

import "time"

// Event mirrors the `events` PostgreSQL table schema. Events are append-only
// outputs of the pipeline; many events may derive from one listing.
type Event struct {
	ID           int64
	Name         string
	StartDate    string // free-form, may be non-calendar text such as "ongoing"
	EndDate      string
	LocationText string
	Latitude     *float64
	Longitude    *float64
	Price        *float64
	PriceMin     *float64
	PriceMax     *float64
	Description  string
	Categories   []string
	ImageURL     string
	PageURL      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
