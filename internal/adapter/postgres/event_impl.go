package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/event-ingest-service/internal/entity"
)

// EventRepoImpl provides a concrete implementation for the EventRepository interface using PostgreSQL.
type EventRepoImpl struct {
	db *pgxpool.Pool
}

// NewEventRepo creates a new instance of EventRepoImpl.
func NewEventRepo(db *pgxpool.Pool) *EventRepoImpl {
	return &EventRepoImpl{db: db}
}

// Insert stores one event derived from a listing. Events are append-only;
// there is no conflict handling on purpose.
func (r *EventRepoImpl) Insert(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (event_name, start_date, end_date, location_text, latitude, longitude,
			price, price_min, price_max, description, categories, image_url, page_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.db.Exec(ctx, query,
		event.Name,
		event.StartDate,
		event.EndDate,
		event.LocationText,
		event.Latitude,
		event.Longitude,
		event.Price,
		event.PriceMin,
		event.PriceMax,
		event.Description,
		event.Categories,
		event.ImageURL,
		event.PageURL,
		event.CreatedAt,
		event.UpdatedAt,
	)
	return err
}
