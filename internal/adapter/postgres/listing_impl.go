package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/event-ingest-service/internal/entity"
)

// ListingRepoImpl provides a concrete implementation for the ListingRepository interface using PostgreSQL.
type ListingRepoImpl struct {
	db *pgxpool.Pool
}

// NewListingRepo creates a new instance of ListingRepoImpl.
func NewListingRepo(db *pgxpool.Pool) *ListingRepoImpl {
	return &ListingRepoImpl{db: db}
}

// SelectQueued returns up to limit listings eligible for processing, oldest first.
// Eligible means approved (or previously errored and re-queued) with the
// processing flag still set.
func (r *ListingRepoImpl) SelectQueued(ctx context.Context, limit int) ([]*entity.Listing, error) {
	query := `
		SELECT id, url, title, image_url, status, queued_for_processing, created_at, updated_at
		FROM listings
		WHERE status IN ('approved', 'error') AND queued_for_processing = TRUE
		ORDER BY created_at ASC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*entity.Listing
	for rows.Next() {
		var l entity.Listing
		if err := rows.Scan(
			&l.ID,
			&l.URL,
			&l.Title,
			&l.ImageURL,
			&l.Status,
			&l.QueuedForProcessing,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		listings = append(listings, &l)
	}

	return listings, rows.Err()
}

// Claim clears the queued flag for a listing. The WHERE clause makes the
// write a compare-and-swap: zero affected rows means another invocation
// already claimed the record.
func (r *ListingRepoImpl) Claim(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE listings
		SET queued_for_processing = FALSE, updated_at = NOW()
		WHERE id = $1 AND queued_for_processing = TRUE;
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Finalize writes the terminal status for one processing attempt. Clearing
// the queued flag again is an idempotent re-affirmation of the claim.
func (r *ListingRepoImpl) Finalize(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE listings
		SET status = $2, queued_for_processing = FALSE, updated_at = NOW()
		WHERE id = $1;
	`
	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// QueueStatus reports the depth and oldest created_at of the eligible queue.
func (r *ListingRepoImpl) QueueStatus(ctx context.Context) (*entity.QueueStatus, error) {
	query := `
		SELECT COUNT(*), MIN(created_at)
		FROM listings
		WHERE status IN ('approved', 'error') AND queued_for_processing = TRUE;
	`
	var qs entity.QueueStatus
	if err := r.db.QueryRow(ctx, query).Scan(&qs.Depth, &qs.OldestCreatedAt); err != nil {
		return nil, err
	}
	return &qs, nil
}
