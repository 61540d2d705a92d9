package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/user/event-ingest-service/internal/entity"
	"github.com/user/event-ingest-service/internal/repository"
	"github.com/user/event-ingest-service/pkg/metrics"
	"github.com/user/event-ingest-service/pkg/utils"
)

// PipelineRunner defines the interface for the batch ingestion pipeline.
type PipelineRunner interface {
	// Run drains one batch of queued listings: claim, fetch, extract,
	// persist, finalize, with a fixed delay between items.
	Run(ctx context.Context) (*entity.RunResult, error)
	// QueueStatus reports the current eligible queue without side effects.
	QueueStatus(ctx context.Context) (*entity.QueueStatus, error)
}

// Options carries the tunables of one pipeline instance.
type Options struct {
	BatchSize  int
	ItemDelay  time.Duration
	RunLockTTL time.Duration
}

type pipelineUseCase struct {
	listings  repository.ListingRepository
	events    repository.EventRepository
	fetcher   repository.ContentFetcher
	extractor repository.EventExtractor
	runLock   repository.RunLockRepository
	snapshots repository.SnapshotRepository // optional, may be nil
	opts      Options
}

// NewPipeline creates a new pipeline use case. snapshots may be nil when no
// archive store is configured.
func NewPipeline(
	listings repository.ListingRepository,
	events repository.EventRepository,
	fetcher repository.ContentFetcher,
	extractor repository.EventExtractor,
	runLock repository.RunLockRepository,
	snapshots repository.SnapshotRepository,
	opts Options,
) PipelineRunner {
	return &pipelineUseCase{
		listings:  listings,
		events:    events,
		fetcher:   fetcher,
		extractor: extractor,
		runLock:   runLock,
		snapshots: snapshots,
		opts:      opts,
	}
}

// Run orchestrates one batch invocation end-to-end. Per-item failures are
// isolated; only missing service configuration or a held run lock aborts the
// invocation.
func (uc *pipelineUseCase) Run(ctx context.Context) (*entity.RunResult, error) {
	if !uc.extractor.Configured() {
		return nil, ErrExtractionNotConfigured
	}
	if !uc.fetcher.Configured() {
		return nil, ErrFetchNotConfigured
	}

	runID := uuid.NewString()

	acquired, err := uc.runLock.Acquire(ctx, runID, uc.opts.RunLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !acquired {
		return nil, ErrRunInProgress
	}
	defer func() {
		if err := uc.runLock.Release(context.WithoutCancel(ctx), runID); err != nil {
			slog.Warn("Failed to release run lock, lease will expire on its own", "run_id", runID, "error", err)
		}
	}()

	listings, err := uc.listings.SelectQueued(ctx, uc.opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to select queued listings: %w", err)
	}

	result := &entity.RunResult{RunID: runID, Items: []entity.ItemResult{}}

	if len(listings) == 0 {
		result.Message = "No items in queue"
		metrics.PipelineRunsTotal.WithLabelValues("empty").Inc()
		return result, nil
	}

	slog.Info("Processing batch", "run_id", runID, "items", len(listings))

	for i, listing := range listings {
		claimed, err := uc.listings.Claim(ctx, listing.ID)
		if err != nil {
			// A failed claim write degrades to "may be reprocessed",
			// it never blocks this attempt.
			slog.Warn("Claim write failed, processing anyway", "listing_id", listing.ID, "error", err)
		} else if !claimed {
			slog.Info("Listing already claimed by another run, skipping", "listing_id", listing.ID)
			result.Items = append(result.Items, entity.ItemResult{
				ListingID: listing.ID,
				Status:    entity.ItemStatusSkipped,
			})
			metrics.PipelineItemsTotal.WithLabelValues(entity.ItemStatusSkipped).Inc()
			continue
		}

		item := uc.processItem(ctx, runID, listing)
		result.Items = append(result.Items, item)
		result.Processed++
		metrics.PipelineItemsTotal.WithLabelValues(item.Status).Inc()

		// Throttle before the next item, the external services are
		// rate-limited. No delay after the last one.
		if i < len(listings)-1 {
			if err := uc.waitBetweenItems(ctx); err != nil {
				result.Message = fmt.Sprintf("Run interrupted after %d listings", result.Processed)
				metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
				return result, err
			}
		}
	}

	result.Message = fmt.Sprintf("Processed %d listings", result.Processed)
	metrics.PipelineRunsTotal.WithLabelValues("completed").Inc()
	return result, nil
}

// QueueStatus reports the eligible queue depth and refreshes the gauge.
func (uc *pipelineUseCase) QueueStatus(ctx context.Context) (*entity.QueueStatus, error) {
	qs, err := uc.listings.QueueStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue status: %w", err)
	}
	metrics.ListingsQueued.Set(float64(qs.Depth))
	return qs, nil
}

// processItem drives one listing through fetch, extraction, persistence and
// finalization. Any step failure is converted into a terminal error status
// for this item only.
func (uc *pipelineUseCase) processItem(ctx context.Context, runID string, listing *entity.Listing) entity.ItemResult {
	item := entity.ItemResult{ListingID: listing.ID}

	inserted, insertErrs, err := uc.runSteps(ctx, runID, listing)
	item.EventsInserted = inserted
	item.InsertErrors = insertErrs

	status := entity.ListingStatusProcessed
	switch {
	case err != nil:
		status = entity.ListingStatusError
		item.Status = entity.ItemStatusError
		item.Error = err.Error()
		slog.Error("Listing processing failed", "listing_id", listing.ID, "url", listing.URL, "error", err)
	case inserted == 0:
		// Extraction succeeded but nothing was persisted; without at
		// least one event the attempt produced no usable output.
		status = entity.ListingStatusError
		item.Status = entity.ItemStatusError
		item.Error = "no events were inserted"
		slog.Warn("Extraction produced no inserted events", "listing_id", listing.ID, "url", listing.URL)
	default:
		item.Status = entity.ItemStatusCompleted
		slog.Info("Listing processed", "listing_id", listing.ID, "events_inserted", inserted)
	}

	if ferr := uc.listings.Finalize(ctx, listing.ID, status); ferr != nil {
		wrapped := &FinalizeError{ListingID: listing.ID, Err: ferr}
		slog.Error("Finalize write failed", "listing_id", listing.ID, "error", wrapped)
		if item.Error == "" {
			item.Error = wrapped.Error()
		} else {
			item.Error = item.Error + "; " + wrapped.Error()
		}
	}

	return item
}

// runSteps performs fetch, extraction and event inserts for one listing.
// It returns the number of inserted events, per-candidate insert errors, and
// the step error that stopped processing, if any.
func (uc *pipelineUseCase) runSteps(ctx context.Context, runID string, listing *entity.Listing) (int, []string, error) {
	start := time.Now()
	markdown, err := uc.fetcher.Fetch(ctx, listing.URL)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, nil, &FetchError{URL: listing.URL, Err: err}
	}
	if strings.TrimSpace(markdown) == "" {
		return 0, nil, &FetchError{URL: listing.URL, Err: errors.New("fetched content is empty")}
	}

	uc.archiveSnapshot(ctx, runID, listing, markdown)

	start = time.Now()
	extraction, err := uc.extractor.Extract(ctx, markdown, listing.URL)
	metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, nil, &ExtractionError{URL: listing.URL, Err: err}
	}
	if !extraction.Success {
		msg := extraction.Error
		if msg == "" {
			msg = "extraction service reported failure"
		}
		return 0, nil, &ExtractionError{URL: listing.URL, Err: errors.New(msg)}
	}

	var inserted int
	var insertErrs []string
	for _, candidate := range extraction.Events {
		event, err := uc.buildEvent(listing, candidate)
		if err == nil {
			err = uc.events.Insert(ctx, event)
		}
		if err != nil {
			perr := &PersistError{Candidate: candidate.Name, Err: err}
			insertErrs = append(insertErrs, perr.Error())
			slog.Warn("Event insert failed", "listing_id", listing.ID, "candidate", candidate.Name, "error", err)
			continue
		}
		inserted++
		metrics.EventsInsertedTotal.Inc()
	}

	return inserted, insertErrs, nil
}

// buildEvent turns one extraction candidate into a storable event, stamped
// with the listing's image reference, the source URL and fresh timestamps.
func (uc *pipelineUseCase) buildEvent(listing *entity.Listing, candidate entity.EventCandidate) (*entity.Event, error) {
	if strings.TrimSpace(candidate.Name) == "" {
		return nil, errors.New("candidate has no event name")
	}

	imageURL := candidate.ImageURL
	if imageURL == "" {
		imageURL = listing.ImageURL
	} else if base, err := url.Parse(listing.URL); err == nil {
		if abs, err := utils.ToAbsoluteURL(base, imageURL); err == nil {
			imageURL = abs
		}
	}

	now := time.Now()
	return &entity.Event{
		Name:         candidate.Name,
		StartDate:    candidate.StartDate,
		EndDate:      candidate.EndDate,
		LocationText: candidate.LocationText,
		Latitude:     candidate.Latitude,
		Longitude:    candidate.Longitude,
		Price:        candidate.Price,
		PriceMin:     candidate.PriceMin,
		PriceMax:     candidate.PriceMax,
		Description:  candidate.Description,
		Categories:   candidate.Categories,
		ImageURL:     imageURL,
		PageURL:      listing.URL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// archiveSnapshot stores the fetched content when a snapshot store is
// configured. Snapshot failures are logged and never fail the item.
func (uc *pipelineUseCase) archiveSnapshot(ctx context.Context, runID string, listing *entity.Listing, markdown string) {
	if uc.snapshots == nil {
		return
	}
	objectName := fmt.Sprintf("%s/%s.md", utils.HashURL(listing.URL), runID)
	if err := uc.snapshots.Save(ctx, objectName, markdown); err != nil {
		slog.Warn("Failed to archive content snapshot", "listing_id", listing.ID, "object", objectName, "error", err)
		return
	}
	slog.Debug("Archived content snapshot", "listing_id", listing.ID, "object", objectName)
}

// waitBetweenItems pauses for the configured inter-item delay, aborting early
// when the invocation context is cancelled.
func (uc *pipelineUseCase) waitBetweenItems(ctx context.Context) error {
	timer := time.NewTimer(uc.opts.ItemDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
