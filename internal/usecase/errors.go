package usecase

import (
	"errors"
	"fmt"
)

// Invocation-level errors. These abort the whole run before any listing is
// touched; everything else is scoped to a single item or candidate.
var (
	ErrExtractionNotConfigured = errors.New("extraction service credentials are not configured")
	ErrFetchNotConfigured      = errors.New("content fetch service is not configured")
	ErrRunInProgress           = errors.New("pipeline run already in progress")
)

// FetchError means the content fetch failed for one listing URL.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("content fetch failed for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError means the extraction service returned a non-success status,
// an unparseable body, or reported failure for one listing.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// PersistError means one candidate event failed to insert. It never aborts
// sibling inserts.
type PersistError struct {
	Candidate string
	Err       error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to insert event %q: %v", e.Candidate, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// FinalizeError means the terminal status write itself failed. It is logged
// and surfaced in the item result, never retried.
type FinalizeError struct {
	ListingID int64
	Err       error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("failed to finalize listing %d: %v", e.ListingID, e.Err)
}

func (e *FinalizeError) Unwrap() error { return e.Err }
