package repository

import "context"

// ContentFetcher defines the contract for turning a listing URL into page
// content. Implementations exist for the remote content-fetch service and
// for a local headless-browser fallback.
type ContentFetcher interface {
	// Fetch returns the page content for url as normalized markdown text.
	Fetch(ctx context.Context, url string) (string, error)
	// Configured reports whether the fetcher has everything it needs to
	// make calls. Checked before a run touches the listing store.
	Configured() bool
}
