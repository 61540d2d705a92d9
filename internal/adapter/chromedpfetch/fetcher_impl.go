package chromedpfetch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Fetcher is the headless-browser fallback content strategy: it renders the
// page locally and returns the document text instead of calling the remote
// content-fetch service.
type Fetcher struct {
	allocatorPool *sync.Pool
	timeout       time.Duration
}

// NewFetcher creates a browser-based fetcher with a per-page load timeout.
func NewFetcher(pageLoadTimeout time.Duration) *Fetcher {
	pool := &sync.Pool{
		New: func() interface{} {
			opts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.UserAgent(`Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36`),
			)
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
			return allocCtx
		},
	}

	return &Fetcher{
		allocatorPool: pool,
		timeout:       pageLoadTimeout,
	}
}

// Configured always reports true: the browser strategy needs no credentials.
func (f *Fetcher) Configured() bool {
	return true
}

// Fetch renders pageURL in a headless browser and returns the body text.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	allocCtx := f.allocatorPool.Get().(context.Context)
	defer f.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, f.timeout)
	defer cancel()

	var content string
	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-US,en;q=0.9"}),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Text("body", &content, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", errors.New("page rendered with no visible text")
	}

	return content, nil
}
