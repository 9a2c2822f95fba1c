// Package fetcher turns a search-results URL into a rendered HTML snapshot.
//
// Two engines are provided: a rod-driven Chromium fetch for JS-heavy pages
// and a plain HTTP fetch for server-rendered ones. Both return a Document
// snapshot so that extraction never needs a live browser connection.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"adscan/internal/browser"
	"adscan/internal/logger"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Sentinel errors for the fetch stage. Callers match with errors.Is.
var (
	// ErrInvalidInput marks a malformed target URL, detected before any
	// browser process is launched.
	ErrInvalidInput = errors.New("invalid input")
	// ErrFetch marks a browser launch, navigation or timeout failure.
	ErrFetch = errors.New("fetch failed")
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Document is a rendered-page snapshot.
type Document struct {
	HTML     string        // outerHTML after JS execution (or raw body for static fetch)
	URL      string        // final URL after redirects, used to resolve relative links
	Title    string        // page title
	LoadTime time.Duration // wall time spent fetching
}

// Fetcher retrieves one fully rendered document.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (*Document, error)
}

// Options controls fetch behavior shared by both engines.
type Options struct {
	Timeout      time.Duration
	Headless     bool
	ProxyURL     string
	ScrollPasses int // lazy-load scroll attempts, browser engine only
}

// ValidateURL checks that rawURL is a well-formed absolute http/https URL
// and returns it in normalized form. It must be called before any I/O.
func ValidateURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidInput, rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q: URL must start with http:// or https://", ErrInvalidInput, rawURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q: URL has no host", ErrInvalidInput, rawURL)
	}
	return u.String(), nil
}

// BrowserFetcher renders pages in a Chromium instance. The browser process
// is launched inside Fetch and torn down on every exit path.
type BrowserFetcher struct {
	opts Options
	log  *logger.Logger
}

// NewBrowserFetcher creates a browser-backed fetcher.
func NewBrowserFetcher(opts Options, log *logger.Logger) *BrowserFetcher {
	if opts.ScrollPasses <= 0 {
		opts.ScrollPasses = 10
	}
	return &BrowserFetcher{opts: opts, log: log}
}

// Fetch navigates to target, waits for load and network idle, scrolls to
// trigger lazy loading until the page height stops growing, and snapshots
// the document.
func (f *BrowserFetcher) Fetch(ctx context.Context, target string) (*Document, error) {
	target, err := ValidateURL(target)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	f.log.Info("launching browser", "headless", f.opts.Headless)

	b, err := browser.New(browser.Config{
		Headless: f.opts.Headless,
		ProxyURL: f.opts.ProxyURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer b.Close()

	page, err := b.NewPage()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create page: %v", ErrFetch, err)
	}
	defer page.Close()

	page = page.Context(ctx)

	_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: defaultUserAgent})
	_, _ = page.EvalOnNewDocument(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`)

	f.log.Info("navigating", "url", target)
	if err := page.Timeout(f.opts.Timeout).Navigate(target); err != nil {
		return nil, fmt.Errorf("%w: failed to navigate to %s: %v", ErrFetch, target, err)
	}

	if err := page.Timeout(f.opts.Timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: page did not finish loading: %v", ErrFetch, err)
	}

	waitNetworkIdle(page, f.opts.Timeout)
	f.scrollToBottom(page)

	val, err := page.Timeout(f.opts.Timeout).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to snapshot document: %v", ErrFetch, err)
	}
	html := val.Value.Str()

	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read page info: %v", ErrFetch, err)
	}

	f.log.Debug("page fetched", "final_url", info.URL, "bytes", len(html))

	return &Document{
		HTML:     html,
		URL:      info.URL,
		Title:    info.Title,
		LoadTime: time.Since(start),
	}, nil
}

// scrollToBottom scrolls the page in passes so lazily loaded result cards
// are attached to the DOM before the snapshot. Stops early once the page
// height no longer grows.
func (f *BrowserFetcher) scrollToBottom(page *rod.Page) {
	previousHeight := -1

	for i := 0; i < f.opts.ScrollPasses; i++ {
		_, _ = page.Eval(`() => window.scrollBy(0, document.body.scrollHeight)`)
		time.Sleep(time.Second)
		waitNetworkIdle(page, 5*time.Second)

		val, err := page.Eval(`() => document.body.scrollHeight`)
		if err != nil {
			return
		}
		height := val.Value.Int()
		if height == previousHeight {
			return
		}
		previousHeight = height
	}
}

// waitNetworkIdle waits for outstanding requests to settle so JS-populated
// result lists are present. Images and media are excluded; the result
// markup does not depend on them.
func waitNetworkIdle(page *rod.Page, timeout time.Duration) {
	wait := page.Timeout(timeout).WaitRequestIdle(
		500*time.Millisecond, nil, nil,
		[]proto.NetworkResourceType{proto.NetworkResourceTypeImage, proto.NetworkResourceTypeMedia},
	)
	wait()
}
