package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"adscan/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
)

// StaticFetcher retrieves the raw server response without executing
// JavaScript. Useful for server-rendered result pages where launching a
// browser is wasted work.
type StaticFetcher struct {
	opts Options
	log  *logger.Logger
}

// NewStaticFetcher creates an HTTP-backed fetcher.
func NewStaticFetcher(opts Options, log *logger.Logger) *StaticFetcher {
	return &StaticFetcher{opts: opts, log: log}
}

// Fetch downloads target and returns its body as the document snapshot.
func (f *StaticFetcher) Fetch(ctx context.Context, target string) (*Document, error) {
	target, err := ValidateURL(target)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	c := colly.NewCollector(
		colly.UserAgent(defaultUserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(f.opts.Timeout)

	if f.opts.ProxyURL != "" {
		if err := c.SetProxy(f.opts.ProxyURL); err != nil {
			return nil, fmt.Errorf("%w: bad proxy: %v", ErrFetch, err)
		}
	}

	var (
		html     string
		finalURL = target
	)
	c.OnResponse(func(r *colly.Response) {
		html = string(r.Body)
		if r.Request != nil && r.Request.URL != nil {
			finalURL = r.Request.URL.String()
		}
	})

	f.log.Info("fetching without browser", "url", target)
	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	c.Wait()

	if html == "" {
		return nil, fmt.Errorf("%w: empty response from %s", ErrFetch, target)
	}

	return &Document{
		HTML:     html,
		URL:      finalURL,
		Title:    pageTitle(html),
		LoadTime: time.Since(start),
	}, nil
}

func pageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
