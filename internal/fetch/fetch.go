// Package fetch retrieves a single page body for extract-by-URL flows.
package fetch

import (
	"errors"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/is0692vs/chronoclip/internal/logger"
)

// Default fetch settings
const (
	DefaultUserAgent = "chronoclip/1.0"
	DefaultTimeout   = 30 * time.Second
	// maxBodySize caps the response body; event pages are small.
	maxBodySize = 10 * 1024 * 1024
)

// Result is one fetched page.
type Result struct {
	// URL is the final URL after redirects
	URL string
	// HTML is the raw page body
	HTML string
}

// Fetcher fetches single pages over HTTP.
type Fetcher struct {
	userAgent string
	timeout   time.Duration
	log       logger.Interface
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent overrides the request user agent.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) { f.userAgent = userAgent }
}

// WithTimeout overrides the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) { f.timeout = timeout }
}

// New creates a Fetcher.
func New(log logger.Interface, opts ...Option) *Fetcher {
	if log == nil {
		log = logger.NewNoOp()
	}
	f := &Fetcher{
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		log:       log.WithComponent("fetch"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Page fetches a single page and returns its body.
func (f *Fetcher) Page(pageURL string) (*Result, error) {
	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.MaxBodySize(maxBodySize),
	)
	c.SetRequestTimeout(f.timeout)

	var result *Result
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result = &Result{
			URL:  r.Request.URL.String(),
			HTML: string(r.Body),
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	f.log.Debug("fetching page", "url", pageURL)
	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, fetchErr)
	}
	if result == nil {
		return nil, errors.New("fetch returned no response")
	}
	return result, nil
}
