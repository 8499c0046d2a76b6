package web_scrape

import (
	"context"
	"time"

	"github.com/mohammad-safakhou/webrag/tools/web_scrape/chromedp"
	"github.com/mohammad-safakhou/webrag/tools/web_scrape/httpfetch"
	"github.com/mohammad-safakhou/webrag/tools/web_scrape/models"
)

const (
	DefaultTimeout  = 5 * time.Second
	MaxCharsDefault = 2000
)

// WebScraper turns one URL into one Excerpt. Implementations never return
// an error for a bad page: failures become error-marker excerpts.
type WebScraper interface {
	Scrape(ctx context.Context, url string) models.Excerpt
}

type FetcherType string

const (
	HTTPFetcherType     FetcherType = "http"
	ChromedpFetcherType FetcherType = "chromedp"
)

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

func NewWebScraper(fetcherType FetcherType, timeout time.Duration, maxChars int) (WebScraper, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxChars <= 0 {
		maxChars = MaxCharsDefault
	}

	switch fetcherType {
	case HTTPFetcherType:
		return &httpfetch.Fetch{Timeout: timeout, MaxChars: maxChars}, nil
	case ChromedpFetcherType:
		return &chromedp.Fetch{Timeout: timeout, MaxChars: maxChars}, nil
	default:
		return nil, &Error{"unsupported fetcher type"}
	}
}
