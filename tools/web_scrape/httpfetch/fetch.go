package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/mohammad-safakhou/webrag/tools/web_scrape/models"
)

// Fetch retrieves a page with a plain HTTP GET and reduces it to visible
// text via readability. Good enough for static pages; JS-heavy sites need
// the chromedp fetcher.
type Fetch struct {
	Timeout  time.Duration
	MaxChars int
}

func (f *Fetch) Scrape(ctx context.Context, rawURL string) models.Excerpt {
	if strings.TrimSpace(rawURL) == "" {
		return models.ErrorExcerpt(rawURL, errors.New("invalid url"))
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return models.ErrorExcerpt(rawURL, err)
	}
	req.Header.Set("User-Agent", "webrag/1.0 (+contact@example.com)")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return models.ErrorExcerpt(rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.ErrorExcerpt(rawURL, fmt.Errorf("status %d", resp.StatusCode))
	}

	article, err := readability.FromReader(resp.Body, mustParseURL(rawURL))
	if err != nil {
		return models.ErrorExcerpt(rawURL, err)
	}
	text := models.Truncate(strings.TrimSpace(article.TextContent), f.MaxChars)

	return models.Excerpt{
		URL:   rawURL,
		Title: strings.TrimSpace(article.Title),
		Text:  text,
	}
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
