package chromedp

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/go-shiori/go-readability"
	"github.com/mohammad-safakhou/webrag/tools/web_scrape/models"
)

// Fetch renders the page in headless Chrome before extraction, for sites
// that only produce content after script execution.
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

	html, err := fetchHTML(ctx, rawURL)
	if err != nil {
		return models.ErrorExcerpt(rawURL, err)
	}

	article, err := readability.FromReader(strings.NewReader(html), mustParseURL(rawURL))
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

func fetchHTML(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent("webrag/1.0 (+contact@example.com)"),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(bctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
