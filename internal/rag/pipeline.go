package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mohammad-safakhou/webrag/internal/telemetry"
	"github.com/mohammad-safakhou/webrag/provider"
	"github.com/mohammad-safakhou/webrag/tools/web_scrape"
	"github.com/mohammad-safakhou/webrag/tools/web_scrape/models"
	"github.com/mohammad-safakhou/webrag/tools/web_search"
)

// DefaultMaxSources bounds how many search hits get scraped per request.
const DefaultMaxSources = 3

// SearchErrorPrefix marks an answer produced when search itself was
// unavailable. Like the other markers it is part of the visible contract.
const SearchErrorPrefix = "[Search Error]"

var (
	// ErrEmptyQuery rejects blank input before any upstream call.
	ErrEmptyQuery = errors.New("empty query")

	// ErrSearchUnavailable wraps search endpoint failures. Without sources
	// no grounded answer is possible, so this is the one upstream failure
	// the pipeline reports as an error instead of embedding in the answer.
	ErrSearchUnavailable = errors.New("search unavailable")
)

// Result is the outcome of one ask invocation. Sources lists the URLs the
// context was actually built from, in relevance order.
type Result struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Pipeline runs the retrieval-augmented answer flow: search, scrape the
// top hits, assemble the context, generate. Stateless and reentrant; every
// value it builds is request-scoped.
type Pipeline struct {
	searcher   web_search.WebSearcher
	scraper    web_scrape.WebScraper
	llm        provider.Provider
	maxSources int
	telemetry  *telemetry.Telemetry
}

// NewPipeline wires the pipeline dependencies once at startup.
func NewPipeline(searcher web_search.WebSearcher, scraper web_scrape.WebScraper, llm provider.Provider, maxSources int, tele *telemetry.Telemetry) *Pipeline {
	if maxSources <= 0 {
		maxSources = DefaultMaxSources
	}
	return &Pipeline{
		searcher:   searcher,
		scraper:    scraper,
		llm:        llm,
		maxSources: maxSources,
		telemetry:  tele,
	}
}

// Ask answers a query grounded in scraped web content.
//
// Fewer hits than maxSources is fine; zero hits still reaches the
// generator with an empty context. Scrapes fan out concurrently, one
// goroutine per URL writing to its own slice slot, and all of them join
// before assembly. A failed scrape contributes an error-marker excerpt.
// Completion failures are embedded into the answer string so the caller
// still gets a full result.
func (p *Pipeline) Ask(ctx context.Context, query string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, ErrEmptyQuery
	}

	id := uuid.NewString()[:8]
	start := time.Now()
	logger := p.telemetry.Logger()

	hits, err := p.searcher.Discover(ctx, query, p.maxSources)
	if err != nil {
		p.telemetry.RecordAsk(false, time.Since(start))
		return Result{}, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	if len(hits) > p.maxSources {
		hits = hits[:p.maxSources]
	}

	urls := make([]string, len(hits))
	for i, h := range hits {
		urls[i] = h.URL
	}
	logger.Printf("%s: %d source(s) for %q", id, len(urls), query)

	excerpts := make([]models.Excerpt, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			ex := p.scraper.Scrape(ctx, url)
			if ex.Failed {
				p.telemetry.RecordScrapeFailure()
				logger.Printf("%s: scrape failed for %s: %s", id, url, ex.Text)
			}
			excerpts[i] = ex
		}(i, u)
	}
	wg.Wait()

	grounding := AssembleContext(excerpts)

	answer, err := p.llm.Answer(ctx, query, grounding)
	if err != nil {
		p.telemetry.RecordLLMFailure()
		var genErr provider.GenerationError
		if errors.As(err, &genErr) {
			answer = genErr.Marker()
		} else {
			// Transport-level failures get the same visible treatment as
			// upstream non-200s: the request still completes.
			answer = fmt.Sprintf("[Mistral API Error] %v", err)
		}
		logger.Printf("%s: generation failed: %v", id, err)
	}

	p.telemetry.RecordAsk(true, time.Since(start))
	return Result{Answer: answer, Sources: urls}, nil
}
