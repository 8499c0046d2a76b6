package rag

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohammad-safakhou/webrag/config"
	"github.com/mohammad-safakhou/webrag/internal/telemetry"
	mistral_provider "github.com/mohammad-safakhou/webrag/provider/mistral"
	smodels "github.com/mohammad-safakhou/webrag/tools/web_scrape/models"
	"github.com/mohammad-safakhou/webrag/tools/web_search/models"
)

type fakeSearcher struct {
	results []models.Result
	err     error
}

func (f fakeSearcher) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	if k > 0 && len(f.results) > k {
		return f.results[:k], nil
	}
	return f.results, nil
}

type fakeScraper struct {
	mu     sync.Mutex
	failOn map[string]bool
	seen   []string
}

func (f *fakeScraper) Scrape(ctx context.Context, url string) smodels.Excerpt {
	f.mu.Lock()
	f.seen = append(f.seen, url)
	f.mu.Unlock()
	if f.failOn[url] {
		return smodels.ErrorExcerpt(url, errors.New("connection refused"))
	}
	return smodels.Excerpt{URL: url, Text: "content of " + url}
}

type fakeLLM struct {
	mu        sync.Mutex
	question  string
	grounding string
	answer    string
	err       error
}

func (f *fakeLLM) Answer(ctx context.Context, question string, grounding string) (string, error) {
	f.mu.Lock()
	f.question = question
	f.grounding = grounding
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestTelemetry(t *testing.T) *telemetry.Telemetry {
	t.Helper()
	return telemetry.NewTelemetry(config.TelemetryConfig{Enabled: true}, prometheus.NewRegistry())
}

func urlResults(urls ...string) []models.Result {
	out := make([]models.Result, 0, len(urls))
	for _, u := range urls {
		out = append(out, models.Result{URL: u})
	}
	return out
}

func TestAskBoundsSources(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		results []models.Result
		wantN   int
	}{
		{"more hits than budget", urlResults("https://a", "https://b", "https://c", "https://d", "https://e"), 3},
		{"fewer hits than budget", urlResults("https://a", "https://b"), 2},
		{"exactly budget", urlResults("https://a", "https://b", "https://c"), 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{answer: "fine"}
			p := NewPipeline(fakeSearcher{results: tt.results}, &fakeScraper{}, llm, 3, newTestTelemetry(t))
			res, err := p.Ask(context.Background(), "what is go")
			if err != nil {
				t.Fatalf("Ask: %v", err)
			}
			if len(res.Sources) != tt.wantN {
				t.Fatalf("expected %d sources, got %d", tt.wantN, len(res.Sources))
			}
			for i, src := range res.Sources {
				if src != tt.results[i].URL {
					t.Fatalf("source order broken at %d: got %s want %s", i, src, tt.results[i].URL)
				}
			}
		})
	}
}

func TestAskZeroHitsStillGenerates(t *testing.T) {
	t.Parallel()
	llm := &fakeLLM{answer: "nothing found, but here is a guess"}
	p := NewPipeline(fakeSearcher{}, &fakeScraper{}, llm, 3, newTestTelemetry(t))

	res, err := p.Ask(context.Background(), "obscure question")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(res.Sources) != 0 {
		t.Fatalf("expected no sources, got %v", res.Sources)
	}
	if res.Answer != llm.answer {
		t.Fatalf("expected generator answer, got %q", res.Answer)
	}
	if llm.grounding != "" {
		t.Fatalf("expected empty context, got %q", llm.grounding)
	}
}

func TestAskIsolatesScrapeFailures(t *testing.T) {
	t.Parallel()
	llm := &fakeLLM{answer: "partial answer"}
	scraper := &fakeScraper{failOn: map[string]bool{"https://down": true}}
	p := NewPipeline(fakeSearcher{results: urlResults("https://up", "https://down", "https://also-up")}, scraper, llm, 3, newTestTelemetry(t))

	res, err := p.Ask(context.Background(), "mixed sources")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if res.Answer != "partial answer" {
		t.Fatalf("generation did not proceed: %q", res.Answer)
	}
	if !strings.Contains(llm.grounding, smodels.ScrapeErrorPrefix) {
		t.Fatalf("error marker missing from context: %q", llm.grounding)
	}
	if !strings.Contains(llm.grounding, "content of https://up") || !strings.Contains(llm.grounding, "content of https://also-up") {
		t.Fatalf("successful excerpts missing from context: %q", llm.grounding)
	}
	// order must follow the search ranking, not scrape completion order
	up := strings.Index(llm.grounding, "content of https://up")
	down := strings.Index(llm.grounding, smodels.ScrapeErrorPrefix)
	also := strings.Index(llm.grounding, "content of https://also-up")
	if !(up < down && down < also) {
		t.Fatalf("context out of order: %q", llm.grounding)
	}
}

func TestAskEmbedsGenerationError(t *testing.T) {
	t.Parallel()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"message":"capacity exceeded"}`)
	}))
	defer upstream.Close()

	llm := mistral_provider.NewClient("key", upstream.URL, "mistral-small-latest", 0.2, 256, 5*time.Second)
	p := NewPipeline(fakeSearcher{results: urlResults("https://a")}, &fakeScraper{}, llm, 3, newTestTelemetry(t))

	res, err := p.Ask(context.Background(), "will it fail")
	if err != nil {
		t.Fatalf("Ask must not fail on generation errors: %v", err)
	}
	if !strings.Contains(res.Answer, "[Mistral API Error] 503") {
		t.Fatalf("expected 503 error marker, got %q", res.Answer)
	}
	if len(res.Sources) != 1 {
		t.Fatalf("sources should survive a generation failure, got %v", res.Sources)
	}
}

func TestAskSearchUnavailable(t *testing.T) {
	t.Parallel()
	p := NewPipeline(fakeSearcher{err: errors.New("dial tcp: connection refused")}, &fakeScraper{}, &fakeLLM{}, 3, newTestTelemetry(t))

	_, err := p.Ask(context.Background(), "anything")
	if !errors.Is(err, ErrSearchUnavailable) {
		t.Fatalf("expected ErrSearchUnavailable, got %v", err)
	}
}

func TestAskEmptyQuery(t *testing.T) {
	t.Parallel()
	p := NewPipeline(fakeSearcher{}, &fakeScraper{}, &fakeLLM{}, 3, newTestTelemetry(t))

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := p.Ask(context.Background(), q); !errors.Is(err, ErrEmptyQuery) {
			t.Fatalf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}
}
