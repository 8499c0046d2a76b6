package config

import (
	"testing"
	"time"
)

func TestSearchConfigValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cfg     SearchConfig
		wantErr bool
	}{
		{"searxng with base url", SearchConfig{Provider: "searxng", BaseURL: "http://searxng:8080", MaxResults: 3}, false},
		{"searxng without base url", SearchConfig{Provider: "searxng", MaxResults: 3}, true},
		{"brave with key", SearchConfig{Provider: "brave", APIKey: "k", MaxResults: 3}, false},
		{"brave without key", SearchConfig{Provider: "brave", MaxResults: 3}, true},
		{"unknown provider", SearchConfig{Provider: "duckduckgo", MaxResults: 3}, true},
		{"zero max results", SearchConfig{Provider: "searxng", BaseURL: "x", MaxResults: 0}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScrapeConfigValidate(t *testing.T) {
	t.Parallel()
	good := ScrapeConfig{Fetcher: "http", Timeout: 5 * time.Second, MaxChars: 2000}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	for _, bad := range []ScrapeConfig{
		{Fetcher: "wget", Timeout: time.Second, MaxChars: 100},
		{Fetcher: "http", Timeout: 0, MaxChars: 100},
		{Fetcher: "chromedp", Timeout: time.Second, MaxChars: 0},
	} {
		if err := bad.Validate(); err == nil {
			t.Fatalf("expected error for %+v", bad)
		}
	}
}

// An absent API key must pass validation: it surfaces as an error-marker
// answer at request time instead of a startup crash.
func TestLLMConfigValidateMissingKey(t *testing.T) {
	t.Parallel()
	cfg := LLMConfig{Provider: "mistral", Model: "mistral-small-latest"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	if err := (LLMConfig{Provider: "openai", Model: "x"}).Validate(); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
	if err := (LLMConfig{Provider: "mistral"}).Validate(); err == nil {
		t.Fatal("expected error for missing model")
	}
}
