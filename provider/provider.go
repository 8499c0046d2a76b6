package provider

import (
	"context"
	"errors"

	"github.com/mohammad-safakhou/webrag/config"
	mistral_provider "github.com/mohammad-safakhou/webrag/provider/mistral"
)

// Client represents different LLM providers
type Client string

const (
	Mistral Client = "mistral"
)

// Provider is the interface that all LLM implementations must satisfy.
// Answer sends one completion request grounding the question in the given
// context text and returns the generated answer.
type Provider interface {
	Answer(ctx context.Context, question string, grounding string) (string, error)
}

// GenerationError is an upstream completion failure that callers are
// expected to surface as a visible answer string, not as a request
// failure. Marker returns that string.
type GenerationError interface {
	error
	Marker() string
}

// NewProvider creates a new LLM client from configuration. Credentials are
// passed in here once at startup; a missing key is not fatal and shows up
// as an error-marker answer at request time.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Provider) {
	case Mistral:
		return mistral_provider.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens, cfg.Timeout), nil
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
