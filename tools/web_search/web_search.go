package web_search

import (
	"context"

	"github.com/mohammad-safakhou/webrag/tools/web_search/brave"
	"github.com/mohammad-safakhou/webrag/tools/web_search/models"
	"github.com/mohammad-safakhou/webrag/tools/web_search/searxng"
)

type WebSearcher interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	SearxngProvider Provider = "searxng"
	BraveProvider   Provider = "brave"
)

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

var ErrUnsupportedProvider = &Error{"unsupported provider"}

func NewWebSearcher(provider Provider, baseURL, apiKey string) (WebSearcher, error) {
	switch provider {
	case SearxngProvider:
		return searxng.Search{BaseURL: baseURL}, nil
	case BraveProvider:
		return brave.Search{ApiKey: apiKey}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
