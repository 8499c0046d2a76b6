package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mohammad-safakhou/webrag/tools/web_search/models"
	"github.com/mohammad-safakhou/webrag/utils"
)

type Search struct {
	BaseURL string // e.g. http://searxng:8080
}

func (s Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://docs.searxng.org/dev/search_api.html
	url := fmt.Sprintf("%s/search?q=%s&format=json", strings.TrimRight(s.BaseURL, "/"), utils.UrlQuery(q))
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searxng returned status %d", resp.StatusCode)
	}
	var raw struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Snippet string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	var out []models.Result
	for i, r := range raw.Results {
		if k > 0 && i >= k {
			break
		}
		out = append(out, models.Result{Title: r.Title, URL: r.URL, Snippet: r.Snippet})
	}
	return out, nil
}
