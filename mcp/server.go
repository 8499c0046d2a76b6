// mcp/server.go
// Minimal MCP stdio server exposing stateless tools.
// The RAG pipeline and its web tools are constructed once at startup;
// tools operate only on explicit inputs.
//
// Start: `go run mcp/server.go`
// Clients connect via stdio JSON-RPC: "tools/list" and "tools/call".

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mohammad-safakhou/webrag/config"
	"github.com/mohammad-safakhou/webrag/internal/rag"
	"github.com/mohammad-safakhou/webrag/internal/telemetry"
	"github.com/mohammad-safakhou/webrag/provider"
	"github.com/mohammad-safakhou/webrag/tools/web_scrape"
	"github.com/mohammad-safakhou/webrag/tools/web_search"
)

// ---------- JSON-RPC skeleton ----------

type rpcReq struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      any                    `json:"id"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params"`
}
type rpcResp struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      any                    `json:"id"`
	Result  map[string]interface{} `json:"result,omitempty"`
	Error   *rpcError              `json:"error,omitempty"`
}
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeResp(w io.Writer, id any, result map[string]interface{}, err error) {
	resp := rpcResp{JSONRPC: "2.0", ID: id}
	if err != nil {
		resp.Error = &rpcError{Code: -32000, Message: err.Error()}
	} else {
		resp.Result = result
	}
	enc := json.NewEncoder(w)
	_ = enc.Encode(resp)
}

// ---------- Tool registry ----------

// ToolDesc describes a single MCP tool, including input schema.
type ToolDesc struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// MCPServer holds the shared deps.
type MCPServer struct {
	Searcher web_search.WebSearcher
	Scraper  web_scrape.WebScraper
	Pipeline *rag.Pipeline

	DefaultTimeout time.Duration

	// cached tool descriptors
	tools []ToolDesc
}

// NewMCPServer wires dependencies once.
func NewMCPServer(cfgPath string) (*MCPServer, error) {
	cfg := config.LoadConfig(cfgPath)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.BaseURL, cfg.Search.APIKey)
	if err != nil {
		return nil, fmt.Errorf("searcher: %w", err)
	}
	scraper, err := web_scrape.NewWebScraper(web_scrape.FetcherType(cfg.Scrape.Fetcher), cfg.Scrape.Timeout, cfg.Scrape.MaxChars)
	if err != nil {
		return nil, fmt.Errorf("scraper: %w", err)
	}
	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("provider: %w", err)
	}
	tele := telemetry.NewTelemetry(cfg.Telemetry, nil)

	srv := &MCPServer{
		Searcher:       searcher,
		Scraper:        scraper,
		Pipeline:       rag.NewPipeline(searcher, scraper, llm, cfg.Search.MaxResults, tele),
		DefaultTimeout: 60 * time.Second,
	}
	srv.initTools()
	return srv, nil
}

// initTools defines schemas and descriptions surfaced to MCP clients.
func (srv *MCPServer) initTools() {
	srv.tools = []ToolDesc{
		{
			Name:        "web.search",
			Description: "Search the web via the configured provider.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{"type": "string"},
					"k":     map[string]any{"type": "integer", "minimum": 1, "maximum": 25},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "web.scrape",
			Description: "Fetch a URL and extract a bounded plain-text excerpt.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{"type": "string"},
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        "rag.ask",
			Description: "Answer a question grounded in scraped web search results.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{"type": "string"},
				},
				"required": []string{"query"},
			},
		},
	}
}

// callTool dispatches to handler functions.
func (srv *MCPServer) callTool(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case "web.search":
		return srv.tWebSearch(ctx, args)
	case "web.scrape":
		return srv.tWebScrape(ctx, args)
	case "rag.ask":
		return srv.tAsk(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// ---------- Tool handlers ----------

// tWebSearch runs one search query; returns a normalized result list.
func (srv *MCPServer) tWebSearch(ctx context.Context, args map[string]any) (map[string]any, error) {
	q := str(args["query"])
	if q == "" {
		return nil, errors.New("query is required")
	}
	k := clampInt(asInt(args["k"]), 1, 25)

	results, err := srv.Searcher.Discover(ctx, q, k)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(results))
	for _, r := range results {
		out = append(out, map[string]any{"title": r.Title, "url": r.URL, "snippet": r.Snippet})
	}
	return map[string]any{"results": out}, nil
}

// tWebScrape extracts a bounded excerpt; failures arrive as error-marker
// text, never as a tool error.
func (srv *MCPServer) tWebScrape(ctx context.Context, args map[string]any) (map[string]any, error) {
	url := str(args["url"])
	if url == "" {
		return nil, errors.New("url is required")
	}
	ex := srv.Scraper.Scrape(ctx, url)
	return map[string]any{
		"url":    ex.URL,
		"title":  ex.Title,
		"text":   ex.Text,
		"failed": ex.Failed,
	}, nil
}

// tAsk runs the full pipeline for one question.
func (srv *MCPServer) tAsk(ctx context.Context, args map[string]any) (map[string]any, error) {
	q := str(args["query"])
	if q == "" {
		return nil, errors.New("query is required")
	}
	res, err := srv.Pipeline.Ask(ctx, q)
	if err != nil {
		return nil, err
	}
	return map[string]any{"answer": res.Answer, "sources": res.Sources}, nil
}

// ---------- helpers ----------

func str(v any) string { s, _ := v.(string); return s }
func asInt(v any) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case int:
		return x
	case json.Number:
		i, _ := x.Int64()
		return int(i)
	default:
		return 0
	}
}
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ---------- stdio loop ----------

// Serve runs a simple stdio JSON-RPC loop for MCP. Frames are
// newline-delimited JSON; a malformed line is dropped on its own, it never
// poisons the frames after it.
func (srv *MCPServer) Serve(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var req rpcReq
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("skipping malformed frame: %v", err)
			continue
		}

		switch req.Method {
		case "tools/list":
			writeResp(out, req.ID, map[string]any{"tools": srv.tools}, nil)

		case "tools/call":
			name := ""
			args := map[string]any{}
			if v, ok := req.Params["name"].(string); ok {
				name = v
			}
			if m, ok := req.Params["arguments"].(map[string]any); ok {
				args = m
			}
			// Per-call timeout to avoid stuck handlers
			ctx, cancel := context.WithTimeout(context.Background(), srv.DefaultTimeout)
			res, err := srv.callTool(ctx, name, args)
			cancel()
			writeResp(out, req.ID, res, err)

		default:
			writeResp(out, req.ID, nil, fmt.Errorf("unknown method: %s", req.Method))
		}
	}
	return sc.Err()
}

func main() {
	srv, err := NewMCPServer(os.Getenv("WEBRAG_CONFIG"))
	if err != nil {
		log.Fatalf("mcp server init: %v", err)
	}
	if err := srv.Serve(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("mcp server exited: %v", err)
	}
}
