package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/webrag/config"
	"github.com/mohammad-safakhou/webrag/internal/rag"
	"github.com/mohammad-safakhou/webrag/internal/telemetry"
	"github.com/mohammad-safakhou/webrag/provider"
	"github.com/mohammad-safakhou/webrag/tools/web_scrape"
	"github.com/mohammad-safakhou/webrag/tools/web_search"
)

func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"detail": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Shared dependencies (top-level DI)
	tele := telemetry.NewTelemetry(cfg.Telemetry, nil)

	searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.BaseURL, cfg.Search.APIKey)
	if err != nil {
		return err
	}
	scraper, err := web_scrape.NewWebScraper(web_scrape.FetcherType(cfg.Scrape.Fetcher), cfg.Scrape.Timeout, cfg.Scrape.MaxChars)
	if err != nil {
		return err
	}
	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return err
	}

	pipeline := rag.NewPipeline(searcher, scraper, llm, cfg.Search.MaxResults, tele)

	ah := &AskHandler{Pipeline: pipeline, Logger: baseLogger}
	ah.Register(e)
	mh := &MCPHandler{Logger: log.New(log.Writer(), "[MCP] ", log.LstdFlags)}
	mh.Register(e)

	return e.Start(cfg.Server.Address)
}
