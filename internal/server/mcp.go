package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/webrag/internal/mcp"
)

type MCPHandler struct {
	Logger *log.Logger
}

func (h *MCPHandler) Register(e *echo.Echo) {
	e.POST("/mcp", h.handle)
}

// handle accepts an MCP envelope and returns the response envelope.
// Missing content is a 400, anything unexpected a 500; the Recover
// middleware guarantees a malformed request cannot take the process down.
func (h *MCPHandler) handle(c echo.Context) error {
	var req map[string]any
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	env, err := mcp.Handle(req)
	if err != nil {
		if errors.Is(err, mcp.ErrMissingContent) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.Logger.Printf("mcp handling failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, env)
}
