package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/webrag/internal/rag"
)

type AskHandler struct {
	Pipeline *rag.Pipeline
	Logger   *log.Logger
}

func (h *AskHandler) Register(e *echo.Echo) {
	e.GET("/ask", h.ask)
}

// ask runs the retrieval-augmented pipeline for one query. Upstream
// failures never surface as 5xx here: search outages degrade to a 200
// response carrying an error-marker answer and no sources, and generation
// failures arrive already embedded in the answer string.
func (h *AskHandler) ask(c echo.Context) error {
	q := c.QueryParam("q")
	if strings.TrimSpace(q) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	res, err := h.Pipeline.Ask(c.Request().Context(), q)
	if err != nil {
		if errors.Is(err, rag.ErrSearchUnavailable) {
			h.Logger.Printf("ask degraded, search unavailable: %v", err)
			return c.JSON(http.StatusOK, rag.Result{
				Answer:  fmt.Sprintf("%s %v", rag.SearchErrorPrefix, err),
				Sources: []string{},
			})
		}
		if errors.Is(err, rag.ErrEmptyQuery) {
			return echo.NewHTTPError(http.StatusBadRequest, "q is required")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
