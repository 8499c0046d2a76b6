package rag

import (
	"strings"

	"github.com/mohammad-safakhou/webrag/tools/web_scrape/models"
)

// AssembleContext joins excerpt texts with a blank line between each,
// preserving input order. Error-marker excerpts are included as-is: a bad
// source degrades the context, it never aborts assembly. Pure function.
func AssembleContext(excerpts []models.Excerpt) string {
	parts := make([]string, 0, len(excerpts))
	for _, e := range excerpts {
		parts = append(parts, e.Text)
	}
	return strings.Join(parts, "\n\n")
}
