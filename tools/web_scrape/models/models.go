package models

import (
	"fmt"
	"unicode/utf8"
)

// ScrapeErrorPrefix marks excerpt text that carries a failure instead of
// page content. Kept stable: callers grep for it.
const ScrapeErrorPrefix = "[Scraping Error]"

// Excerpt is the bounded plain-text extract of one web page, or a visible
// error marker when extraction failed. One Excerpt per URL per request.
type Excerpt struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Text   string `json:"text"`
	Failed bool   `json:"failed"`
}

// Truncate caps s at max characters. The cap counts runes, not bytes, so
// multibyte pages keep their full budget and the cut never splits a rune.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// ErrorExcerpt converts a per-URL failure into excerpt data so a single bad
// source never aborts the request.
func ErrorExcerpt(url string, cause error) Excerpt {
	return Excerpt{
		URL:    url,
		Text:   fmt.Sprintf("%s %v", ScrapeErrorPrefix, cause),
		Failed: true,
	}
}
