package models

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"under the cap", "short", 10, "short"},
		{"exactly at the cap", "12345", 5, "12345"},
		{"ascii over the cap", "abcdef", 4, "abcd"},
		{"multibyte over the cap", "日本語テキスト", 3, "日本語"},
		{"zero cap means unbounded", "anything", 0, "anything"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	t.Parallel()
	in := strings.Repeat("héllo wörld ", 50)
	for _, max := range []int{1, 7, 100, 250} {
		out := Truncate(in, max)
		if !utf8.ValidString(out) {
			t.Fatalf("max %d: invalid UTF-8 in %q", max, out)
		}
		if got := utf8.RuneCountInString(out); got != max {
			t.Fatalf("max %d: got %d characters", max, got)
		}
	}
}
