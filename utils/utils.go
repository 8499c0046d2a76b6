package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// UrlQuery percent-encodes one query-parameter value. Raw interpolation
// would let '#' cut the query short and '&' inject parameters.
func UrlQuery(s string) string { return url.QueryEscape(strings.TrimSpace(s)) }

func Str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
