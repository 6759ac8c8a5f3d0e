package domain

import (
	"net/url"
	"strings"
)

// tryParseQuery parses a query-parameter style code such as
// "orderNo=PO123&color=黑色&size=L&qty=20". A leading "?" or "#" is
// stripped; percent-escapes are decoded best-effort.
func tryParseQuery(target string) (*ParsedScanCode, bool) {
	stripped := strings.TrimLeft(target, "?#")
	if !strings.Contains(stripped, "=") {
		return nil, false
	}

	m := make(map[string]any)
	for _, pair := range strings.Split(stripped, "&") {
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			continue
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		m[key] = value
	}
	if len(m) == 0 {
		return nil, false
	}

	p, ok := extractFields(target, m)
	if !ok {
		return nil, false
	}
	p.Source = SourceQuery
	return p, true
}
