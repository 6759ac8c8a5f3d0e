package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// Alias tables for generic field extraction from structured payloads and
// query-parameter codes. Order matters: the first present alias wins.
var (
	orderNoAliases   = []string{"orderNo", "order_no", "orderNumber", "order", "po"}
	orderIDAliases   = []string{"orderId", "order_id", "oid"}
	styleNoAliases   = []string{"styleNo", "style_no", "styleNumber", "style"}
	colorAliases     = []string{"color", "colour", "colorName"}
	sizeAliases      = []string{"size", "sizeName", "spec"}
	bundleNoAliases  = []string{"bundleNo", "bundle_no", "bundle", "packageNo", "bedNo"}
	skuNoAliases     = []string{"skuNo", "sku_no", "sku"}
	quantityAliases  = []string{"quantity", "qty", "num", "count"}
	scanCodeAliases  = []string{"scanCode", "scan_code", "code", "qrCode"}
	patternIDAliases = []string{"patternId", "pattern_id", "patternNo", "pattern_no"}
	typeAliases      = []string{"type", "qrType", "qr_type"}
)

// resolveString returns the first present, non-absent alias value as a
// trimmed string. The literals "null" and "undefined" (any case) count as
// absent; so do empty strings.
func resolveString(m map[string]any, aliases []string) string {
	for _, key := range aliases {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		s := stringifyValue(v)
		if s == "" || isAbsentLiteral(s) {
			continue
		}
		return s
	}
	return ""
}

// resolveQuantity returns the first alias value that parses as a positive
// integer, or 0 when no alias yields one.
func resolveQuantity(m map[string]any, aliases []string) int {
	for _, key := range aliases {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		if n, ok := positiveInt(stringifyValue(v)); ok {
			return n
		}
	}
	return 0
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		// JSON numbers decode as float64; only whole numbers are usable
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return ""
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func isAbsentLiteral(s string) bool {
	switch strings.ToLower(s) {
	case "null", "undefined":
		return true
	}
	return false
}

// positiveInt parses a 1-9 digit decimal string into a positive integer.
// Anything else, including zero, reports absent.
func positiveInt(s string) (int, bool) {
	if len(s) == 0 || len(s) > 9 {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return 0, false
	}
	return n, true
}

// firstDigitRun extracts the first contiguous run of digits from text as a
// best-effort quantity. Returns 0 when the text has no usable digit run.
func firstDigitRun(text string) int {
	start := -1
	for i, r := range text {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if n, ok := positiveInt(text[start:i]); ok {
				return n
			}
			start = -1
		}
	}
	if start >= 0 {
		if n, ok := positiveInt(text[start:]); ok {
			return n
		}
	}
	return 0
}

// stripOrderSeparators removes the separator characters tolerated inside
// printed order numbers.
func stripOrderSeparators(orderNo string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return -1
		}
		return r
	}, orderNo)
}
