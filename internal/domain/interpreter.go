package domain

import (
	"strings"
)

// signatureSegmentPrefix marks pipe-delimited segments carrying a label
// signature; they are dropped before parsing.
const signatureSegmentPrefix = "SIG-"

// skuSegmentPrefix marks a pipe-delimited segment carrying SKU metadata.
const skuSegmentPrefix = "SKU"

// tryParse is one step of the interpretation cascade.
type tryParse func(target string) (*ParsedScanCode, bool)

// Interpreter turns raw scanned strings into ParsedScanCodes through a
// priority-ordered cascade of format-specific sub-parsers. It holds no
// mutable state; Interpret is safe for concurrent use.
type Interpreter struct {
	parsers []tryParse
}

// NewInterpreter creates an interpreter with the standard cascade:
// structured payload, query parameters, bundle code, bare order number.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		parsers: []tryParse{
			tryParsePayload,
			tryParseQuery,
			tryParseBundleCode,
			tryParseBareOrder,
		},
	}
}

// Interpret parses a raw scanned string. It never fails with an error:
// input that matches no known format yields a result with Recognized=false,
// the raw string echoed as ScanCode, and a best-effort quantity from the
// first digit run in the text.
func (i *Interpreter) Interpret(raw string) *ParsedScanCode {
	target, skuNo := preprocess(raw)

	for _, parse := range i.parsers {
		if p, ok := parse(target); ok {
			if p.SkuNo == "" {
				p.SkuNo = skuNo
			}
			return p
		}
	}

	return &ParsedScanCode{
		ScanCode:   raw,
		Quantity:   firstDigitRun(raw),
		SkuNo:      skuNo,
		Recognized: false,
		Source:     SourceNone,
	}
}

// preprocess trims the input and unwraps pipe-delimited multi-segment
// labels: signature segments are dropped, a SKU segment is captured as
// metadata, and the first remaining segment becomes the parse target.
// JSON-looking input is left intact since "|" may appear inside payloads.
func preprocess(raw string) (target, skuNo string) {
	target = strings.TrimSpace(raw)

	if !strings.Contains(target, "|") ||
		strings.HasPrefix(target, "{") || strings.HasPrefix(target, "[") {
		return target, ""
	}

	var first string
	for _, segment := range strings.Split(target, "|") {
		segment = strings.TrimSpace(segment)
		if segment == "" || strings.HasPrefix(segment, signatureSegmentPrefix) {
			continue
		}
		if strings.HasPrefix(segment, skuSegmentPrefix) {
			if skuNo == "" {
				skuNo = segment
			}
			continue
		}
		if first == "" {
			first = segment
		}
	}

	if first == "" {
		return target, skuNo
	}
	return first, skuNo
}
