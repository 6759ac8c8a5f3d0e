package domain

import (
	"regexp"
)

// bareOrderPattern matches printed order numbers: a PO (production order)
// or MO (manufacturing order) prefix followed by at least 8 alphanumerics.
var bareOrderPattern = regexp.MustCompile(`^(PO|MO)[A-Za-z0-9]{8,}$`)

// tryParseBareOrder matches a bare order number, tolerating embedded
// "-"/"_" separators from hand-formatted labels.
func tryParseBareOrder(target string) (*ParsedScanCode, bool) {
	candidate := target
	if !bareOrderPattern.MatchString(candidate) {
		candidate = stripOrderSeparators(target)
		if !bareOrderPattern.MatchString(candidate) {
			return nil, false
		}
	}

	return &ParsedScanCode{
		ScanCode:   candidate,
		OrderNo:    candidate,
		IsOrderQR:  true,
		Recognized: true,
		Source:     SourceOrder,
	}, true
}
