package domain

import (
	"encoding/json"
	"strings"
)

// Payload type values recognized as pattern/sample production codes.
var patternTypeValues = map[string]bool{
	"pattern":            true,
	"sample":             true,
	"pattern_production": true,
}

// tryParsePayload decodes a structured JSON payload. Array payloads take
// their first object element. Returns false when the target is not JSON or
// decodes to nothing usable.
func tryParsePayload(target string) (*ParsedScanCode, bool) {
	if !strings.HasPrefix(target, "{") && !strings.HasPrefix(target, "[") {
		return nil, false
	}

	var m map[string]any
	if strings.HasPrefix(target, "[") {
		var list []map[string]any
		if err := json.Unmarshal([]byte(target), &list); err != nil || len(list) == 0 {
			return nil, false
		}
		m = list[0]
	} else if err := json.Unmarshal([]byte(target), &m); err != nil {
		return nil, false
	}

	p, ok := extractFields(target, m)
	if !ok {
		return nil, false
	}
	p.Source = SourcePayload
	return p, true
}

// extractFields applies the payload special cases and the generic alias
// table to a decoded key/value map. Shared by the JSON and query parsers.
func extractFields(target string, m map[string]any) (*ParsedScanCode, bool) {
	p := &ParsedScanCode{
		ScanCode:   target,
		Recognized: true,
	}

	typ := strings.ToLower(resolveString(m, typeAliases))
	patternID := resolveString(m, patternIDAliases)

	switch {
	case typ == "order":
		p.OrderNo = stripOrderSeparators(resolveString(m, orderNoAliases))
		p.OrderID = resolveString(m, orderIDAliases)
		p.IsOrderQR = true
		p.QRType = typ
		if p.OrderNo == "" && p.OrderID == "" {
			return nil, false
		}
		return p, true

	case patternTypeValues[typ], typ == "style" && patternID != "":
		// sample/pattern production code
		p.PatternID = patternID
		p.IsPatternQR = true
		p.QRType = typ
		p.StyleNo = resolveString(m, styleNoAliases)
		p.Quantity = resolveQuantity(m, quantityAliases)
		return p, true
	}

	p.OrderNo = resolveString(m, orderNoAliases)
	p.OrderID = resolveString(m, orderIDAliases)
	p.StyleNo = resolveString(m, styleNoAliases)
	p.Color = resolveString(m, colorAliases)
	p.Size = resolveString(m, sizeAliases)
	p.BundleNo = resolveString(m, bundleNoAliases)
	p.SkuNo = resolveString(m, skuNoAliases)
	p.PatternID = patternID
	p.QRType = typ
	p.Quantity = resolveQuantity(m, quantityAliases)

	// Missing fields may live inside an embedded bundle code.
	embedded := resolveString(m, scanCodeAliases)
	if embedded != "" {
		p.ScanCode = embedded
		if nested, ok := tryParseBundleCode(embedded); ok {
			backfill(p, nested)
		}
	}

	if p.Quantity == 0 {
		p.Quantity = firstDigitRun(target)
	}

	if p.OrderNo != "" {
		p.OrderNo = stripOrderSeparators(p.OrderNo)
	}
	p.IsOrderQR = p.OrderNo != "" && !p.HasBundleTicket() && !p.HasColorSizePair()

	if p.OrderNo == "" && p.PatternID == "" && embedded == "" {
		return nil, false
	}
	return p, true
}

// backfill copies fields from a nested bundle parse into p wherever p has
// no explicit value of its own.
func backfill(p, nested *ParsedScanCode) {
	if p.OrderNo == "" {
		p.OrderNo = nested.OrderNo
	}
	if p.StyleNo == "" {
		p.StyleNo = nested.StyleNo
	}
	if p.Color == "" {
		p.Color = nested.Color
	}
	if p.Size == "" {
		p.Size = nested.Size
	}
	if p.BundleNo == "" {
		p.BundleNo = nested.BundleNo
	}
	if p.Quantity == 0 {
		p.Quantity = nested.Quantity
	}
	if nested.IsSkuQR {
		p.IsSkuQR = true
	}
}
