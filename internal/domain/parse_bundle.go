package domain

import (
	"strings"
	"unicode/utf8"
)

// skuSizeMaxRunes bounds how long the last tail part may be to count as a
// size in the 2-part SKU-pair rule. Garment sizes (S, M, L, XL, XXXL, 165,
// 170/88A) stay short; color names run longer.
const skuSizeMaxRunes = 4

// tryParseBundleCode parses a dash-delimited cutting-ticket code such as
// "PO20260122001-ST001-黑色-L-50-01". Em and en dashes from label printers
// are normalized to hyphens first.
func tryParseBundleCode(target string) (*ParsedScanCode, bool) {
	normalized := strings.NewReplacer("—", "-", "–", "-").Replace(target)

	var parts []string
	for _, part := range strings.Split(normalized, "-") {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) < 3 {
		return nil, false
	}

	stIdx := -1
	for i, part := range parts {
		if len(part) > 2 && strings.HasPrefix(strings.ToUpper(part), "ST") {
			stIdx = i
			break
		}
	}

	p := &ParsedScanCode{
		ScanCode:   target,
		Recognized: true,
		Source:     SourceBundle,
	}

	if stIdx >= 0 {
		p.StyleNo = parts[stIdx]
		if stIdx > 0 {
			p.OrderNo = parts[stIdx-1]
		} else {
			for _, part := range parts {
				if strings.HasPrefix(strings.ToUpper(part), "PO") {
					p.OrderNo = part
					break
				}
			}
		}
		resolveTail(p, parts[stIdx+1:])
		if p.OrderNo == "" && p.StyleNo == "" {
			return nil, false
		}
		return p, true
	}

	// No style marker: only the strict 6-part positional layout is trusted.
	if len(parts) >= 6 {
		p.OrderNo = parts[0]
		p.StyleNo = parts[1]
		p.Color = parts[2]
		p.Size = parts[3]
		if n, ok := positiveInt(parts[4]); ok {
			p.Quantity = n
		}
		p.BundleNo = parts[5]
		return p, true
	}

	return nil, false
}

// resolveTail assigns the parts following the style marker to color, size,
// quantity and bundle number.
func resolveTail(p *ParsedScanCode, tail []string) {
	switch {
	case len(tail) >= 3:
		last := tail[len(tail)-1]
		secondLast := tail[len(tail)-2]
		lastN, lastOK := positiveInt(last)
		secondN, secondOK := positiveInt(secondLast)

		switch {
		case lastOK && secondOK:
			// trailing (quantity, bundleNo) pair
			p.Quantity = secondN
			p.BundleNo = last
			p.Size = tail[len(tail)-3]
			p.Color = strings.Join(tail[:len(tail)-3], "-")
		case lastOK:
			p.Quantity = lastN
			p.Size = secondLast
			p.Color = strings.Join(tail[:len(tail)-2], "-")
		default:
			p.Size = last
			p.Color = strings.Join(tail[:len(tail)-1], "-")
		}

	case len(tail) == 2:
		if utf8.RuneCountInString(tail[1]) <= skuSizeMaxRunes {
			p.Color = tail[0]
			p.Size = tail[1]
			p.IsSkuQR = true
		} else {
			p.Color = strings.Join(tail, "-")
		}

	case len(tail) == 1:
		p.Color = tail[0]
	}
}
