package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyScanMode(t *testing.T) {
	tests := []struct {
		name   string
		parsed *ParsedScanCode
		want   ScanMode
	}{
		{
			name:   "pattern flag wins over everything",
			parsed: &ParsedScanCode{IsPatternQR: true, OrderNo: "PO20260122001", BundleNo: "01"},
			want:   ModePattern,
		},
		{
			name:   "pattern id without flag",
			parsed: &ParsedScanCode{PatternID: "PAT-889", OrderNo: "PO20260122001"},
			want:   ModePattern,
		},
		{
			name:   "printed pattern prefix",
			parsed: &ParsedScanCode{ScanCode: "PAT20260122001"},
			want:   ModePattern,
		},
		{
			name:   "explicit order flag outranks sku flag",
			parsed: &ParsedScanCode{IsOrderQR: true, IsSkuQR: true, OrderNo: "PO20260122001"},
			want:   ModeOrder,
		},
		{
			name:   "order number alone",
			parsed: &ParsedScanCode{OrderNo: "PO20260122001"},
			want:   ModeOrder,
		},
		{
			name:   "order number with bundle ticket is not order mode",
			parsed: &ParsedScanCode{OrderNo: "PO20260122001", BundleNo: "01"},
			want:   ModeBundle,
		},
		{
			name:   "sku flag set",
			parsed: &ParsedScanCode{OrderNo: "PO20260122001", Color: "黑色", Size: "L", IsSkuQR: true},
			want:   ModeSKU,
		},
		{
			name:   "nothing distinctive defaults to bundle",
			parsed: &ParsedScanCode{ScanCode: "misc"},
			want:   ModeBundle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyScanMode(tt.parsed))
		})
	}
}

func TestParsedScanCode_Predicates(t *testing.T) {
	p := &ParsedScanCode{Color: "黑色", Size: "L", BundleNo: "01"}
	assert.True(t, p.HasColorSizePair())
	assert.True(t, p.HasBundleTicket())

	assert.False(t, (&ParsedScanCode{Color: "黑色"}).HasColorSizePair())
	assert.False(t, (&ParsedScanCode{}).HasBundleTicket())
}
