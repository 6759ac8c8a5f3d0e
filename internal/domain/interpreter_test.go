package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpret_FullBundleCode(t *testing.T) {
	interp := NewInterpreter()

	p := interp.Interpret("PO20260122001-ST001-黑色-L-50-01")

	require.True(t, p.Recognized)
	assert.Equal(t, SourceBundle, p.Source)
	assert.Equal(t, "PO20260122001", p.OrderNo)
	assert.Equal(t, "ST001", p.StyleNo)
	assert.Equal(t, "黑色", p.Color)
	assert.Equal(t, "L", p.Size)
	assert.Equal(t, 50, p.Quantity)
	assert.Equal(t, "01", p.BundleNo)
	assert.Equal(t, ModeBundle, ClassifyScanMode(p))
}

func TestInterpret_SkuPairCode(t *testing.T) {
	interp := NewInterpreter()

	p := interp.Interpret("PO20260122001-ST001-黑色-L")

	require.True(t, p.Recognized)
	assert.Equal(t, "PO20260122001", p.OrderNo)
	assert.Equal(t, "黑色", p.Color)
	assert.Equal(t, "L", p.Size)
	assert.Empty(t, p.BundleNo)
	assert.True(t, p.IsSkuQR)
	assert.Equal(t, ModeSKU, ClassifyScanMode(p))
}

func TestInterpret_BareOrderNumber(t *testing.T) {
	interp := NewInterpreter()

	p := interp.Interpret("PO20260122001")

	require.True(t, p.Recognized)
	assert.Equal(t, SourceOrder, p.Source)
	assert.Equal(t, "PO20260122001", p.OrderNo)
	assert.True(t, p.IsOrderQR)
	assert.Equal(t, ModeOrder, ClassifyScanMode(p))
}

func TestInterpret_BareOrderWithSeparators(t *testing.T) {
	interp := NewInterpreter()

	p := interp.Interpret("MO_2026_01220_01")

	require.True(t, p.Recognized)
	assert.Equal(t, "MO20260122001", p.OrderNo)
}

func TestInterpret_JSONPayloadOutranksBareOrder(t *testing.T) {
	interp := NewInterpreter()

	// The embedded order number alone would match the bare-order parser,
	// but payload parsing must win and pick up the quantity.
	p := interp.Interpret(`{"orderNo":"PO20260122001","qty":20}`)

	require.True(t, p.Recognized)
	assert.Equal(t, SourcePayload, p.Source)
	assert.Equal(t, "PO20260122001", p.OrderNo)
	assert.Equal(t, 20, p.Quantity)
}

func TestInterpret_OrderTypedPayload(t *testing.T) {
	interp := NewInterpreter()

	p := interp.Interpret(`{"type":"order","orderNo":"PO-2026-0122-001","orderId":"64f1"}`)

	require.True(t, p.Recognized)
	assert.Equal(t, "PO20260122001", p.OrderNo, "separators inside printed order numbers are stripped")
	assert.Equal(t, "64f1", p.OrderID)
	assert.True(t, p.IsOrderQR)
	assert.Equal(t, ModeOrder, ClassifyScanMode(p))
}

func TestInterpret_PatternPayload(t *testing.T) {
	interp := NewInterpreter()

	p := interp.Interpret(`{"type":"pattern","patternId":"PAT-889","styleNo":"ST001","qty":2}`)

	require.True(t, p.Recognized)
	assert.True(t, p.IsPatternQR)
	assert.Equal(t, "PAT-889", p.PatternID)
	assert.Equal(t, "ST001", p.StyleNo)
	assert.Equal(t, 2, p.Quantity)
	assert.Equal(t, ModePattern, ClassifyScanMode(p))
}

func TestInterpret_PayloadNullLiteralsAreAbsent(t *testing.T) {
	interp := NewInterpreter()

	p := interp.Interpret(`{"orderNo":"PO20260122001","color":"null","size":"UNDEFINED"}`)

	require.True(t, p.Recognized)
	assert.Empty(t, p.Color)
	assert.Empty(t, p.Size)
	assert.True(t, p.IsOrderQR)
}

func TestInterpret_PayloadWithEmbeddedBundleCode(t *testing.T) {
	interp := NewInterpreter()

	p := interp.Interpret(`{"scanCode":"PO20260122001-ST001-黑色-L-50-01","operator":"w-12"}`)

	require.True(t, p.Recognized)
	assert.Equal(t, "PO20260122001", p.OrderNo)
	assert.Equal(t, "黑色", p.Color)
	assert.Equal(t, "01", p.BundleNo)
	assert.Equal(t, 50, p.Quantity)
}

func TestInterpret_ArrayPayloadTakesFirstElement(t *testing.T) {
	interp := NewInterpreter()

	p := interp.Interpret(`[{"orderNo":"PO20260122001"},{"orderNo":"PO20260122999"}]`)

	require.True(t, p.Recognized)
	assert.Equal(t, "PO20260122001", p.OrderNo)
}

func TestInterpret_QueryParameters(t *testing.T) {
	interp := NewInterpreter()

	p := interp.Interpret("?orderNo=PO20260122001&color=%E9%BB%91%E8%89%B2&size=L&qty=20")

	require.True(t, p.Recognized)
	assert.Equal(t, SourceQuery, p.Source)
	assert.Equal(t, "PO20260122001", p.OrderNo)
	assert.Equal(t, "黑色", p.Color)
	assert.Equal(t, "L", p.Size)
	assert.Equal(t, 20, p.Quantity)
}

func TestInterpret_PipeDelimitedLabel(t *testing.T) {
	interp := NewInterpreter()

	p := interp.Interpret("SIG-a8f3|PO20260122001-ST001-红色-M-30-02|SKU88321")

	require.True(t, p.Recognized)
	assert.Equal(t, "PO20260122001", p.OrderNo)
	assert.Equal(t, "红色", p.Color)
	assert.Equal(t, "M", p.Size)
	assert.Equal(t, 30, p.Quantity)
	assert.Equal(t, "02", p.BundleNo)
	assert.Equal(t, "SKU88321", p.SkuNo)
}

func TestInterpret_DashVariantsNormalized(t *testing.T) {
	interp := NewInterpreter()

	p := interp.Interpret("PO20260122001—ST001—白色—XL—40—03")

	require.True(t, p.Recognized)
	assert.Equal(t, "白色", p.Color)
	assert.Equal(t, "XL", p.Size)
	assert.Equal(t, 40, p.Quantity)
	assert.Equal(t, "03", p.BundleNo)
}

func TestInterpret_UnrecognizedNeverErrors(t *testing.T) {
	interp := NewInterpreter()

	tests := []struct {
		name         string
		raw          string
		wantQuantity int
	}{
		{name: "free text with digit run", raw: "裁剪30件", wantQuantity: 30},
		{name: "punctuation only", raw: "???", wantQuantity: 0},
		{name: "empty string", raw: "", wantQuantity: 0},
		{name: "broken JSON", raw: `{"orderNo":`, wantQuantity: 0},
		{name: "JSON without usable fields", raw: `{"foo":"bar"}`, wantQuantity: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := interp.Interpret(tt.raw)

			assert.False(t, p.Recognized)
			assert.Equal(t, SourceNone, p.Source)
			assert.Equal(t, tt.raw, p.ScanCode)
			assert.Equal(t, tt.wantQuantity, p.Quantity)
		})
	}
}

func TestInterpret_Deterministic(t *testing.T) {
	interp := NewInterpreter()
	raw := "PO20260122001-ST001-黑色-L-50-01"

	first := interp.Interpret(raw)
	second := interp.Interpret(raw)

	assert.Equal(t, first, second)
}
