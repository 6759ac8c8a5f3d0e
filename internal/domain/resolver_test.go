package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *OrderSnapshot {
	return &OrderSnapshot{
		OrderNo: "PO20260122001",
		StyleNo: "ST001",
		ProcessNodes: []ProcessNode{
			{Name: "ironing", UnitPrice: 0.8, SortOrder: 30, ProgressStage: "finishing"},
			{Name: "cutting", UnitPrice: 0.5, SortOrder: 10, ProgressStage: "production"},
			{Name: "sewing", UnitPrice: 1.2, SortOrder: 20, ProgressStage: "production"},
			{Name: "warehousing", UnitPrice: 0, SortOrder: 40, ProgressStage: "finishing"},
		},
		Lines: []OrderLine{
			{Color: "黑色", Size: "L", Quantity: 120},
			{Color: "白色", Size: "M", Quantity: 80},
		},
		ScannedByBundle: map[string][]string{
			"01": {"cutting"},
			"02": {"cutting", "sewing", "ironing", "warehousing"},
		},
	}
}

func newTestResolver(guard ScanGuard) *StageResolver {
	return NewStageResolver(StageResolverConfig{ReplayGuard: guard})
}

func TestResolve_BundleAdvancesToNextRemainingStep(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", BundleNo: "01", Quantity: 50}

	decision, err := r.Resolve(ModeBundle, parsed, testSnapshot(), ResolveOptions{})

	require.NoError(t, err)
	assert.Equal(t, "sewing", decision.ProcessName, "cutting is done, sewing is next by sort order")
	assert.Equal(t, "production", decision.ProgressStage)
	assert.Equal(t, 50, decision.Quantity)
	assert.Equal(t, 1.2, decision.UnitPrice)
	assert.False(t, decision.Blocked())
	assert.Equal(t, []string{"cutting"}, decision.ScannedProcessNames)
	assert.Equal(t, []string{"cutting", "sewing", "ironing", "warehousing"}, decision.AllProcessNames)
}

func TestResolve_BundleWithoutOrderContext(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	parsed := &ParsedScanCode{BundleNo: "01", Quantity: 50}

	_, err := r.Resolve(ModeBundle, parsed, testSnapshot(), ResolveOptions{})

	assert.ErrorIs(t, err, ErrMissingOrderContext)
}

func TestResolve_BundleCompletionIsTerminal(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", BundleNo: "02", Quantity: 50}

	decision, err := r.Resolve(ModeBundle, parsed, testSnapshot(), ResolveOptions{})

	require.NoError(t, err)
	assert.True(t, decision.IsCompleted)
	assert.True(t, decision.Blocked())
	assert.Empty(t, decision.ProcessName)
	assert.NotEmpty(t, decision.Hint)

	// A repeat resolution stays terminal: completion never rolls back.
	again, err := r.Resolve(ModeBundle, parsed, testSnapshot(), ResolveOptions{})
	require.NoError(t, err)
	assert.True(t, again.IsCompleted)
}

func TestResolve_BundleReplaySuppressed(t *testing.T) {
	guard := NewMemoryScanGuard()
	r := newTestResolver(guard)
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", BundleNo: "01", Quantity: 50}

	guard.MarkRecent("PO20260122001|01|sewing", SubmitTTL)

	decision, err := r.Resolve(ModeBundle, parsed, testSnapshot(), ResolveOptions{})

	require.NoError(t, err)
	assert.True(t, decision.IsDuplicate)
	assert.True(t, decision.Blocked())
	assert.Equal(t, "sewing", decision.ProcessName)
}

func TestResolve_OrderDefersToProcurement(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	snapshot := testSnapshot()
	snapshot.ActiveStageName = "procurement"
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", IsOrderQR: true}

	decision, err := r.Resolve(ModeOrder, parsed, snapshot, ResolveOptions{})

	require.NoError(t, err)
	assert.True(t, decision.DeferToProcurement)
	assert.True(t, decision.Blocked())
}

func TestResolve_OrderFullyProcessed(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	snapshot := testSnapshot()
	snapshot.OverallProgress = 100
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", IsOrderQR: true}

	decision, err := r.Resolve(ModeOrder, parsed, snapshot, ResolveOptions{})

	require.NoError(t, err)
	assert.True(t, decision.IsCompleted)
}

func TestResolve_OrderUsesActiveStage(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	snapshot := testSnapshot()
	snapshot.ActiveStageName = "sewing"
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", IsOrderQR: true, Quantity: 10}

	decision, err := r.Resolve(ModeOrder, parsed, snapshot, ResolveOptions{})

	require.NoError(t, err)
	assert.Equal(t, "sewing", decision.ProcessName)
	assert.Equal(t, 10, decision.Quantity)
}

func TestResolve_OrderNegativeProgressClamped(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	snapshot := testSnapshot()
	snapshot.OverallProgress = -30
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", IsOrderQR: true, Quantity: 10}

	decision, err := r.Resolve(ModeOrder, parsed, snapshot, ResolveOptions{})

	require.NoError(t, err)
	assert.Equal(t, "cutting", decision.ProcessName, "corrupt progress falls back to the first step")
}

func TestResolve_SKUQuantityFromParsedCode(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", Color: "黑色", Size: "L", Quantity: 30, IsSkuQR: true}

	decision, err := r.Resolve(ModeSKU, parsed, testSnapshot(), ResolveOptions{})

	require.NoError(t, err)
	assert.Equal(t, 30, decision.Quantity)
}

func TestResolve_SKUQuantityFromOrderLine(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", Color: "黑色", Size: "L", IsSkuQR: true}

	decision, err := r.Resolve(ModeSKU, parsed, testSnapshot(), ResolveOptions{})

	require.NoError(t, err)
	assert.Equal(t, 120, decision.Quantity, "quantity falls back to the matching order line")
}

func TestResolve_SKUWithoutAnyQuantity(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", Color: "红色", Size: "S", IsSkuQR: true}

	_, err := r.Resolve(ModeSKU, parsed, testSnapshot(), ResolveOptions{})

	assert.ErrorIs(t, err, ErrManualQuantityRequired)
}

func TestResolve_ManualOverrideMergesKnownProcess(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", BundleNo: "01", Quantity: 50}

	decision, err := r.Resolve(ModeBundle, parsed, testSnapshot(), ResolveOptions{ProcessOverride: "ironing"})

	require.NoError(t, err)
	assert.Equal(t, "ironing", decision.ProcessName)
	assert.Equal(t, 0.8, decision.UnitPrice)
}

func TestResolve_ManualOverrideIgnoresUnknownProcess(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", BundleNo: "01", Quantity: 50}

	decision, err := r.Resolve(ModeBundle, parsed, testSnapshot(), ResolveOptions{ProcessOverride: "embroidery"})

	require.NoError(t, err)
	assert.Equal(t, "sewing", decision.ProcessName)
}

func TestResolve_WarehousingHandoffFlagged(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	snapshot := testSnapshot()
	snapshot.ScannedByBundle["03"] = []string{"cutting", "sewing", "ironing"}
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", BundleNo: "03", Quantity: 50}

	decision, err := r.Resolve(ModeBundle, parsed, snapshot, ResolveOptions{})

	require.NoError(t, err)
	assert.Equal(t, "warehousing", decision.ProcessName)
	assert.True(t, decision.IsHandoff)
}

func TestResolve_MissingSnapshot(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	parsed := &ParsedScanCode{OrderNo: "PO20260122001", BundleNo: "01"}

	_, err := r.Resolve(ModeBundle, parsed, nil, ResolveOptions{})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = r.Resolve(ModeBundle, parsed, &OrderSnapshot{OrderNo: "PO20260122001"}, ResolveOptions{})
	assert.ErrorIs(t, err, ErrNoWorkflowConfigured)
}

func TestResolve_PatternRecordsFirstStep(t *testing.T) {
	r := newTestResolver(NewMemoryScanGuard())
	parsed := &ParsedScanCode{PatternID: "PAT-889", IsPatternQR: true, Quantity: 2}

	decision, err := r.Resolve(ModePattern, parsed, testSnapshot(), ResolveOptions{})

	require.NoError(t, err)
	assert.Equal(t, "cutting", decision.ProcessName)
	assert.Equal(t, 2, decision.Quantity)
}
