package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garment-mes/scantrack-service/internal/domain"
	apperrors "github.com/garment-mes/scantrack-service/pkg/errors"
	"github.com/garment-mes/scantrack-service/pkg/events"
	"github.com/garment-mes/scantrack-service/pkg/logging"
	"github.com/garment-mes/scantrack-service/pkg/metrics"
)

type fakeOrderRepo struct {
	snapshots map[string]*domain.OrderSnapshot
}

func (r *fakeOrderRepo) GetOrderSnapshot(_ context.Context, key string) (*domain.OrderSnapshot, error) {
	if s, ok := r.snapshots[key]; ok {
		return s, nil
	}
	return nil, domain.ErrOrderNotFound
}

type fakeGateway struct {
	recordID  string
	err       error
	submitted []*domain.SubmissionPayload
}

func (g *fakeGateway) Submit(_ context.Context, payload *domain.SubmissionPayload) (*domain.SubmissionResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.submitted = append(g.submitted, payload)
	return &domain.SubmissionResult{RecordID: g.recordID}, nil
}

type fakePublisher struct {
	published []*events.Envelope
	err       error
}

func (p *fakePublisher) PublishEvent(_ context.Context, _ string, event *events.Envelope) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

func serviceSnapshot() *domain.OrderSnapshot {
	return &domain.OrderSnapshot{
		OrderNo: "PO20260122001",
		StyleNo: "ST001",
		ProcessNodes: []domain.ProcessNode{
			{Name: "cutting", UnitPrice: 0.5, SortOrder: 10, ProgressStage: "production"},
			{Name: "sewing", UnitPrice: 1.2, SortOrder: 20, ProgressStage: "production"},
			{Name: "warehousing", SortOrder: 30, ProgressStage: "finishing"},
		},
		Lines: []domain.OrderLine{
			{Color: "黑色", Size: "L", Quantity: 120},
		},
		ScannedByBundle: map[string][]string{
			"01": {"cutting"},
			"02": {"cutting", "sewing", "warehousing"},
		},
	}
}

type serviceFixture struct {
	service   *ScanService
	guard     *domain.MemoryScanGuard
	gateway   *fakeGateway
	publisher *fakePublisher
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	guard := domain.NewMemoryScanGuard()
	gateway := &fakeGateway{recordID: "rec-001"}
	publisher := &fakePublisher{}
	logger := logging.New(&logging.Config{ServiceName: "scantrack-test", Level: logging.LevelError})

	service := NewScanService(ScanServiceDeps{
		Interpreter: domain.NewInterpreter(),
		Resolver:    domain.NewStageResolver(domain.StageResolverConfig{ReplayGuard: guard}),
		Guard:       guard,
		Orders:      &fakeOrderRepo{snapshots: map[string]*domain.OrderSnapshot{"PO20260122001": serviceSnapshot()}},
		Gateway:     gateway,
		Precheck:    domain.QuantityPrecheck{},
		Publisher:   publisher,
		Factory:     events.NewFactory("test://scantrack"),
		Metrics:     metrics.New(metrics.DefaultConfig("scantrack-test")),
		Logger:      logger,
	})

	return &serviceFixture{service: service, guard: guard, gateway: gateway, publisher: publisher}
}

func TestSubmitScan_BundleRecorded(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{
		RawCode:    "PO20260122001-ST001-黑色-L-50-01",
		OperatorID: "op-7",
	})

	require.NoError(t, err)
	assert.Equal(t, "rec-001", result.RecordID)
	assert.Equal(t, domain.ModeBundle, result.Mode)
	assert.Equal(t, "sewing", result.ProcessName)
	assert.Equal(t, 50, result.Quantity)
	assert.Contains(t, result.Message, "bundle 01")
	assert.Contains(t, result.Message, "sewing")

	require.Len(t, f.gateway.submitted, 1)
	payload := f.gateway.submitted[0]
	assert.Equal(t, "PO20260122001", payload.OrderNo)
	assert.Equal(t, 1.2, payload.UnitPrice)
	assert.Equal(t, "op-7", payload.OperatorID)
}

func TestSubmitScan_RepeatScanSuppressed(t *testing.T) {
	f := newFixture(t)
	cmd := SubmitScanCommand{RawCode: "PO20260122001-ST001-黑色-L-50-01", OperatorID: "op-7"}

	_, err := f.service.SubmitScan(context.Background(), cmd)
	require.NoError(t, err)

	_, err = f.service.SubmitScan(context.Background(), cmd)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeDuplicateScan, appErr.Code)
	assert.Len(t, f.gateway.submitted, 1, "second trigger never reaches the gateway")
}

func TestSubmitScan_CompletedBundleInformational(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{
		RawCode:    "PO20260122001-ST001-黑色-L-50-02",
		OperatorID: "op-7",
	})

	require.NoError(t, err, "a finished ticket is an outcome, not a failure")
	assert.True(t, result.Completed)
	assert.Empty(t, result.RecordID)
	assert.Contains(t, result.Message, "already recorded")
	assert.Equal(t, []string{"cutting", "sewing", "warehousing"}, result.ScannedProcesses)
	assert.Empty(t, f.gateway.submitted)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.TypeScanRejected, f.publisher.published[0].Type)
}

func TestSubmitScan_StageReplayInformational(t *testing.T) {
	f := newFixture(t)
	f.guard.MarkRecent("PO20260122001|01|sewing", domain.SubmitTTL)

	result, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{
		RawCode:    "PO20260122001-ST001-黑色-L-50-01",
		OperatorID: "op-7",
	})

	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Equal(t, "sewing", result.ProcessName)
	assert.Empty(t, f.gateway.submitted)
}

func TestSubmitScan_PrecheckAdvisoryAppended(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{
		RawCode:        "PO20260122001-ST001-黑色-L-50-01",
		ManualQuantity: 200,
	})

	require.NoError(t, err)
	assert.Contains(t, result.Message, "quantity exceeds order line")

	require.Len(t, f.gateway.submitted, 1)
	assert.Equal(t, 200, f.gateway.submitted[0].Quantity, "advisory never alters the payload")
}

func TestSubmitScan_UnrecognizedCode(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{RawCode: "裁剪30件", OperatorID: "op-7"})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUnrecognizedScan, appErr.Code)
	assert.Equal(t, "30", appErr.Details["suggestedQuantity"])

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.TypeScanRejected, f.publisher.published[0].Type)
}

func TestSubmitScan_UnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{RawCode: "PO99999999999", OperatorID: "op-7"})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestSubmitScan_GatewayNotAcknowledging(t *testing.T) {
	f := newFixture(t)
	f.gateway.recordID = ""

	_, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{RawCode: "PO20260122001-ST001-黑色-L-50-01"})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeGatewayUnavailable, appErr.Code)
}

func TestSubmitScan_GatewayTransportErrorMapped(t *testing.T) {
	f := newFixture(t)
	f.gateway.err = errors.New("dial tcp: connection refused")

	_, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{RawCode: "PO20260122001-ST001-黑色-L-50-01"})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeGatewayUnavailable, appErr.Code)
	assert.NotContains(t, appErr.Message, "dial tcp", "raw network error stays off the terminal")
}

func TestSubmitScan_ManualQuantityOverride(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{
		RawCode:        "PO20260122001-ST001-黑色-L-50-01",
		ManualQuantity: 35,
	})

	require.NoError(t, err)
	assert.Equal(t, 35, result.Quantity)
}

func TestSubmitScan_SKUQuantityFromOrderLine(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{
		RawCode: "PO20260122001-ST001-黑色-L",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ModeSKU, result.Mode)
	assert.Equal(t, 120, result.Quantity)
	assert.Contains(t, result.Message, "黑色/L")
}

func TestSubmitScan_PublisherFailureDoesNotFailScan(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker unreachable")

	result, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{RawCode: "PO20260122001-ST001-黑色-L-50-01"})

	require.NoError(t, err)
	assert.Equal(t, "rec-001", result.RecordID)
}

func TestSubmitScan_EventsPublishedOnRecord(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{RawCode: "PO20260122001-ST001-黑色-L-50-01"})
	require.NoError(t, err)

	types := make([]string, 0, len(f.publisher.published))
	for _, e := range f.publisher.published {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, events.TypeScanRecorded)
	assert.Contains(t, types, events.TypeStageAdvanced)
}

func TestHoldScan_BlocksSubmissionDuringConfirmation(t *testing.T) {
	f := newFixture(t)
	raw := "PO20260122001-ST001-黑色-L-50-01"

	require.NoError(t, f.service.HoldScan(context.Background(), HoldScanCommand{RawCode: raw, OperatorID: "op-7"}))

	_, err := f.service.SubmitScan(context.Background(), SubmitScanCommand{RawCode: raw, OperatorID: "op-7"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeDuplicateScan, appErr.Code)
}

func TestInterpretScan_DryRun(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.InterpretScan(context.Background(), InterpretScanCommand{RawCode: "PO20260122001"})

	require.NoError(t, err)
	assert.Equal(t, domain.ModeOrder, result.Mode)
	assert.True(t, result.Parsed.Recognized)
	assert.Empty(t, f.gateway.submitted)
}

func TestGetWorkflow(t *testing.T) {
	f := newFixture(t)

	view, err := f.service.GetWorkflow(context.Background(), "PO20260122001")

	require.NoError(t, err)
	assert.Equal(t, "PO20260122001", view.OrderNo)
	require.Len(t, view.Nodes, 3)
	assert.Equal(t, "cutting", view.Nodes[0].Name)

	_, err = f.service.GetWorkflow(context.Background(), "PO00000000000")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
