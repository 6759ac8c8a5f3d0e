package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garment-mes/scantrack-service/internal/domain"
	apperrors "github.com/garment-mes/scantrack-service/pkg/errors"
	"github.com/garment-mes/scantrack-service/pkg/events"
	"github.com/garment-mes/scantrack-service/pkg/kafka"
	"github.com/garment-mes/scantrack-service/pkg/logging"
	"github.com/garment-mes/scantrack-service/pkg/metrics"
)

// EventPublisher sends a domain event to a topic. Publishing is best
// effort: the scan pipeline never fails because an event could not be sent.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event *events.Envelope) error
}

// ScanService runs the scan pipeline: dedup guard, interpretation, mode
// classification, stage resolution, gateway submission, event publishing.
type ScanService struct {
	interpreter *domain.Interpreter
	resolver    *domain.StageResolver
	guard       domain.ScanGuard
	orders      domain.OrderRepository
	gateway     domain.SubmissionGateway
	precheck    domain.PrecheckAdvisory
	publisher   EventPublisher
	factory     *events.Factory
	metrics     *metrics.Metrics
	logger      *logging.Logger
}

// ScanServiceDeps bundles the collaborators of a ScanService.
type ScanServiceDeps struct {
	Interpreter *domain.Interpreter
	Resolver    *domain.StageResolver
	Guard       domain.ScanGuard
	Orders      domain.OrderRepository
	Gateway     domain.SubmissionGateway
	// Precheck is optional; findings are appended to the result message.
	Precheck  domain.PrecheckAdvisory
	Publisher EventPublisher
	Factory     *events.Factory
	Metrics     *metrics.Metrics
	Logger      *logging.Logger
}

// NewScanService creates a ScanService.
func NewScanService(deps ScanServiceDeps) *ScanService {
	return &ScanService{
		interpreter: deps.Interpreter,
		resolver:    deps.Resolver,
		guard:       deps.Guard,
		orders:      deps.Orders,
		gateway:     deps.Gateway,
		precheck:    deps.Precheck,
		publisher:   deps.Publisher,
		factory:     deps.Factory,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
	}
}

// submitGuardKey suppresses double-triggered scanners: the same operator
// firing the same raw code twice within the submit window.
func submitGuardKey(rawCode, operatorID string) string {
	return "submit|" + operatorID + "|" + rawCode
}

// holdGuardKey parks a code while its confirmation dialog is open.
func holdGuardKey(rawCode, operatorID string) string {
	return "hold|" + operatorID + "|" + rawCode
}

// replayGuardKey matches the resolver's bundle-stage replay key.
func replayGuardKey(orderNo, bundleNo, process string) string {
	return orderNo + "|" + bundleNo + "|" + process
}

// SubmitScan runs the full pipeline for one raw scanned code.
func (s *ScanService) SubmitScan(ctx context.Context, cmd SubmitScanCommand) (*SubmitScanResult, error) {
	started := time.Now()

	guardKey := submitGuardKey(cmd.RawCode, cmd.OperatorID)
	if s.guard.IsDuplicate(guardKey) || s.guard.IsDuplicate(holdGuardKey(cmd.RawCode, cmd.OperatorID)) {
		s.logger.DedupHit(ctx, guardKey, domain.SubmitTTL)
		s.metrics.RecordDedupHit("submit")
		return nil, apperrors.ErrDuplicateScan(cmd.RawCode)
	}

	parsed := s.interpreter.Interpret(cmd.RawCode)
	mode := domain.ClassifyScanMode(parsed)
	s.logger.ScanInterpreted(ctx, string(mode), parsed.Recognized, string(parsed.Source), time.Since(started))
	s.metrics.RecordScanInterpreted(string(mode), string(parsed.Source), parsed.Recognized, time.Since(started))

	if !parsed.Recognized {
		s.publishRejected(ctx, cmd, parsed, mode, "unrecognized scan code", apperrors.CodeUnrecognizedScan)
		s.metrics.RecordScanSubmitted(string(mode), "unrecognized")
		appErr := apperrors.ErrUnrecognizedScan(cmd.RawCode)
		if parsed.Quantity > 0 {
			appErr = appErr.WithDetail("suggestedQuantity", fmt.Sprintf("%d", parsed.Quantity))
		}
		return nil, appErr
	}

	if cmd.ManualQuantity > 0 {
		parsed.Quantity = cmd.ManualQuantity
	}

	snapshot, err := s.loadSnapshot(ctx, parsed)
	if err != nil {
		s.metrics.RecordScanSubmitted(string(mode), "order_lookup_failed")
		return nil, err
	}

	decision, err := s.resolver.Resolve(mode, parsed, snapshot, domain.ResolveOptions{
		ProcessOverride: cmd.ProcessOverride,
	})
	if err != nil {
		s.metrics.RecordScanSubmitted(string(mode), "resolution_failed")
		return nil, mapResolutionError(err)
	}
	s.logger.StageResolved(ctx, snapshot.OrderNo, decision.ProcessName, resolutionOutcome(decision))
	s.metrics.RecordStageTransition(decision.ProcessName, resolutionOutcome(decision))

	if decision.Blocked() {
		s.metrics.RecordScanSubmitted(string(mode), resolutionOutcome(decision))
		result := blockedResult(parsed, snapshot, mode, decision)
		switch {
		case result.Completed:
			s.publishRejected(ctx, cmd, parsed, mode, result.Message, apperrors.CodeStageCompleted)
		case result.Duplicate:
			s.publishRejected(ctx, cmd, parsed, mode, result.Message, apperrors.CodeDuplicateScan)
		}
		return result, nil
	}

	payload := buildPayload(cmd, parsed, snapshot, mode, decision)
	var advisories []domain.PrecheckIssue
	if s.precheck != nil {
		advisories = s.precheck.Precheck(ctx, payload, snapshot)
	}
	submission, err := s.gateway.Submit(ctx, payload)
	if err != nil {
		s.metrics.RecordScanSubmitted(string(mode), "gateway_error")
		return nil, apperrors.MapTransportError(err)
	}
	if submission.RecordID == "" {
		s.metrics.RecordScanSubmitted(string(mode), "not_acknowledged")
		return nil, apperrors.ErrGatewayUnavailable("submission was not acknowledged")
	}

	s.guard.MarkRecent(guardKey, domain.SubmitTTL)
	if decision.ProcessName != "" {
		s.guard.MarkRecent(replayGuardKey(snapshot.OrderNo, parsed.BundleNo, decision.ProcessName), domain.SubmitTTL)
	}
	if sized, ok := s.guard.(*domain.MemoryScanGuard); ok {
		s.metrics.SetDedupGuardSize(sized.Size())
	}

	s.publishRecorded(ctx, payload, submission.RecordID)
	s.publishProgress(ctx, snapshot, decision)

	s.metrics.RecordScanSubmitted(string(mode), "recorded")
	return &SubmitScanResult{
		RecordID:         submission.RecordID,
		Mode:             mode,
		Message:          appendAdvisories(formatResult(mode, parsed, decision, snapshot), advisories),
		OrderNo:          snapshot.OrderNo,
		BundleNo:         parsed.BundleNo,
		ProcessName:      decision.ProcessName,
		Quantity:         decision.Quantity,
		Handoff:          decision.IsHandoff,
		ScannedProcesses: decision.ScannedProcessNames,
		AllProcesses:     decision.AllProcessNames,
	}, nil
}

// InterpretScan parses and classifies without touching guard, resolver or
// gateway. Unrecognized input is not an error here; the parsed result says so.
func (s *ScanService) InterpretScan(ctx context.Context, cmd InterpretScanCommand) (*InterpretScanResult, error) {
	started := time.Now()

	parsed := s.interpreter.Interpret(cmd.RawCode)
	mode := domain.ClassifyScanMode(parsed)

	s.logger.ScanInterpreted(ctx, string(mode), parsed.Recognized, string(parsed.Source), time.Since(started))
	s.metrics.RecordScanInterpreted(string(mode), string(parsed.Source), parsed.Recognized, time.Since(started))

	return &InterpretScanResult{Parsed: parsed, Mode: mode}, nil
}

// HoldScan parks a code for the confirmation window.
func (s *ScanService) HoldScan(ctx context.Context, cmd HoldScanCommand) error {
	key := holdGuardKey(cmd.RawCode, cmd.OperatorID)
	s.guard.MarkRecent(key, domain.ConfirmTTL)
	s.logger.DedupHit(ctx, key, domain.ConfirmTTL)
	s.metrics.RecordDedupHit("confirm")
	return nil
}

// GetWorkflow returns an order's configured workflow, sorted.
func (s *ScanService) GetWorkflow(ctx context.Context, orderNo string) (*WorkflowView, error) {
	snapshot, err := s.orders.GetOrderSnapshot(ctx, orderNo)
	if err != nil {
		return nil, mapResolutionError(err)
	}
	return &WorkflowView{
		OrderNo:         snapshot.OrderNo,
		StyleNo:         snapshot.StyleNo,
		OverallProgress: snapshot.OverallProgress,
		ActiveStageName: snapshot.ActiveStageName,
		Nodes:           snapshot.OrderedNodes(),
	}, nil
}

// loadSnapshot fetches the order behind a parsed code, preferring the
// order number over the internal id.
func (s *ScanService) loadSnapshot(ctx context.Context, parsed *domain.ParsedScanCode) (*domain.OrderSnapshot, error) {
	key := parsed.OrderNo
	if key == "" {
		key = parsed.OrderID
	}
	if key == "" && parsed.IsPatternQR {
		key = parsed.StyleNo
	}
	if key == "" {
		return nil, apperrors.ErrManualInputRequired("scan carries no order reference")
	}

	snapshot, err := s.orders.GetOrderSnapshot(ctx, key)
	if err != nil {
		return nil, mapResolutionError(err)
	}
	return snapshot, nil
}

// blockedResult turns a terminal decision into its informational result:
// completion, replay, and procurement deferral are outcomes the operator
// reads, not errors.
func blockedResult(parsed *domain.ParsedScanCode, snapshot *domain.OrderSnapshot, mode domain.ScanMode, decision *domain.StageDecision) *SubmitScanResult {
	result := &SubmitScanResult{
		Mode:             mode,
		Message:          decision.Hint,
		OrderNo:          snapshot.OrderNo,
		BundleNo:         parsed.BundleNo,
		ProcessName:      decision.ProcessName,
		ScannedProcesses: decision.ScannedProcessNames,
		AllProcesses:     decision.AllProcessNames,
	}

	switch {
	case decision.IsCompleted:
		result.Completed = true
	case decision.IsDuplicate:
		result.Duplicate = true
	case decision.DeferToProcurement:
		result.Deferred = true
	}
	return result
}

func buildPayload(cmd SubmitScanCommand, parsed *domain.ParsedScanCode, snapshot *domain.OrderSnapshot, mode domain.ScanMode, decision *domain.StageDecision) *domain.SubmissionPayload {
	styleNo := parsed.StyleNo
	if styleNo == "" {
		styleNo = snapshot.StyleNo
	}
	return &domain.SubmissionPayload{
		ScanCode:         parsed.ScanCode,
		OrderNo:          snapshot.OrderNo,
		OrderID:          snapshot.OrderID,
		StyleNo:          styleNo,
		Color:            parsed.Color,
		Size:             parsed.Size,
		BundleNo:         parsed.BundleNo,
		SkuNo:            parsed.SkuNo,
		ProcessName:      decision.ProcessName,
		ProgressStage:    decision.ProgressStage,
		ScanType:         decision.ScanType,
		Quantity:         decision.Quantity,
		UnitPrice:        decision.UnitPrice,
		ScanMode:         mode,
		OperatorID:       cmd.OperatorID,
		Workstation:      cmd.Workstation,
		DefectiveReentry: cmd.DefectiveReentry,
		ScannedAt:        time.Now().UTC(),
	}
}

func (s *ScanService) publishRecorded(ctx context.Context, payload *domain.SubmissionPayload, recordID string) {
	if s.publisher == nil {
		return
	}
	event := s.factory.ScanRecorded(&events.ScanRecordedData{
		RecordID:    recordID,
		OrderNo:     payload.OrderNo,
		StyleNo:     payload.StyleNo,
		Color:       payload.Color,
		Size:        payload.Size,
		BundleNo:    payload.BundleNo,
		Quantity:    payload.Quantity,
		ProcessName: payload.ProcessName,
		ScanMode:    string(payload.ScanMode),
		OperatorID:  payload.OperatorID,
		ScannedAt:   payload.ScannedAt,
	})
	if err := s.publisher.PublishEvent(ctx, kafka.Topics.ScanEvents, event); err != nil {
		s.logger.WithError(err).WithContext(ctx).Warn("failed to publish scan recorded event",
			"recordId", recordID,
			"orderNo", payload.OrderNo,
		)
	}
}

func (s *ScanService) publishRejected(ctx context.Context, cmd SubmitScanCommand, parsed *domain.ParsedScanCode, mode domain.ScanMode, reason, code string) {
	if s.publisher == nil {
		return
	}
	event := s.factory.ScanRejected(&events.ScanRejectedData{
		RawCode:    cmd.RawCode,
		Reason:     reason,
		ErrorCode:  code,
		ScanMode:   string(mode),
		OperatorID: cmd.OperatorID,
		ScannedAt:  time.Now().UTC(),
	})
	if err := s.publisher.PublishEvent(ctx, kafka.Topics.ScanEvents, event); err != nil {
		s.logger.WithError(err).WithContext(ctx).Warn("failed to publish scan rejected event")
	}
}

// publishProgress emits stage/completion events derived from the decision.
func (s *ScanService) publishProgress(ctx context.Context, snapshot *domain.OrderSnapshot, decision *domain.StageDecision) {
	if s.publisher == nil || decision.ProcessName == "" {
		return
	}

	remainingOpen := len(decision.AllProcessNames) - len(decision.ScannedProcessNames) - 1
	if remainingOpen < 0 {
		remainingOpen = 0
	}

	var fromStage string
	if n := len(decision.ScannedProcessNames); n > 0 {
		fromStage = decision.ScannedProcessNames[n-1]
	}

	event := s.factory.StageAdvanced(&events.StageAdvancedData{
		OrderNo:       snapshot.OrderNo,
		FromStage:     fromStage,
		ToStage:       decision.ProcessName,
		Progress:      snapshot.OverallProgress,
		RemainingOpen: remainingOpen,
	})
	if err := s.publisher.PublishEvent(ctx, kafka.Topics.StageEvents, event); err != nil {
		s.logger.WithError(err).WithContext(ctx).Warn("failed to publish stage advanced event",
			"orderNo", snapshot.OrderNo,
		)
	}

	if remainingOpen == 0 && decision.IsHandoff {
		completed := s.factory.OrderCompleted(&events.OrderCompletedData{
			OrderNo:     snapshot.OrderNo,
			StyleNo:     snapshot.StyleNo,
			CompletedAt: time.Now().UTC(),
		})
		if err := s.publisher.PublishEvent(ctx, kafka.Topics.OrderEvents, completed); err != nil {
			s.logger.WithError(err).WithContext(ctx).Warn("failed to publish order completed event",
				"orderNo", snapshot.OrderNo,
			)
		}
	}
}

// mapResolutionError converts domain sentinels into transport-facing errors.
func mapResolutionError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrOrderNotFound):
		return apperrors.ErrNotFound("order").Wrap(err)
	case errors.Is(err, domain.ErrMissingOrderContext):
		return apperrors.ErrManualInputRequired("bundle scan requires an order number").Wrap(err)
	case errors.Is(err, domain.ErrManualQuantityRequired):
		return apperrors.ErrManualInputRequired("quantity could not be derived, enter it manually").Wrap(err)
	case errors.Is(err, domain.ErrNoWorkflowConfigured):
		return apperrors.ErrConflict("order has no configured workflow").Wrap(err)
	default:
		return apperrors.MapDomainError(err)
	}
}

func resolutionOutcome(d *domain.StageDecision) string {
	switch {
	case d.IsCompleted:
		return "completed"
	case d.IsDuplicate:
		return "duplicate"
	case d.DeferToProcurement:
		return "deferred"
	case d.IsHandoff:
		return "handoff"
	default:
		return "advanced"
	}
}
