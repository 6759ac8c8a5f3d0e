package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/garment-mes/scantrack-service/internal/domain"
	"github.com/garment-mes/scantrack-service/pkg/resilience"
)

// ScanSubmissionGateway records accepted scans through the scan record
// repository. Writes run behind a circuit breaker; an open circuit fails
// submissions immediately.
type ScanSubmissionGateway struct {
	records *ScanRecordRepository
	breaker *resilience.CircuitBreaker
}

func NewScanSubmissionGateway(records *ScanRecordRepository, logger *slog.Logger) *ScanSubmissionGateway {
	return &ScanSubmissionGateway{
		records: records,
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("scan-submission"), logger),
	}
}

// Submit persists the payload and returns the record id.
func (g *ScanSubmissionGateway) Submit(ctx context.Context, payload *domain.SubmissionPayload) (*domain.SubmissionResult, error) {
	record := &domain.ScanRecord{
		OrderNo:     payload.OrderNo,
		OrderID:     payload.OrderID,
		StyleNo:     payload.StyleNo,
		Color:       payload.Color,
		Size:        payload.Size,
		BundleNo:    payload.BundleNo,
		Quantity:    payload.Quantity,
		UnitPrice:   payload.UnitPrice,
		ProcessName: payload.ProcessName,
		ScanType:    payload.ScanType,
		ScanMode:    payload.ScanMode,
		OperatorID:  payload.OperatorID,
		Workstation: payload.Workstation,
		Defective:   payload.DefectiveReentry,
		ScannedAt:   payload.ScannedAt,
	}

	recordID, err := g.breaker.Execute(ctx, func() (interface{}, error) {
		return g.records.Save(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	id, ok := recordID.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected record id type %T", recordID)
	}
	return &domain.SubmissionResult{RecordID: id}, nil
}

// BreakerState exposes the breaker for readiness reporting.
func (g *ScanSubmissionGateway) BreakerState() string {
	return g.breaker.State().String()
}
