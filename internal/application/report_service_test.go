package application

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/garment-mes/scantrack-service/internal/domain"
	"github.com/garment-mes/scantrack-service/pkg/logging"
)

type fakeRecordRepo struct {
	records []*domain.ScanRecord
}

func (r *fakeRecordRepo) Save(_ context.Context, _ *domain.ScanRecord) (string, error) {
	return "", nil
}

func (r *fakeRecordRepo) FindByDateRange(_ context.Context, from, to time.Time, pagination domain.Pagination) ([]*domain.ScanRecord, error) {
	var matched []*domain.ScanRecord
	for _, rec := range r.records {
		if !rec.ScannedAt.Before(from) && rec.ScannedAt.Before(to) {
			matched = append(matched, rec)
		}
	}
	start := pagination.Skip()
	if start > int64(len(matched)) {
		return nil, nil
	}
	end := start + pagination.Limit()
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[start:end], nil
}

func (r *fakeRecordRepo) ProcessesByBundle(_ context.Context, orderNo string) (map[string][]string, error) {
	grouped := make(map[string][]string)
	for _, rec := range r.records {
		if rec.OrderNo == orderNo {
			grouped[rec.BundleNo] = append(grouped[rec.BundleNo], rec.ProcessName)
		}
	}
	return grouped, nil
}

func TestDailyReport(t *testing.T) {
	day := time.Date(2026, 1, 22, 0, 0, 0, 0, time.UTC)
	repo := &fakeRecordRepo{
		records: []*domain.ScanRecord{
			{
				OrderNo:     "PO20260122001",
				StyleNo:     "ST001",
				Color:       "黑色",
				Size:        "L",
				BundleNo:    "01",
				Quantity:    50,
				UnitPrice:   1.2,
				ProcessName: "sewing",
				ScanMode:    domain.ModeBundle,
				OperatorID:  "op-7",
				ScannedAt:   day.Add(9 * time.Hour),
			},
			{
				OrderNo:     "PO20260122001",
				BundleNo:    "02",
				Quantity:    30,
				ProcessName: "sewing",
				ScanMode:    domain.ModeBundle,
				ScannedAt:   day.Add(10 * time.Hour),
			},
			// Outside the requested day, must not appear.
			{
				OrderNo:     "PO20260122001",
				Quantity:    99,
				ProcessName: "cutting",
				ScanMode:    domain.ModeOrder,
				ScannedAt:   day.Add(25 * time.Hour),
			},
		},
	}
	logger := logging.New(&logging.Config{ServiceName: "scantrack-test", Level: logging.LevelError})
	service := NewReportService(repo, logger)

	workbook, filename, err := service.DailyReport(context.Background(), DailyReportQuery{Date: day})
	require.NoError(t, err)
	assert.Equal(t, "daily-scans-2026-01-22.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Daily Scans")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)

	assert.Equal(t, "Order No", rows[0][1])
	assert.Equal(t, "PO20260122001", rows[1][1])
	assert.Equal(t, "sewing", rows[1][6])
	assert.Equal(t, "50", rows[1][8])

	// Subtotal row: sewing 50+30, the out-of-day cutting scan excluded.
	var sawSubtotal bool
	for _, row := range rows {
		if len(row) >= 2 && row[0] == "sewing" && row[1] == "80" {
			sawSubtotal = true
		}
	}
	assert.True(t, sawSubtotal, "expected a sewing subtotal of 80")
}

func TestDailyReport_EmptyDay(t *testing.T) {
	logger := logging.New(&logging.Config{ServiceName: "scantrack-test", Level: logging.LevelError})
	service := NewReportService(&fakeRecordRepo{}, logger)

	workbook, _, err := service.DailyReport(context.Background(), DailyReportQuery{Date: time.Now()})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Daily Scans")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Time", rows[0][0])
}
