package application

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/garment-mes/scantrack-service/internal/domain"
	apperrors "github.com/garment-mes/scantrack-service/pkg/errors"
	"github.com/garment-mes/scantrack-service/pkg/logging"
)

const reportSheetName = "Daily Scans"

// reportPageSize bounds a single repository read while paging through a day.
const reportPageSize = 500

// ReportService renders daily production reports as xlsx workbooks.
type ReportService struct {
	records domain.ScanRecordRepository
	logger  *logging.Logger
}

// NewReportService creates a ReportService.
func NewReportService(records domain.ScanRecordRepository, logger *logging.Logger) *ReportService {
	return &ReportService{records: records, logger: logger}
}

// DailyReport builds an xlsx workbook listing every scan recorded on the
// query's calendar day, with per-process subtotal rows at the bottom.
func (s *ReportService) DailyReport(ctx context.Context, query DailyReportQuery) ([]byte, string, error) {
	dayStart := time.Date(query.Date.Year(), query.Date.Month(), query.Date.Day(), 0, 0, 0, 0, query.Date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var all []*domain.ScanRecord
	page := domain.Pagination{Page: 1, PageSize: reportPageSize}
	for {
		batch, err := s.records.FindByDateRange(ctx, dayStart, dayEnd, page)
		if err != nil {
			return nil, "", apperrors.MapDomainError(err)
		}
		all = append(all, batch...)
		if int64(len(batch)) < page.PageSize {
			break
		}
		page.Page++
	}

	workbook, err := renderWorkbook(dayStart, all)
	if err != nil {
		return nil, "", apperrors.ErrInternal("failed to render report").Wrap(err)
	}

	s.logger.WithContext(ctx).Info("rendered daily report",
		"date", dayStart.Format("2006-01-02"),
		"records", len(all),
	)

	filename := fmt.Sprintf("daily-scans-%s.xlsx", dayStart.Format("2006-01-02"))
	return workbook, filename, nil
}

func renderWorkbook(day time.Time, records []*domain.ScanRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Time", "Order No", "Style No", "Color", "Size", "Bundle", "Process", "Mode", "Quantity", "Unit Price", "Operator"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(reportSheetName, cell, header); err != nil {
			return nil, err
		}
	}

	byProcess := make(map[string]int)
	for row, record := range records {
		values := []any{
			record.ScannedAt.Format("15:04:05"),
			record.OrderNo,
			record.StyleNo,
			record.Color,
			record.Size,
			record.BundleNo,
			record.ProcessName,
			string(record.ScanMode),
			record.Quantity,
			record.UnitPrice,
			record.OperatorID,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(reportSheetName, cell, value); err != nil {
				return nil, err
			}
		}
		byProcess[record.ProcessName] += record.Quantity
	}

	// Subtotals below the listing, one row per process.
	row := len(records) + 3
	if err := f.SetCellValue(reportSheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("Totals for %s", day.Format("2006-01-02"))); err != nil {
		return nil, err
	}
	row++
	for _, process := range sortedKeys(byProcess) {
		if err := f.SetCellValue(reportSheetName, fmt.Sprintf("A%d", row), process); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(reportSheetName, fmt.Sprintf("B%d", row), byProcess[process]); err != nil {
			return nil, err
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
