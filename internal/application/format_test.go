package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/garment-mes/scantrack-service/internal/domain"
)

func TestFormatOrderResult_WithLineItems(t *testing.T) {
	snapshot := &domain.OrderSnapshot{
		OrderNo: "PO20260122001",
		Lines: []domain.OrderLine{
			{Color: "黑色", Size: "L", Quantity: 120},
			{Color: "白色", Size: "M", Quantity: 80},
		},
	}
	decision := &domain.StageDecision{ProcessName: "sewing", Quantity: 200}

	msg := formatResult(domain.ModeOrder, &domain.ParsedScanCode{}, decision, snapshot)

	assert.Equal(t, "order PO20260122001: sewing recorded x200, 2 specifications processed", msg)
}

func TestFormatOrderResult_WithoutLineItems(t *testing.T) {
	snapshot := &domain.OrderSnapshot{OrderNo: "PO20260122001"}
	decision := &domain.StageDecision{ProcessName: "sewing"}

	msg := formatResult(domain.ModeOrder, &domain.ParsedScanCode{}, decision, snapshot)

	assert.Equal(t, "order PO20260122001: sewing recorded", msg)
}

func TestFormatBundleResult_AbsentFieldsNeverMentioned(t *testing.T) {
	decision := &domain.StageDecision{ProcessName: "sewing", Quantity: 50}

	msg := formatBundleResult(&domain.ParsedScanCode{}, decision)
	assert.Equal(t, "sewing x50 recorded", msg)

	msg = formatBundleResult(&domain.ParsedScanCode{Color: "黑色", Size: "L"}, decision)
	assert.Equal(t, "黑色/L: sewing x50 recorded", msg)

	msg = formatBundleResult(&domain.ParsedScanCode{BundleNo: "01"}, decision)
	assert.Equal(t, "bundle 01: sewing x50 recorded", msg)
}

func TestAppendAdvisories(t *testing.T) {
	assert.Equal(t, "done", appendAdvisories("done", nil))

	issues := []domain.PrecheckIssue{{Title: "quantity exceeds order line", Suggestion: "verify the ticket quantity"}}
	assert.Equal(t,
		"done; note: quantity exceeds order line (verify the ticket quantity)",
		appendAdvisories("done", issues))
}
