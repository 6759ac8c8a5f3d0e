package application

import (
	"time"

	"github.com/garment-mes/scantrack-service/internal/domain"
)

// SubmitScanCommand records a production scan end to end.
type SubmitScanCommand struct {
	RawCode          string
	OperatorID       string
	Workstation      string
	ProcessOverride  string
	ManualQuantity   int
	DefectiveReentry bool
}

// InterpretScanCommand parses a raw code without recording anything.
type InterpretScanCommand struct {
	RawCode string
}

// HoldScanCommand parks a scan while its confirmation dialog is open, so
// re-scans of the same code do not start a second submission.
type HoldScanCommand struct {
	RawCode    string
	OperatorID string
}

// DailyReportQuery selects the production day to report on.
type DailyReportQuery struct {
	Date time.Time
}

// SubmitScanResult is the outcome of a recorded (or deferred) scan.
type SubmitScanResult struct {
	RecordID string          `json:"recordId,omitempty"`
	Mode     domain.ScanMode `json:"mode"`
	Message  string          `json:"message"`

	OrderNo     string `json:"orderNo,omitempty"`
	BundleNo    string `json:"bundleNo,omitempty"`
	ProcessName string `json:"processName,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`

	// Deferred is set when the scan was understood but intentionally not
	// recorded, e.g. an order still in procurement.
	Deferred bool `json:"deferred,omitempty"`
	// Completed is set when every workflow step is already recorded.
	// Informational: the state is already correct and nothing was written.
	Completed bool `json:"completed,omitempty"`
	// Duplicate is set when the same step was recorded moments ago.
	// Informational, like Completed.
	Duplicate bool `json:"duplicate,omitempty"`
	// Handoff is set when the recorded step hands the goods to the
	// warehousing flow.
	Handoff bool `json:"handoff,omitempty"`

	ScannedProcesses []string `json:"scannedProcesses,omitempty"`
	AllProcesses     []string `json:"allProcesses,omitempty"`
}

// InterpretScanResult is a dry-run interpretation.
type InterpretScanResult struct {
	Parsed *domain.ParsedScanCode `json:"parsed"`
	Mode   domain.ScanMode        `json:"mode"`
}

// WorkflowView is the order workflow surfaced to clients.
type WorkflowView struct {
	OrderNo         string               `json:"orderNo"`
	StyleNo         string               `json:"styleNo,omitempty"`
	OverallProgress int                  `json:"overallProgress"`
	ActiveStageName string               `json:"activeStageName,omitempty"`
	Nodes           []domain.ProcessNode `json:"nodes"`
}
