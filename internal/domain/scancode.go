package domain

import (
	"strings"
	"time"
)

// ParseSource identifies which sub-parser produced a ParsedScanCode.
type ParseSource string

const (
	SourcePayload ParseSource = "payload"
	SourceQuery   ParseSource = "query"
	SourceBundle  ParseSource = "bundle"
	SourceOrder   ParseSource = "order"
	SourceNone    ParseSource = "none"
)

// ParsedScanCode is the canonical structured result of interpreting a raw
// scanned string. A zero Quantity means "absent"; parsers never produce
// zero or negative quantities.
type ParsedScanCode struct {
	ScanCode  string `json:"scanCode"`
	Quantity  int    `json:"quantity,omitempty"`
	OrderNo   string `json:"orderNo,omitempty"`
	OrderID   string `json:"orderId,omitempty"`
	StyleNo   string `json:"styleNo,omitempty"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	BundleNo  string `json:"bundleNo,omitempty"`
	SkuNo     string `json:"skuNo,omitempty"`
	PatternID string `json:"patternId,omitempty"`
	QRType    string `json:"qrType,omitempty"`

	IsOrderQR   bool `json:"isOrderQR,omitempty"`
	IsSkuQR     bool `json:"isSkuQR,omitempty"`
	IsPatternQR bool `json:"isPatternQR,omitempty"`

	// Recognized is false when no sub-parser accepted the input. The
	// failure result still carries the raw string and a best-effort
	// quantity so the caller can offer manual entry.
	Recognized bool        `json:"recognized"`
	Source     ParseSource `json:"source"`
}

// HasBundleTicket reports whether the code addresses a specific cut bundle.
func (p *ParsedScanCode) HasBundleTicket() bool {
	return p.BundleNo != ""
}

// HasColorSizePair reports whether the code carries a complete SKU pair.
func (p *ParsedScanCode) HasColorSizePair() bool {
	return p.Color != "" && p.Size != ""
}

// ScanMode classifies what a scanned code addresses.
type ScanMode string

const (
	ModeBundle  ScanMode = "BUNDLE"
	ModeOrder   ScanMode = "ORDER"
	ModeSKU     ScanMode = "SKU"
	ModePattern ScanMode = "PATTERN"
)

// patternCodePrefix is the printed-label convention for sample/pattern
// production codes.
const patternCodePrefix = "PAT"

// ClassifyScanMode assigns a scanning mode to a parsed code. It is a pure
// function of the parsed fields; the same input always yields the same mode.
func ClassifyScanMode(p *ParsedScanCode) ScanMode {
	switch {
	case p.IsPatternQR || p.PatternID != "" || strings.HasPrefix(p.ScanCode, patternCodePrefix):
		return ModePattern
	case p.IsOrderQR || (p.OrderNo != "" && !p.HasBundleTicket() && !p.HasColorSizePair()):
		return ModeOrder
	case p.IsSkuQR:
		return ModeSKU
	default:
		return ModeBundle
	}
}

// SubmissionPayload is the canonical record handed to the submission gateway.
type SubmissionPayload struct {
	ScanCode string `json:"scanCode"`
	OrderNo  string `json:"orderNo,omitempty"`
	OrderID  string `json:"orderId,omitempty"`
	StyleNo  string `json:"styleNo,omitempty"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
	BundleNo string `json:"bundleNo,omitempty"`
	SkuNo    string `json:"skuNo,omitempty"`

	ProcessName   string  `json:"processName"`
	ProgressStage string  `json:"progressStage,omitempty"`
	ScanType      string  `json:"scanType,omitempty"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`

	ScanMode         ScanMode  `json:"scanMode"`
	OperatorID       string    `json:"operatorId,omitempty"`
	Workstation      string    `json:"workstation,omitempty"`
	DefectiveReentry bool      `json:"defectiveReentry,omitempty"`
	ScannedAt        time.Time `json:"scannedAt"`
}

// SubmissionResult is the gateway acknowledgement for a submitted scan.
type SubmissionResult struct {
	RecordID string `json:"recordId"`
	Message  string `json:"message,omitempty"`
}
