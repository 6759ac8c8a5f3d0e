package events

import (
	"time"
)

// Event type names published by the scan-tracking service
const (
	TypeScanRecorded   = "mes.scan.recorded"
	TypeScanRejected   = "mes.scan.rejected"
	TypeStageAdvanced  = "mes.stage.advanced"
	TypeOrderCompleted = "mes.order.completed"
)

// Envelope is a CloudEvents-style envelope for domain events
type Envelope struct {
	SpecVersion     string    `json:"specversion"`
	Type            string    `json:"type"`
	Source          string    `json:"source"`
	ID              string    `json:"id"`
	Subject         string    `json:"subject,omitempty"`
	Time            time.Time `json:"time"`
	DataContentType string    `json:"datacontenttype"`
	Data            any       `json:"data"`

	// Extension attributes for scan correlation
	CorrelationID string `json:"correlationid,omitempty"`
	OrderNo       string `json:"orderno,omitempty"`
	BundleNo      string `json:"bundleno,omitempty"`
	ScanMode      string `json:"scanmode,omitempty"`

	// W3C Trace Context
	TraceParent string `json:"traceparent,omitempty"`
	TraceState  string `json:"tracestate,omitempty"`
}

// ScanRecordedData is the payload for a successfully recorded scan
type ScanRecordedData struct {
	RecordID    string    `json:"recordId"`
	OrderNo     string    `json:"orderNo"`
	StyleNo     string    `json:"styleNo,omitempty"`
	Color       string    `json:"color,omitempty"`
	Size        string    `json:"size,omitempty"`
	BundleNo    string    `json:"bundleNo,omitempty"`
	Quantity    int       `json:"quantity"`
	ProcessName string    `json:"processName"`
	ScanMode    string    `json:"scanMode"`
	OperatorID  string    `json:"operatorId,omitempty"`
	ScannedAt   time.Time `json:"scannedAt"`
}

// ScanRejectedData is the payload for a rejected scan
type ScanRejectedData struct {
	RawCode    string    `json:"rawCode"`
	Reason     string    `json:"reason"`
	ErrorCode  string    `json:"errorCode"`
	ScanMode   string    `json:"scanMode,omitempty"`
	OperatorID string    `json:"operatorId,omitempty"`
	ScannedAt  time.Time `json:"scannedAt"`
}

// StageAdvancedData is the payload for an order moving to its next stage
type StageAdvancedData struct {
	OrderNo       string `json:"orderNo"`
	FromStage     string `json:"fromStage,omitempty"`
	ToStage       string `json:"toStage"`
	Progress      int    `json:"progress"`
	RemainingOpen int    `json:"remainingOpen"`
}

// OrderCompletedData is the payload for an order whose stages are all done
type OrderCompletedData struct {
	OrderNo     string    `json:"orderNo"`
	StyleNo     string    `json:"styleNo,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}
