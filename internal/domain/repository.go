package domain

import (
	"context"
	"time"
)

// ScanRecord is one persisted production scan.
type ScanRecord struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	OrderNo     string    `json:"orderNo" bson:"order_no"`
	OrderID     string    `json:"orderId,omitempty" bson:"order_id,omitempty"`
	StyleNo     string    `json:"styleNo,omitempty" bson:"style_no,omitempty"`
	Color       string    `json:"color,omitempty" bson:"color,omitempty"`
	Size        string    `json:"size,omitempty" bson:"size,omitempty"`
	BundleNo    string    `json:"bundleNo,omitempty" bson:"bundle_no,omitempty"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	UnitPrice   float64   `json:"unitPrice" bson:"unit_price"`
	ProcessName string    `json:"processName" bson:"process_name"`
	ScanType    string    `json:"scanType,omitempty" bson:"scan_type,omitempty"`
	ScanMode    ScanMode  `json:"scanMode" bson:"scan_mode"`
	OperatorID  string    `json:"operatorId,omitempty" bson:"operator_id,omitempty"`
	Workstation string    `json:"workstation,omitempty" bson:"workstation,omitempty"`
	Defective   bool      `json:"defective,omitempty" bson:"defective,omitempty"`
	ScannedAt   time.Time `json:"scannedAt" bson:"scanned_at"`
}

// OrderRepository loads production order snapshots for stage resolution.
type OrderRepository interface {
	// GetOrderSnapshot resolves by order number first, then by order ID.
	GetOrderSnapshot(ctx context.Context, orderNoOrID string) (*OrderSnapshot, error)
}

// ScanRecordRepository persists and queries scan records.
type ScanRecordRepository interface {
	Save(ctx context.Context, record *ScanRecord) (string, error)

	// FindByDateRange returns records scanned within [from, to).
	FindByDateRange(ctx context.Context, from, to time.Time, pagination Pagination) ([]*ScanRecord, error)

	// ProcessesByBundle groups an order's recorded scans into bundle
	// number -> distinct process names, the shape OrderSnapshot carries.
	ProcessesByBundle(ctx context.Context, orderNo string) (map[string][]string, error)
}

// SubmissionGateway records an accepted scan with the system of record and
// returns the record identifier. An empty record id means the submission
// did not take effect.
type SubmissionGateway interface {
	Submit(ctx context.Context, payload *SubmissionPayload) (*SubmissionResult, error)
}

// Pagination represents pagination options
type Pagination struct {
	Page     int64
	PageSize int64
}

// DefaultPagination returns default pagination options
func DefaultPagination() Pagination {
	return Pagination{
		Page:     1,
		PageSize: 20,
	}
}

// Skip returns the number of documents to skip
func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the maximum number of documents to return
func (p Pagination) Limit() int64 {
	return p.PageSize
}
