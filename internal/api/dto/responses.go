package dto

// SubmitScanResponse is the outcome of a scan: recorded, or an
// informational block (completed / duplicate / deferred).
type SubmitScanResponse struct {
	RecordID    string `json:"recordId,omitempty"`
	Mode        string `json:"mode"`
	Message     string `json:"message"`
	OrderNo     string `json:"orderNo,omitempty"`
	BundleNo    string `json:"bundleNo,omitempty"`
	ProcessName string `json:"processName,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	Deferred    bool   `json:"deferred,omitempty"`
	Completed   bool   `json:"completed,omitempty"`
	Duplicate   bool   `json:"duplicate,omitempty"`
	Handoff     bool   `json:"handoff,omitempty"`

	ScannedProcesses []string `json:"scannedProcesses,omitempty"`
	AllProcesses     []string `json:"allProcesses,omitempty"`
}

// InterpretScanResponse is the dry-run parse result.
type InterpretScanResponse struct {
	Mode       string `json:"mode"`
	Recognized bool   `json:"recognized"`
	Source     string `json:"source"`

	ScanCode  string `json:"scanCode"`
	OrderNo   string `json:"orderNo,omitempty"`
	OrderID   string `json:"orderId,omitempty"`
	StyleNo   string `json:"styleNo,omitempty"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	BundleNo  string `json:"bundleNo,omitempty"`
	SkuNo     string `json:"skuNo,omitempty"`
	PatternID string `json:"patternId,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

// WorkflowNodeResponse is one configured workflow step.
type WorkflowNodeResponse struct {
	Name          string  `json:"name"`
	UnitPrice     float64 `json:"unitPrice"`
	SortOrder     int     `json:"sortOrder"`
	ProgressStage string  `json:"progressStage,omitempty"`
}

// WorkflowResponse is the order's configured workflow.
type WorkflowResponse struct {
	OrderNo         string                 `json:"orderNo"`
	StyleNo         string                 `json:"styleNo,omitempty"`
	OverallProgress int                    `json:"overallProgress"`
	ActiveStageName string                 `json:"activeStageName,omitempty"`
	Nodes           []WorkflowNodeResponse `json:"nodes"`
}

// HoldScanResponse acknowledges a hold.
type HoldScanResponse struct {
	Held       bool   `json:"held"`
	TTLSeconds int    `json:"ttlSeconds"`
	Message    string `json:"message"`
}
