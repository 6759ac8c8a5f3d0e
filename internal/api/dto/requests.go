package dto

// SubmitScanRequest records a production scan.
type SubmitScanRequest struct {
	ScanCode         string `json:"scanCode" binding:"required" validate:"required,safe_string,max=2048"`
	OperatorID       string `json:"operatorId" validate:"omitempty,safe_string,max=64"`
	Workstation      string `json:"workstation" validate:"omitempty,safe_string,max=64"`
	ProcessName      string `json:"processName" validate:"omitempty,process_name"`
	Quantity         int    `json:"quantity" validate:"omitempty,gte=0,lte=999999"`
	DefectiveReentry bool   `json:"defectiveReentry"`
}

// InterpretScanRequest parses a code without recording anything.
type InterpretScanRequest struct {
	ScanCode string `json:"scanCode" binding:"required" validate:"required,safe_string,max=2048"`
}

// HoldScanRequest parks a code while its confirmation dialog is open.
type HoldScanRequest struct {
	ScanCode   string `json:"scanCode" binding:"required" validate:"required,safe_string,max=2048"`
	OperatorID string `json:"operatorId" validate:"omitempty,safe_string,max=64"`
}
