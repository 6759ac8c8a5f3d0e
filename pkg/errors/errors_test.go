package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMapTransportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "deadline exceeded",
			err:      errors.New("context deadline exceeded"),
			wantCode: CodeTimeout,
		},
		{
			name:     "dial timeout",
			err:      errors.New("dial tcp 10.0.0.5:443: i/o timeout"),
			wantCode: CodeTimeout,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 10.0.0.5:443: connect: connection refused"),
			wantCode: CodeGatewayUnavailable,
		},
		{
			name:     "connection reset",
			err:      errors.New("read tcp: connection reset by peer"),
			wantCode: CodeGatewayUnavailable,
		},
		{
			name:     "dns failure",
			err:      errors.New("lookup gateway.internal: no such host"),
			wantCode: CodeGatewayUnavailable,
		},
		{
			name:     "unknown network error",
			err:      errors.New("broken pipe"),
			wantCode: CodeGatewayUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := MapTransportError(tt.err)
			if appErr.Code != tt.wantCode {
				t.Errorf("MapTransportError() code = %s, want %s", appErr.Code, tt.wantCode)
			}
			if !errors.Is(appErr, tt.err) {
				t.Errorf("MapTransportError() should wrap the original error")
			}
		})
	}
}

func TestMapTransportError_PassesThroughAppErrors(t *testing.T) {
	original := ErrDuplicateScan("PO20260122001|01|sewing")

	mapped := MapTransportError(fmt.Errorf("wrapped: %w", original))
	if mapped != nil && mapped.Code != CodeDuplicateScan {
		t.Errorf("expected existing AppError to pass through, got %s", mapped.Code)
	}
}

func TestScanErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"unrecognized", ErrUnrecognizedScan("???"), CodeUnrecognizedScan, http.StatusUnprocessableEntity},
		{"duplicate", ErrDuplicateScan("key"), CodeDuplicateScan, http.StatusConflict},
		{"manual input", ErrManualInputRequired("no quantity"), CodeManualInputRequired, http.StatusUnprocessableEntity},
		{"stage completed", ErrStageCompleted("PO20260122001"), CodeStageCompleted, http.StatusConflict},
		{"gateway", ErrGatewayUnavailable(""), CodeGatewayUnavailable, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
		})
	}
}
