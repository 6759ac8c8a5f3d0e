package domain

import (
	"context"
	"fmt"
)

// PrecheckIssue is one advisory finding raised before submission.
type PrecheckIssue struct {
	Title      string `json:"title"`
	Reason     string `json:"reason,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PrecheckAdvisory inspects a submission about to be sent. Findings are
// purely advisory: they are appended to the operator message and never
// block or mutate the submission.
type PrecheckAdvisory interface {
	Precheck(ctx context.Context, payload *SubmissionPayload, snapshot *OrderSnapshot) []PrecheckIssue
}

// QuantityPrecheck flags a scan whose quantity exceeds the matching
// color/size order line.
type QuantityPrecheck struct{}

func (QuantityPrecheck) Precheck(_ context.Context, payload *SubmissionPayload, snapshot *OrderSnapshot) []PrecheckIssue {
	if payload == nil || snapshot == nil || payload.Color == "" || payload.Size == "" {
		return nil
	}

	line := snapshot.LineQuantity(payload.Color, payload.Size)
	if line == 0 || payload.Quantity <= line {
		return nil
	}

	return []PrecheckIssue{{
		Title:      "quantity exceeds order line",
		Reason:     fmt.Sprintf("scanned %d against a %s/%s line of %d", payload.Quantity, payload.Color, payload.Size, line),
		Suggestion: "verify the ticket quantity",
	}}
}
