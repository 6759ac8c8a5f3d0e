package application

import (
	"fmt"
	"strings"

	"github.com/garment-mes/scantrack-service/internal/domain"
)

// formatResult builds the operator-facing confirmation line. Each mode has
// its own shape; fields a mode does not carry are never mentioned.
func formatResult(mode domain.ScanMode, parsed *domain.ParsedScanCode, decision *domain.StageDecision, snapshot *domain.OrderSnapshot) string {
	switch mode {
	case domain.ModeBundle:
		return formatBundleResult(parsed, decision)
	case domain.ModeOrder:
		return formatOrderResult(decision, snapshot)
	case domain.ModeSKU:
		return formatSKUResult(parsed, decision)
	case domain.ModePattern:
		return formatPatternResult(parsed, decision)
	default:
		return fmt.Sprintf("recorded %s x%d", decision.ProcessName, decision.Quantity)
	}
}

func formatBundleResult(parsed *domain.ParsedScanCode, decision *domain.StageDecision) string {
	var b strings.Builder
	if parsed.BundleNo != "" {
		fmt.Fprintf(&b, "bundle %s", parsed.BundleNo)
		if parsed.Color != "" && parsed.Size != "" {
			fmt.Fprintf(&b, " (%s/%s)", parsed.Color, parsed.Size)
		}
		b.WriteString(": ")
	} else if parsed.Color != "" && parsed.Size != "" {
		fmt.Fprintf(&b, "%s/%s: ", parsed.Color, parsed.Size)
	}
	fmt.Fprintf(&b, "%s x%d recorded", decision.ProcessName, decision.Quantity)
	if decision.IsHandoff {
		b.WriteString(", handed over to warehousing")
	}
	return b.String()
}

func formatOrderResult(decision *domain.StageDecision, snapshot *domain.OrderSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "order %s: %s recorded", snapshot.OrderNo, decision.ProcessName)
	if decision.Quantity > 0 {
		fmt.Fprintf(&b, " x%d", decision.Quantity)
	}
	if n := len(snapshot.Lines); n > 0 {
		fmt.Fprintf(&b, ", %d specifications processed", n)
	}
	return b.String()
}

func formatSKUResult(parsed *domain.ParsedScanCode, decision *domain.StageDecision) string {
	return fmt.Sprintf("%s/%s: %s x%d recorded",
		parsed.Color, parsed.Size, decision.ProcessName, decision.Quantity)
}

func formatPatternResult(parsed *domain.ParsedScanCode, decision *domain.StageDecision) string {
	var b strings.Builder
	b.WriteString("sample")
	if parsed.PatternID != "" {
		fmt.Fprintf(&b, " %s", parsed.PatternID)
	}
	fmt.Fprintf(&b, ": %s x%d recorded", decision.ProcessName, decision.Quantity)
	return b.String()
}

// appendAdvisories tacks precheck findings onto the confirmation line. The
// submission itself already went out unchanged; these are read-only notes.
func appendAdvisories(message string, issues []domain.PrecheckIssue) string {
	if len(issues) == 0 {
		return message
	}
	var b strings.Builder
	b.WriteString(message)
	for _, issue := range issues {
		b.WriteString("; note: ")
		b.WriteString(issue.Title)
		if issue.Suggestion != "" {
			fmt.Fprintf(&b, " (%s)", issue.Suggestion)
		}
	}
	return b.String()
}
