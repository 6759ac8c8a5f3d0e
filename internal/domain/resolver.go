package domain

import (
	"fmt"
	"strings"
)

// DefaultHandoffProcessName is the process name routed to the specialized
// warehousing confirmation flow. Deployments rename it via configuration.
const DefaultHandoffProcessName = "warehousing"

// DefaultProcurementStageName is the order stage that defers resolution to
// procurement-specific handling.
const DefaultProcurementStageName = "procurement"

// ResolveOptions carries per-call resolution inputs.
type ResolveOptions struct {
	// ProcessOverride, when it names a configured workflow node, replaces
	// the automatically detected process. Unrecognized names are ignored.
	ProcessOverride string
}

// StageResolver determines the next legal production step for a scan given
// the order's workflow and the scans already recorded.
type StageResolver struct {
	handoffName     string
	procurementName string
	replayGuard     ScanGuard
}

// StageResolverConfig configures a StageResolver.
type StageResolverConfig struct {
	HandoffProcessName   string
	ProcurementStageName string
	// ReplayGuard flags identical bundle-stage scans inside a short
	// window as duplicates. Required.
	ReplayGuard ScanGuard
}

// NewStageResolver creates a resolver. Empty names fall back to defaults.
func NewStageResolver(cfg StageResolverConfig) *StageResolver {
	handoff := cfg.HandoffProcessName
	if handoff == "" {
		handoff = DefaultHandoffProcessName
	}
	procurement := cfg.ProcurementStageName
	if procurement == "" {
		procurement = DefaultProcurementStageName
	}
	return &StageResolver{
		handoffName:     handoff,
		procurementName: procurement,
		replayGuard:     cfg.ReplayGuard,
	}
}

// replayKey identifies one bundle-stage scan for replay suppression.
func replayKey(orderNo, bundleNo, process string) string {
	return orderNo + "|" + bundleNo + "|" + process
}

// Resolve computes the stage decision for a parsed code in the given mode.
// Completion and duplication come back as decision flags; missing order
// context and unresolvable quantity come back as errors.
func (r *StageResolver) Resolve(mode ScanMode, parsed *ParsedScanCode, snapshot *OrderSnapshot, opts ResolveOptions) (*StageDecision, error) {
	if snapshot == nil {
		return nil, ErrOrderNotFound
	}
	if len(snapshot.ProcessNodes) == 0 {
		return nil, ErrNoWorkflowConfigured
	}

	var decision *StageDecision
	var err error

	switch mode {
	case ModeBundle:
		decision, err = r.resolveBundle(parsed, snapshot)
	case ModeOrder:
		decision, err = r.resolveOrder(parsed, snapshot)
	case ModeSKU:
		decision, err = r.resolveSKU(parsed, snapshot)
	case ModePattern:
		decision, err = r.resolvePattern(parsed, snapshot)
	default:
		decision, err = r.resolveBundle(parsed, snapshot)
	}
	if err != nil {
		return nil, err
	}

	r.applyOverride(decision, snapshot, opts.ProcessOverride)

	if decision.ProcessName == r.handoffName {
		decision.IsHandoff = true
	}
	return decision, nil
}

// resolveBundle walks the ticket's remaining workflow steps.
func (r *StageResolver) resolveBundle(parsed *ParsedScanCode, snapshot *OrderSnapshot) (*StageDecision, error) {
	if parsed.OrderNo == "" {
		return nil, ErrMissingOrderContext
	}

	state := snapshot.Progress(parsed.BundleNo)
	remaining := snapshot.RemainingNodes(state)

	decision := &StageDecision{
		Quantity:            parsed.Quantity,
		ScannedProcessNames: state.ScannedProcessNames,
		AllProcessNames:     processNames(snapshot.OrderedNodes()),
	}

	if len(remaining) == 0 {
		decision.IsCompleted = true
		decision.Hint = fmt.Sprintf("all %d steps of bundle %s are already recorded", len(snapshot.ProcessNodes), parsed.BundleNo)
		return decision, nil
	}

	next := remaining[0]

	if r.replayGuard != nil && r.replayGuard.IsDuplicate(replayKey(parsed.OrderNo, parsed.BundleNo, next.Name)) {
		decision.IsDuplicate = true
		decision.ProcessName = next.Name
		decision.Hint = fmt.Sprintf("step %q was just scanned for this ticket", next.Name)
		return decision, nil
	}

	decision.ProcessName = next.Name
	decision.ProgressStage = next.ProgressStage
	decision.ScanType = next.Name
	decision.UnitPrice = next.UnitPrice
	return decision, nil
}

// resolveOrder uses the order's overall progress and active stage rather
// than a specific ticket.
func (r *StageResolver) resolveOrder(parsed *ParsedScanCode, snapshot *OrderSnapshot) (*StageDecision, error) {
	decision := &StageDecision{
		Quantity:        parsed.Quantity,
		AllProcessNames: processNames(snapshot.OrderedNodes()),
	}

	if snapshot.OverallProgress >= 100 {
		decision.IsCompleted = true
		decision.Hint = fmt.Sprintf("order %s is fully processed", snapshot.OrderNo)
		return decision, nil
	}

	if snapshot.ActiveStageName != "" && strings.EqualFold(snapshot.ActiveStageName, r.procurementName) {
		decision.DeferToProcurement = true
		decision.ProgressStage = snapshot.ActiveStageName
		decision.Hint = "order is in procurement; use the procurement flow"
		return decision, nil
	}

	node, ok := snapshot.NodeByName(snapshot.ActiveStageName)
	if !ok {
		// No explicit active stage: position by progress percentage.
		// Progress outside 0-100 happens with hand-edited order documents;
		// clamp rather than trust the stored value.
		nodes := snapshot.OrderedNodes()
		idx := snapshot.OverallProgress * len(nodes) / 100
		if idx < 0 {
			idx = 0
		}
		if idx >= len(nodes) {
			idx = len(nodes) - 1
		}
		node = nodes[idx]
	}

	if r.replayGuard != nil && r.replayGuard.IsDuplicate(replayKey(snapshot.OrderNo, "", node.Name)) {
		decision.IsDuplicate = true
		decision.ProcessName = node.Name
		decision.Hint = fmt.Sprintf("stage %q was just recorded for this order", node.Name)
		return decision, nil
	}

	decision.ProcessName = node.Name
	decision.ProgressStage = node.ProgressStage
	decision.ScanType = node.Name
	decision.UnitPrice = node.UnitPrice
	return decision, nil
}

// resolveSKU requires a quantity from the code or a matching order line.
func (r *StageResolver) resolveSKU(parsed *ParsedScanCode, snapshot *OrderSnapshot) (*StageDecision, error) {
	quantity := parsed.Quantity
	if quantity == 0 {
		quantity = snapshot.LineQuantity(parsed.Color, parsed.Size)
	}
	if quantity == 0 {
		return nil, ErrManualQuantityRequired
	}

	decision, err := r.resolveOrder(parsed, snapshot)
	if err != nil {
		return nil, err
	}
	decision.Quantity = quantity
	return decision, nil
}

// resolvePattern records sample production against the first workflow step.
func (r *StageResolver) resolvePattern(parsed *ParsedScanCode, snapshot *OrderSnapshot) (*StageDecision, error) {
	nodes := snapshot.OrderedNodes()
	next := nodes[0]

	return &StageDecision{
		ProcessName:     next.Name,
		ProgressStage:   next.ProgressStage,
		ScanType:        next.Name,
		Quantity:        parsed.Quantity,
		UnitPrice:       next.UnitPrice,
		AllProcessNames: processNames(nodes),
	}, nil
}

// applyOverride merges an explicit desired process into the decision when
// it names a configured node. Terminal decisions are left untouched.
func (r *StageResolver) applyOverride(decision *StageDecision, snapshot *OrderSnapshot, override string) {
	if override == "" || decision.Blocked() {
		return
	}
	node, ok := snapshot.NodeByName(override)
	if !ok {
		return
	}
	decision.ProcessName = node.Name
	decision.ProgressStage = node.ProgressStage
	decision.ScanType = node.Name
	decision.UnitPrice = node.UnitPrice
}

func processNames(nodes []ProcessNode) []string {
	names := make([]string, 0, len(nodes))
	for _, node := range nodes {
		names = append(names, node.Name)
	}
	return names
}
