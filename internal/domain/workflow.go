package domain

import (
	"sort"
)

// ProcessNode is one step of an order's configured production workflow.
type ProcessNode struct {
	Name          string  `json:"name" bson:"name"`
	UnitPrice     float64 `json:"unitPrice" bson:"unit_price"`
	SortOrder     int     `json:"sortOrder" bson:"sort_order"`
	ProgressStage string  `json:"progressStage,omitempty" bson:"progress_stage,omitempty"`
}

// OrderLine is one color/size specification of an order.
type OrderLine struct {
	Color    string `json:"color" bson:"color"`
	Size     string `json:"size" bson:"size"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

// OrderSnapshot is the read-only order/workflow state supplied to stage
// resolution. ScannedByBundle maps a bundle number to the process names
// already recorded against that ticket.
type OrderSnapshot struct {
	OrderNo         string              `json:"orderNo"`
	OrderID         string              `json:"orderId,omitempty"`
	StyleNo         string              `json:"styleNo,omitempty"`
	ProcessNodes    []ProcessNode       `json:"processNodes"`
	Lines           []OrderLine         `json:"lines,omitempty"`
	ScannedByBundle map[string][]string `json:"scannedByBundle,omitempty"`
	OverallProgress int                 `json:"overallProgress"`
	ActiveStageName string              `json:"activeStageName,omitempty"`
}

// BundleProgressState is the set of process names already scanned for one
// bundle ticket.
type BundleProgressState struct {
	ScannedProcessNames []string
}

// Progress returns the bundle state recorded for bundleNo, or an empty
// state when the ticket has no scans yet.
func (s *OrderSnapshot) Progress(bundleNo string) BundleProgressState {
	if s.ScannedByBundle == nil {
		return BundleProgressState{}
	}
	return BundleProgressState{ScannedProcessNames: s.ScannedByBundle[bundleNo]}
}

// OrderedNodes returns the workflow sorted by SortOrder. The receiver's
// slice is not modified.
func (s *OrderSnapshot) OrderedNodes() []ProcessNode {
	nodes := make([]ProcessNode, len(s.ProcessNodes))
	copy(nodes, s.ProcessNodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].SortOrder < nodes[j].SortOrder
	})
	return nodes
}

// RemainingNodes returns the ordered workflow steps not yet present in the
// scanned set.
func (s *OrderSnapshot) RemainingNodes(state BundleProgressState) []ProcessNode {
	scanned := make(map[string]bool, len(state.ScannedProcessNames))
	for _, name := range state.ScannedProcessNames {
		scanned[name] = true
	}

	var remaining []ProcessNode
	for _, node := range s.OrderedNodes() {
		if !scanned[node.Name] {
			remaining = append(remaining, node)
		}
	}
	return remaining
}

// LineQuantity returns the quantity of the order line matching the given
// color and size, or 0 when no line matches.
func (s *OrderSnapshot) LineQuantity(color, size string) int {
	for _, line := range s.Lines {
		if line.Color == color && line.Size == size {
			return line.Quantity
		}
	}
	return 0
}

// NodeByName returns the workflow node with the given name.
func (s *OrderSnapshot) NodeByName(name string) (ProcessNode, bool) {
	for _, node := range s.ProcessNodes {
		if node.Name == name {
			return node, true
		}
	}
	return ProcessNode{}, false
}

// StageDecision is the outcome of stage resolution for one scan.
// IsCompleted and IsDuplicate are mutually exclusive terminal flags; either
// halts progression before submission.
type StageDecision struct {
	ProcessName   string  `json:"processName,omitempty"`
	ProgressStage string  `json:"progressStage,omitempty"`
	ScanType      string  `json:"scanType,omitempty"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`

	IsDuplicate        bool   `json:"isDuplicate"`
	IsCompleted        bool   `json:"isCompleted"`
	IsHandoff          bool   `json:"isHandoff"`
	DeferToProcurement bool   `json:"deferToProcurement"`
	Hint               string `json:"hint,omitempty"`

	ScannedProcessNames []string `json:"scannedProcessNames,omitempty"`
	AllProcessNames     []string `json:"allProcessNames,omitempty"`
}

// Blocked reports whether the decision halts submission.
func (d *StageDecision) Blocked() bool {
	return d.IsCompleted || d.IsDuplicate || d.DeferToProcurement
}
