package domain

import "errors"

// Domain errors signalled by stage resolution. Blocking-but-expected
// outcomes (completion, duplication) are decision flags, not errors; these
// errors force the caller to branch.
var (
	// ErrMissingOrderContext means a bundle scan carried no order number;
	// without order context the ticket cannot be placed in any workflow.
	ErrMissingOrderContext = errors.New("bundle scan requires an order number")

	// ErrManualQuantityRequired means no quantity could be derived from
	// the scan or the order lines; the operator must key one in.
	ErrManualQuantityRequired = errors.New("quantity required: manual input needed")

	// ErrOrderNotFound means the order snapshot could not be located.
	ErrOrderNotFound = errors.New("order not found")

	// ErrNoWorkflowConfigured means the order has no process nodes set up.
	ErrNoWorkflowConfigured = errors.New("order has no configured workflow")
)
