package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityPrecheck(t *testing.T) {
	snapshot := testSnapshot()
	check := QuantityPrecheck{}

	issues := check.Precheck(context.Background(),
		&SubmissionPayload{Color: "黑色", Size: "L", Quantity: 200}, snapshot)
	require.Len(t, issues, 1)
	assert.Equal(t, "quantity exceeds order line", issues[0].Title)
	assert.Contains(t, issues[0].Reason, "200")

	assert.Empty(t, check.Precheck(context.Background(),
		&SubmissionPayload{Color: "黑色", Size: "L", Quantity: 120}, snapshot),
		"a quantity at the line limit passes")

	assert.Empty(t, check.Precheck(context.Background(),
		&SubmissionPayload{Color: "红色", Size: "S", Quantity: 999}, snapshot),
		"no matching line, nothing to compare against")

	assert.Empty(t, check.Precheck(context.Background(),
		&SubmissionPayload{Quantity: 999}, snapshot))
}
