package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Status
	}{
		{"Uppercase", "ASSIGNED", StatusAssigned},
		{"Lowercase", "assigned", StatusAssigned},
		{"MixedCase", "ReSoLvEd", StatusResolved},
		{"Whitespace", "  pending_approval  ", StatusPendingApproval},
		{"InProgress", "in_progress", StatusInProgress},
		{"Rejected", "REJECTED", StatusRejected},
		{"Suspended", "suspended", StatusSuspended},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	_, err := ParseStatus("bogus")
	require.Error(t, err)

	var statusErr *InvalidStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "bogus", statusErr.Input)

	// The message enumerates every valid value.
	for _, status := range AllStatuses {
		assert.Contains(t, err.Error(), string(status))
	}
}

func TestParseStatus_Empty(t *testing.T) {
	_, err := ParseStatus("")
	require.Error(t, err)

	var statusErr *InvalidStatusError
	assert.True(t, errors.As(err, &statusErr))
}
