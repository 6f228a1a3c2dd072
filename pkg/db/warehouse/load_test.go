package warehouse_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opstream/ordersync/pkg/db/warehouse"
)

func strPtr(s string) *string { return &s }

func TestActorID(t *testing.T) {
	tests := []struct {
		name  string
		actor *string
		want  string
	}{
		{"numeric id", strPtr("7"), "7"},
		{"large id", strPtr("4203381"), "4203381"},
		{"leading zeros normalized", strPtr("007"), "7"},
		{"missing actor", nil, "-1"},
		{"free-form username", strPtr("batch-job"), "-1"},
		{"negative id", strPtr("-3"), "-1"},
		{"empty string", strPtr(""), "-1"},
		{"padded number", strPtr(" 7"), "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, warehouse.ActorID(tt.actor))
		})
	}
}

func TestBatchError(t *testing.T) {
	cause := errors.New("value too long for type character varying(20)")
	err := &warehouse.BatchError{
		Table:  "analytics.analytical_orders",
		Index:  1042,
		Record: "order 9",
		Err:    cause,
	}

	assert.Equal(t, "analytics.analytical_orders batch statement 1042 failed: value too long for type character varying(20)", err.Error())
	require.ErrorIs(t, err, cause)
}
