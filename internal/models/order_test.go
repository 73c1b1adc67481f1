package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeforeCreateGeneratesUniqueOrderNumbers(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		order := &Order{}
		require.NoError(t, order.BeforeCreate(nil))
		assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
		assert.False(t, seen[order.OrderNumber], "duplicate order number %s", order.OrderNumber)
		seen[order.OrderNumber] = true
		assert.False(t, order.PlacedAt.IsZero())
	}
}

func TestBeforeCreateKeepsPresetFields(t *testing.T) {
	order := &Order{OrderNumber: "ORD-IMPORTED-1"}
	require.NoError(t, order.BeforeCreate(nil))
	assert.Equal(t, "ORD-IMPORTED-1", order.OrderNumber)
}
