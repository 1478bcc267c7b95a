package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mica-backend/internal/models"
)

func TestBuildOrderDeltas(t *testing.T) {
	items := []models.OrderItem{
		{SubProductID: 4, QuantityKg: 100},
		{SubProductID: 8, QuantityKg: 50},
	}

	deltas := BuildOrderDeltas(items)
	require.Len(t, deltas, 2)

	byKey := make(map[string]float64)
	for _, d := range deltas {
		byKey[d.Key] = d.Delta
	}
	assert.InDelta(t, -100, byKey["finished_4"], 1e-9)
	assert.InDelta(t, -50, byKey["finished_8"], 1e-9)
}

func TestBuildOrderDeltasMergesDuplicateSubProducts(t *testing.T) {
	items := []models.OrderItem{
		{SubProductID: 4, QuantityKg: 100},
		{SubProductID: 4, QuantityKg: 25},
	}

	deltas := BuildOrderDeltas(items)
	require.Len(t, deltas, 1)
	assert.Equal(t, "finished_4", deltas[0].Key)
	assert.InDelta(t, -125, deltas[0].Delta, 1e-9)
}

func TestBuildOrderDeltasEmpty(t *testing.T) {
	assert.Empty(t, BuildOrderDeltas(nil))
}
