package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mica-backend/internal/models"
)

func TestComputeBatchTotals(t *testing.T) {
	tests := []struct {
		name       string
		rawKg      float64
		producedKg float64
		wantLoss   float64
		wantYield  float64
	}{
		{"typical batch", 1000, 650, 350, 65},
		{"perfect yield", 500, 500, 0, 100},
		{"nothing produced", 200, 0, 200, 0},
		{"produced exceeds raw clamps loss", 100, 110, 0, 110},
		{"zero raw", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loss, yield := ComputeBatchTotals(tt.rawKg, tt.producedKg)
			assert.InDelta(t, tt.wantLoss, loss, 1e-9)
			assert.InDelta(t, tt.wantYield, yield, 1e-9)
		})
	}
}

func TestBuildBatchDeltas(t *testing.T) {
	supplierID := 7
	batch := &models.ProductionBatch{
		SupplierID: &supplierID,
		RawUsedKg:  1000,
		Lines: []models.ProductionLine{
			{SubProductID: 3, QuantityKg: 400},
			{SubProductID: 5, QuantityKg: 200},
			{SubProductID: 3, QuantityKg: 50},
		},
	}

	deltas := BuildBatchDeltas(batch)
	require.Len(t, deltas, 3)

	byKey := make(map[string]float64)
	for _, d := range deltas {
		byKey[d.Key] = d.Delta
	}
	assert.InDelta(t, -1000, byKey["raw_7"], 1e-9)
	assert.InDelta(t, 450, byKey["finished_3"], 1e-9)
	assert.InDelta(t, 200, byKey["finished_5"], 1e-9)
}

func TestBuildBatchDeltasNoSupplier(t *testing.T) {
	batch := &models.ProductionBatch{
		RawUsedKg: 300,
		Lines: []models.ProductionLine{
			{SubProductID: 1, QuantityKg: 250},
		},
	}

	deltas := BuildBatchDeltas(batch)
	require.Len(t, deltas, 1)
	assert.Equal(t, "finished_1", deltas[0].Key)
	assert.InDelta(t, 250, deltas[0].Delta, 1e-9)
}

func TestBuildBatchDeltasDeterministicOrder(t *testing.T) {
	supplierID := 2
	batch := &models.ProductionBatch{
		SupplierID: &supplierID,
		RawUsedKg:  100,
		Lines: []models.ProductionLine{
			{SubProductID: 9, QuantityKg: 10},
			{SubProductID: 1, QuantityKg: 10},
		},
	}

	first := BuildBatchDeltas(batch)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildBatchDeltas(batch))
	}
}
