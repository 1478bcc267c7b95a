package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mica-backend/internal/models"
)

func TestReplayBalances(t *testing.T) {
	supplierID := 1
	purchases := []*models.Purchase{
		{SupplierID: 1, QuantityKg: 1000},
		{SupplierID: 1, QuantityKg: 500},
		{SupplierID: 2, QuantityKg: 300},
	}
	batches := []*models.ProductionBatch{
		{
			SupplierID: &supplierID,
			RawUsedKg:  800,
			Lines: []models.ProductionLine{
				{SubProductID: 10, QuantityKg: 500},
				{SubProductID: 11, QuantityKg: 200},
			},
		},
	}
	orders := []*models.Order{
		{
			Status: models.OrderStatusCompleted,
			Items: []models.OrderItem{
				{SubProductID: 10, QuantityKg: 150},
			},
		},
	}

	balances := ReplayBalances(purchases, batches, orders)

	assert.InDelta(t, 700, balances["raw_1"], 1e-9)  // 1000+500-800
	assert.InDelta(t, 300, balances["raw_2"], 1e-9)
	assert.InDelta(t, 350, balances["finished_10"], 1e-9) // 500-150
	assert.InDelta(t, 200, balances["finished_11"], 1e-9)
}

func TestReplayBalancesBatchWithoutSupplier(t *testing.T) {
	batches := []*models.ProductionBatch{
		{
			RawUsedKg: 100,
			Lines: []models.ProductionLine{
				{SubProductID: 5, QuantityKg: 80},
			},
		},
	}

	balances := ReplayBalances(nil, batches, nil)

	assert.InDelta(t, 80, balances["finished_5"], 1e-9)
	for key := range balances {
		assert.NotContains(t, key, models.RawKeyPrefix)
	}
}

func TestAssembleSummary(t *testing.T) {
	balances := map[string]float64{
		"raw_1":       700,
		"raw_2":       300,
		"finished_10": 350,
		"finished_11": 200,
	}
	suppliers := []*models.Supplier{
		{ID: 1, Name: "Jharia Mines"},
		{ID: 2, Name: "Koderma Traders"},
		{ID: 3, Name: "New Supplier"},
	}
	categories := []*models.Category{
		{
			ID:   1,
			Name: "Flakes",
			SubProducts: []models.SubProduct{
				{ID: 10, CategoryID: 1, Name: "Fine"},
				{ID: 11, CategoryID: 1, Name: "Coarse"},
			},
		},
		{ID: 2, Name: "Powder", SubProducts: []models.SubProduct{}},
	}

	summary := AssembleSummary(balances, suppliers, categories)

	assert.InDelta(t, 1000, summary.RawStockTotalKg, 1e-9)
	require.Len(t, summary.RawStockPerSupplier, 3)
	assert.InDelta(t, 0, summary.RawStockPerSupplier[2].StockKg, 1e-9)

	require.Len(t, summary.FinishedPerCategory, 2)
	assert.InDelta(t, 550, summary.FinishedPerCategory[0].StockKg, 1e-9)
	assert.InDelta(t, 0, summary.FinishedPerCategory[1].StockKg, 1e-9)

	require.Len(t, summary.FinishedPerSub, 2)
	assert.Equal(t, "Fine", summary.FinishedPerSub[0].SubProductName)
	assert.Equal(t, "Flakes", summary.FinishedPerSub[0].CategoryName)
}

func TestAssembleSummarySkipsDanglingBuckets(t *testing.T) {
	// Bucket for a sub-product that no longer exists
	balances := map[string]float64{
		"raw_1":       100,
		"finished_99": 40,
	}
	suppliers := []*models.Supplier{{ID: 1, Name: "A"}}
	categories := []*models.Category{
		{ID: 1, Name: "Flakes", SubProducts: []models.SubProduct{{ID: 10, CategoryID: 1, Name: "Fine"}}},
	}

	summary := AssembleSummary(balances, suppliers, categories)

	for _, sp := range summary.FinishedPerSub {
		assert.NotEqual(t, 99, sp.SubProductID)
	}
	assert.InDelta(t, 100, summary.RawStockTotalKg, 1e-9)
}
