package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Ledger key namespaces. Raw stock is partitioned by supplier, finished
// stock by sub-product.
const (
	RawKeyPrefix      = "raw_"
	FinishedKeyPrefix = "finished_"
)

// RawKey builds the ledger key for a supplier's raw stock bucket.
func RawKey(supplierID int) string {
	return RawKeyPrefix + strconv.Itoa(supplierID)
}

// FinishedKey builds the ledger key for a sub-product's finished stock bucket.
func FinishedKey(subProductID int) string {
	return FinishedKeyPrefix + strconv.Itoa(subProductID)
}

// ParseLedgerID extracts the numeric id out of a ledger key, returning ok
// false for keys outside the given namespace.
func ParseLedgerID(key, prefix string) (int, bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
	if err != nil {
		return 0, false
	}
	return id, true
}

// StockLedgerEntry is one stock bucket's signed running total in kilograms.
type StockLedgerEntry struct {
	Key       string    `json:"key"`
	StockKg   float64   `json:"stock_kg"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockDelta is one signed adjustment within an atomic apply batch.
type StockDelta struct {
	Key   string  `json:"key"`
	Delta float64 `json:"delta"`
}

// StockError reports an apply batch rejected because it would drive a
// bucket negative. Have/Need are in kilograms.
type StockError struct {
	Key  string
	Have float64
	Need float64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: have %.2fkg, need %.2fkg", e.Key, e.Have, e.Need)
}

// InventorySummary is the denormalized stock rollup the dashboard renders.
// Source is "ledger" normally, "history" when the figures were reconstructed
// by replaying production batches (finished ledger uninitialized).
type InventorySummary struct {
	RawStockTotalKg     float64           `json:"raw_stock_total_kg"`
	RawStockPerSupplier []SupplierStock   `json:"raw_stock_per_supplier"`
	FinishedPerCategory []CategoryStock   `json:"finished_stock_per_category"`
	FinishedPerSub      []SubProductStock `json:"finished_stock_per_sub_product"`
	Source              string            `json:"source"`
}

type SupplierStock struct {
	SupplierID   int     `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	StockKg      float64 `json:"stock_kg"`
}

type CategoryStock struct {
	CategoryID   int     `json:"category_id"`
	CategoryName string  `json:"category_name"`
	StockKg      float64 `json:"stock_kg"`
}

type SubProductStock struct {
	SubProductID   int     `json:"sub_product_id"`
	SubProductName string  `json:"sub_product_name"`
	CategoryID     int     `json:"category_id"`
	CategoryName   string  `json:"category_name"`
	StockKg        float64 `json:"stock_kg"`
}
