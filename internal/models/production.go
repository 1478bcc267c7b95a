package models

import "time"

// ProductionBatch is one completed processing run: raw mica consumed,
// finished sub-products produced. Creating a batch is the single event that
// moves the stock ledger and the daily/category aggregates.
type ProductionBatch struct {
	ID               int              `json:"id"`
	ProcessingDate   string           `json:"processing_date"`
	SupplierID       *int             `json:"supplier_id,omitempty"`
	CategoryID       int              `json:"category_id"`
	RawUsedKg        float64          `json:"raw_used_kg"`
	TotalProducedKg  float64          `json:"total_produced_kg"`
	LossKg           float64          `json:"loss_kg"`
	YieldPercent     float64          `json:"yield_percent"`
	MaleWorkers      int              `json:"male_workers"`
	FemaleWorkers    int              `json:"female_workers"`
	DieselUsedLiters float64          `json:"diesel_used_liters"`
	HammerChanges    int              `json:"hammer_changes"`
	KnifeChanges     int              `json:"knife_changes"`
	Notes            string           `json:"notes"`
	Lines            []ProductionLine `json:"lines"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Workers returns the total worker count for aggregate folding.
func (b *ProductionBatch) Workers() int {
	return b.MaleWorkers + b.FemaleWorkers
}

// ProductionLine is one produced sub-product within a batch, already in
// canonical kilograms.
type ProductionLine struct {
	ID           int     `json:"id"`
	BatchID      int     `json:"batch_id"`
	SubProductID int     `json:"sub_product_id"`
	QuantityKg   float64 `json:"quantity_kg"`
}

// QuantityInput is a quantity as entered: a number plus whatever unit the
// form offered (kg, tonne, "50kg" bag units). Normalized at the boundary.
type QuantityInput struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// CreateProductionBatchRequest is the single canonical input shape for a
// production batch; every call site builds this struct instead of passing
// loosely-named fields around.
type CreateProductionBatchRequest struct {
	ProcessingDate   string                `json:"processing_date"`
	SupplierID       *int                  `json:"supplier_id"`
	CategoryID       int                   `json:"category_id"`
	RawUsed          QuantityInput         `json:"raw_used"`
	Lines            []ProductionLineInput `json:"lines"`
	MaleWorkers      int                   `json:"male_workers"`
	FemaleWorkers    int                   `json:"female_workers"`
	DieselUsedLiters float64               `json:"diesel_used_liters"`
	HammerChanges    int                   `json:"hammer_changes"`
	KnifeChanges     int                   `json:"knife_changes"`
	Notes            string                `json:"notes"`
}

type ProductionLineInput struct {
	SubProductID int           `json:"sub_product_id"`
	Quantity     QuantityInput `json:"quantity"`
}

// RecordBatchResult is what the UI gets back after submitting a batch. The
// batch record is the durable source of truth; StockUpdated/StatsUpdated are
// false when a downstream step failed and derived data may lag.
type RecordBatchResult struct {
	Batch        *ProductionBatch `json:"batch"`
	StockUpdated bool             `json:"stock_updated"`
	StatsUpdated bool             `json:"stats_updated"`
}

// ProductionFilter narrows batch listings.
type ProductionFilter struct {
	CategoryID int
	SupplierID int
	StartDate  string
	EndDate    string
	Limit      int
	Offset     int
}
