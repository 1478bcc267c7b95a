package models

import "time"

// DailyStat accumulates all production batches for one IST calendar date.
// YieldPercent is always derived from the two running sums on read, never
// stored, so it cannot drift from compounding per-batch rounding.
type DailyStat struct {
	StatDate         string    `json:"stat_date"`
	TotalRawUsedKg   float64   `json:"total_raw_used_kg"`
	TotalProducedKg  float64   `json:"total_produced_kg"`
	TotalLossKg      float64   `json:"total_loss_kg"`
	Batches          int       `json:"batches"`
	HammerChanges    int       `json:"hammer_changes"`
	KnifeChanges     int       `json:"knife_changes"`
	DieselUsedLiters float64   `json:"diesel_used_liters"`
	Workers          int       `json:"workers"`
	YieldPercent     float64   `json:"yield_percent"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ComputeYield recomputes YieldPercent from the running totals.
func (s *DailyStat) ComputeYield() {
	if s.TotalRawUsedKg > 0 {
		s.YieldPercent = s.TotalProducedKg / s.TotalRawUsedKg * 100
	} else {
		s.YieldPercent = 0
	}
}

// DailyCategoryStat accumulates one category's batches for one date.
// ProducedBySub maps sub-product id (as a string key, JSONB column) to
// produced kilograms.
type DailyCategoryStat struct {
	CategoryID    int                `json:"category_id"`
	StatDate      string             `json:"stat_date"`
	RawUsedKg     float64            `json:"raw_used_kg"`
	LossKg        float64            `json:"loss_kg"`
	ProducedBySub map[string]float64 `json:"produced_by_sub"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// StackedPoint is one date's percentage split across a category's
// sub-products, for the 100%-stacked trend chart.
type StackedPoint struct {
	StatDate string             `json:"stat_date"`
	Percent  map[string]float64 `json:"percent"`
}
