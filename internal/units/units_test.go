package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToCanonicalKg(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		unit     string
		want     float64
	}{
		{"tonne", 2, "tonne", 2000},
		{"tonnes plural", 1.5, "tonnes", 1500},
		{"t shorthand", 3, "t", 3000},
		{"tonne uppercase", 2, "Tonne", 2000},
		{"bag unit", 3, "50kg", 150},
		{"bag unit with space", 4, "25 kg", 100},
		{"fractional bag", 2, "12.5kg", 25},
		{"plain kg", 10, "kg", 10},
		{"unrecognized falls back to kg", 5, "bogus", 5},
		{"empty unit falls back to kg", 7, "", 7},
		{"zero quantity", 0, "tonne", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToCanonicalKg(tt.quantity, tt.unit))
		})
	}
}

func TestNormalizeBagSpec(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		unit   string
		want   BagSpec
	}{
		{"clean kg", 50, "kg", BagSpec{Weight: 50, Unit: "kg"}},
		{"clean tonne", 1, "tonne", BagSpec{Weight: 1, Unit: "tonne"}},
		{"weight embedded in unit", 50, "50kg", BagSpec{Weight: 50, Unit: "kg"}},
		{"embedded overrides stored weight", 999, "25kg", BagSpec{Weight: 25, Unit: "kg"}},
		{"ambiguous unit defaults to kg", 40, "bags", BagSpec{Weight: 40, Unit: "kg"}},
		{"missing weight coerces to zero", 0, "kg", BagSpec{Weight: 0, Unit: "kg"}},
		{"negative weight coerces to zero", -5, "kg", BagSpec{Weight: 0, Unit: "kg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBagSpec(tt.weight, tt.unit))
		})
	}
}

// Normalizing an already-normalized spec must yield the identical spec.
func TestNormalizeBagSpecIdempotent(t *testing.T) {
	inputs := []struct {
		weight float64
		unit   string
	}{
		{50, "50kg"},
		{50, "kg"},
		{2, "tonne"},
		{0, ""},
		{30, "30 kg"},
		{12.5, "12.5kg"},
	}

	for _, in := range inputs {
		first := NormalizeBagSpec(in.weight, in.unit)
		second := NormalizeBagSpec(first.Weight, first.Unit)
		assert.Equal(t, first, second, "spec %v/%q not idempotent", in.weight, in.unit)
	}
}

func TestNormalizeBagSpecNaNWeight(t *testing.T) {
	spec := NormalizeBagSpec(math.NaN(), "kg")
	assert.Equal(t, BagSpec{Weight: 0, Unit: "kg"}, spec)
}

func TestBagKg(t *testing.T) {
	assert.Equal(t, 50.0, BagSpec{Weight: 50, Unit: "kg"}.BagKg())
	assert.Equal(t, 2000.0, BagSpec{Weight: 2, Unit: "tonne"}.BagKg())
}
