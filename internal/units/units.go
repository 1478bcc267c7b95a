// Package units converts user-entered quantities into canonical kilograms.
// Every quantity in the system is normalized through here before any
// arithmetic or storage happens.
package units

import (
	"regexp"
	"strconv"
	"strings"
)

// BagSpec is a normalized bag specification: a numeric weight plus a clean
// unit. Unit is always "kg" or "tonne" after normalization.
type BagSpec struct {
	Weight float64 `json:"weight"`
	Unit   string  `json:"unit"`
}

const (
	UnitKg    = "kg"
	UnitTonne = "tonne"
)

// bagUnitRe matches bag-style units like "50kg" or "50 kg": N bags of that
// many kilograms each.
var bagUnitRe = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*kg$`)

// ToCanonicalKg converts a quantity expressed in the given unit to
// kilograms. Rules, in priority order:
//
//  1. tonne/tonnes/t: quantity x 1000
//  2. "<n>kg" bag unit: quantity x n (quantity counts bags)
//  3. kg, kilogram(s), or anything unrecognized: quantity as-is
//
// Kilograms are the deliberate fallback so a typo in the unit records the
// raw number rather than dropping the entry.
func ToCanonicalKg(quantity float64, unit string) float64 {
	u := strings.ToLower(strings.TrimSpace(unit))

	switch u {
	case "tonne", "tonnes", "t":
		return quantity * 1000
	}

	if m := bagUnitRe.FindStringSubmatch(u); m != nil {
		bagKg, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0
		}
		return quantity * bagKg
	}

	return quantity
}

// NormalizeBagSpec resolves a stored defaultBagWeight + defaultUnit pair to
// a canonical spec. Three legacy storage shapes are handled: a clean numeric
// weight with a clean unit, the weight embedded in the unit string ("50kg"),
// and an ambiguous unit that defaults to kg. Idempotent: normalizing an
// already-normalized spec yields the same spec.
//
// Non-numeric or missing weights coerce to 0 rather than erroring; recording
// nothing beats failing the whole form.
func NormalizeBagSpec(weight float64, unit string) BagSpec {
	u := strings.ToLower(strings.TrimSpace(unit))

	switch u {
	case "tonne", "tonnes", "t":
		return BagSpec{Weight: nonNegative(weight), Unit: UnitTonne}
	}

	// Weight embedded in the unit string ("50kg"): the embedded number wins
	// over whatever is in the weight column.
	if m := bagUnitRe.FindStringSubmatch(u); m != nil {
		embedded, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			embedded = 0
		}
		return BagSpec{Weight: embedded, Unit: UnitKg}
	}

	return BagSpec{Weight: nonNegative(weight), Unit: UnitKg}
}

// BagKg returns the kilogram weight of one bag under this spec.
func (s BagSpec) BagKg() float64 {
	if s.Unit == UnitTonne {
		return s.Weight * 1000
	}
	return s.Weight
}

func nonNegative(v float64) float64 {
	if v < 0 || v != v { // v != v catches NaN from upstream math
		return 0
	}
	return v
}
