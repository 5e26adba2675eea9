// Package units converts the physical quantities that appear in supplier
// catalogs (pressure, length) into a canonical unit before comparison.
// Conversion factors are exact rationals so repeated runs over identical
// input produce identical scores.
package units

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnrecognizedUnit = errors.New("unrecognized unit")

type Quantity string

const (
	Pressure Quantity = "pressure"
	Length   Quantity = "length"
)

// ratio is an exact conversion factor into the canonical unit of a quantity.
type ratio struct {
	num int64
	den int64
}

// Canonical units: MPa for pressure, mm for length.
var factors = map[Quantity]map[string]ratio{
	Pressure: {
		"MPA": {1, 1},
		"BAR": {1, 10},
		"PSI": {6894757, 1000000000},
	},
	Length: {
		"MM":   {1, 1},
		"INCH": {127, 5},
		"IN":   {127, 5},
	},
}

// Convert turns value expressed in fromUnit into toUnit. Both units must
// belong to the same quantity; an unknown unit tag yields
// ErrUnrecognizedUnit, which callers treat as "attribute unavailable"
// rather than a failure.
func Convert(q Quantity, value float64, fromUnit, toUnit string) (float64, error) {
	from, err := factor(q, fromUnit)
	if err != nil {
		return 0, err
	}
	to, err := factor(q, toUnit)
	if err != nil {
		return 0, err
	}
	// value * from / to, keeping the rational parts together to avoid
	// intermediate drift.
	return value * float64(from.num*to.den) / float64(from.den*to.num), nil
}

// ToCanonical converts a value into the quantity's canonical unit
// (MPa for pressure, mm for length).
func ToCanonical(q Quantity, value float64, fromUnit string) (float64, error) {
	from, err := factor(q, fromUnit)
	if err != nil {
		return 0, err
	}
	return value * float64(from.num) / float64(from.den), nil
}

func factor(q Quantity, unit string) (ratio, error) {
	table, ok := factors[q]
	if !ok {
		return ratio{}, fmt.Errorf("%w: quantity %s", ErrUnrecognizedUnit, q)
	}
	r, ok := table[strings.ToUpper(strings.TrimSpace(unit))]
	if !ok {
		return ratio{}, fmt.Errorf("%w: %s", ErrUnrecognizedUnit, unit)
	}
	return r, nil
}
