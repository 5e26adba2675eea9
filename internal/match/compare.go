package match

import (
	"math"

	"hosecross/internal/util"
)

// Similarity returned when an attribute is unknown on either side. Absence
// of data is not evidence of mismatch, so the value sits halfway between
// confirmation and contradiction.
const neutralSimilarity = 0.5

// CompareExact is the all-or-nothing comparator for categorical codes such
// as the nominal diameter or the construction type. A DN6 hose is never a
// partial match for a DN10 hose.
func CompareExact(a, b *string) float64 {
	if a == nil || b == nil {
		return neutralSimilarity
	}
	na := util.NormalizeCategory(*a)
	nb := util.NormalizeCategory(*b)
	if na == "" || nb == "" {
		return neutralSimilarity
	}
	if na == nb {
		return 1
	}
	return 0
}

// CompareNumeric is the tolerance-banded comparator for dimensioned values
// that have already been converted to a shared unit. Within tolPct relative
// difference the values count as equal; similarity decays linearly to zero
// at cutoffPct and stays there beyond it.
func CompareNumeric(a, b *float64, tolPct, cutoffPct float64) float64 {
	if a == nil || b == nil {
		return neutralSimilarity
	}
	va, vb := *a, *b
	if va <= 0 || vb <= 0 {
		return neutralSimilarity
	}
	relPct := math.Abs(va-vb) / math.Max(va, vb) * 100
	switch {
	case relPct <= tolPct:
		return 1
	case relPct >= cutoffPct:
		return 0
	default:
		return (cutoffPct - relPct) / (cutoffPct - tolPct)
	}
}

// CompareTokens scores two standard/norm strings by normalized token
// overlap, divided by the smaller token set so that a supplier variant
// suffix does not hurt: "DIN EN 857" fully matches "DIN EN 857 2SC".
func CompareTokens(a, b *string) float64 {
	if a == nil || b == nil {
		return neutralSimilarity
	}
	ta := util.Tokenize(*a)
	tb := util.Tokenize(*b)
	if len(ta) == 0 || len(tb) == 0 {
		return neutralSimilarity
	}

	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}
	overlap := 0
	seen := map[string]struct{}{}
	for _, t := range tb {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			overlap++
		}
	}

	shorter := len(set)
	if len(seen) < shorter {
		shorter = len(seen)
	}
	return float64(overlap) / float64(shorter)
}
