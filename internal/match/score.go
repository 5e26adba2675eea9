package match

import (
	"fmt"
	"math"

	"hosecross/internal"
	"hosecross/internal/config"
	"hosecross/internal/units"
	"hosecross/internal/util"
)

// Attribute weights, highest first. The nominal diameter dominates because
// it is the hard physical-compatibility constraint; pressure and standard
// carry the safety/compliance weight; construction and inner diameter are
// refinements. The weights sum to 1.0 and also fix the order in which
// reasons are reported.
var weightTable = []struct {
	attr   string
	weight float64
}{
	{internal.AttrDN, 0.30},
	{internal.AttrPressure, 0.25},
	{internal.AttrStandard, 0.20},
	{internal.AttrConstruction, 0.15},
	{internal.AttrInnerDiameter, 0.10},
}

// Similarity at or above this level earns the attribute a reason line.
const reasonThreshold = 0.9

type Scorer struct {
	cfg config.Config
}

func NewScorer(cfg config.Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score compares one Balflex record against one Heizmann record and always
// returns a candidate; an impossible pairing simply lands in TierNone.
func (s *Scorer) Score(a, b internal.ProductRecord) internal.MatchCandidate {
	pa := canonicalPressureMPa(a)
	pb := canonicalPressureMPa(b)

	sims := map[string]float64{
		internal.AttrDN:            CompareExact(a.DN, b.DN),
		internal.AttrPressure:      CompareNumeric(pa, pb, s.cfg.PressureTolerancePct, s.cfg.PressureCutoffPct),
		internal.AttrStandard:      CompareTokens(a.Standard, b.Standard),
		internal.AttrConstruction:  CompareExact(a.Construction, b.Construction),
		internal.AttrInnerDiameter: CompareNumeric(a.InnerDiameterMM, b.InnerDiameterMM, s.cfg.DiameterTolerancePct, s.cfg.DiameterCutoffPct),
	}

	total := 0.0
	for _, w := range weightTable {
		total += w.weight * sims[w.attr]
	}
	score := int(math.Round(total * 100))

	return internal.MatchCandidate{
		BalflexArticle:  a.ArticleNumber,
		HeizmannArticle: b.ArticleNumber,
		PerAttribute:    sims,
		OverallScore:    score,
		Tier:            TierForScore(score),
		Reasons:         buildReasons(a, b, pa, pb, sims),
	}
}

// TierForScore maps an overall score onto its quality tier. The bands are
// closed-open: [80,100] Excellent, [60,80) Good, [40,60) Fair,
// [30,40) Possible, below 30 not reportable.
func TierForScore(score int) internal.Tier {
	switch {
	case score >= 80:
		return internal.TierExcellent
	case score >= 60:
		return internal.TierGood
	case score >= 40:
		return internal.TierFair
	case score >= 30:
		return internal.TierPossible
	default:
		return internal.TierNone
	}
}

func buildReasons(a, b internal.ProductRecord, pa, pb *float64, sims map[string]float64) []string {
	reasons := []string{}
	for _, w := range weightTable {
		if sims[w.attr] < reasonThreshold {
			continue
		}
		switch w.attr {
		case internal.AttrDN:
			reasons = append(reasons, fmt.Sprintf("Nominal diameter match: %s", util.DerefString(a.DN)))
		case internal.AttrPressure:
			reasons = append(reasons, fmt.Sprintf("Working pressure match: %.1f MPa ~ %.1f MPa", *pa, *pb))
		case internal.AttrStandard:
			reasons = append(reasons, fmt.Sprintf("Standard match: %s / %s", util.DerefString(a.Standard), util.DerefString(b.Standard)))
		case internal.AttrConstruction:
			reasons = append(reasons, fmt.Sprintf("Construction match: %s", util.DerefString(a.Construction)))
		case internal.AttrInnerDiameter:
			reasons = append(reasons, fmt.Sprintf("Inner diameter match: %.1f mm ~ %.1f mm", *a.InnerDiameterMM, *b.InnerDiameterMM))
		}
	}
	return reasons
}

// canonicalPressureMPa returns the record's working pressure in MPa, or nil
// when the value is absent or the unit tag is unrecognized. The resolver
// reports unrecognized tags once per run; here they just degrade to the
// missing-attribute path.
func canonicalPressureMPa(rec internal.ProductRecord) *float64 {
	if rec.PressureValue == nil || rec.PressureUnit == nil {
		return nil
	}
	v, err := units.ToCanonical(units.Pressure, *rec.PressureValue, string(*rec.PressureUnit))
	if err != nil {
		return nil
	}
	return &v
}
