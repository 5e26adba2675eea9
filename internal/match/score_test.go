package match

import (
	"reflect"
	"testing"

	"hosecross/internal"
	"hosecross/internal/config"
	"hosecross/internal/util"
)

func balflexRecord() internal.ProductRecord {
	unit := internal.UnitMPa
	return internal.ProductRecord{
		Source:          internal.SourceBalflex,
		ArticleNumber:   "10.1020.06",
		Model:           util.StringPtr("FORZA 2SC"),
		DN:              util.StringPtr("DN6"),
		PressureValue:   util.FloatPtr(50),
		PressureUnit:    &unit,
		Standard:        util.StringPtr("DIN EN 857 2SC"),
		Construction:    util.StringPtr("2-braid"),
		InnerDiameterMM: util.FloatPtr(6),
	}
}

func heizmannRecord() internal.ProductRecord {
	unit := internal.UnitBar
	return internal.ProductRecord{
		Source:          internal.SourceHeizmann,
		ArticleNumber:   "204312",
		Model:           util.StringPtr("HD 2SC"),
		DN:              util.StringPtr("DN6"),
		PressureValue:   util.FloatPtr(500),
		PressureUnit:    &unit,
		Standard:        util.StringPtr("DIN EN 857"),
		Construction:    util.StringPtr("2-braid"),
		InnerDiameterMM: util.FloatPtr(6),
	}
}

func TestScoreExcellentPairing(t *testing.T) {
	cfg, _ := config.Load()
	s := NewScorer(cfg)

	cand := s.Score(balflexRecord(), heizmannRecord())

	if cand.PerAttribute[internal.AttrDN] != 1 {
		t.Fatalf("dn similarity = %v", cand.PerAttribute[internal.AttrDN])
	}
	if cand.PerAttribute[internal.AttrPressure] != 1 {
		t.Fatalf("pressure similarity = %v, 500 bar should equal 50 MPa", cand.PerAttribute[internal.AttrPressure])
	}
	if cand.PerAttribute[internal.AttrStandard] <= 0.5 {
		t.Fatalf("standard similarity = %v", cand.PerAttribute[internal.AttrStandard])
	}
	if cand.OverallScore < 80 {
		t.Fatalf("score = %d, want >= 80", cand.OverallScore)
	}
	if cand.Tier != internal.TierExcellent {
		t.Fatalf("tier = %s", cand.Tier)
	}
	if len(cand.Reasons) == 0 {
		t.Fatal("expected reasons for near-exact attributes")
	}
	if cand.Reasons[0] != "Nominal diameter match: DN6" {
		t.Fatalf("first reason should follow weight order, got %q", cand.Reasons[0])
	}
}

func TestScoreDNMismatchCapsScore(t *testing.T) {
	cfg, _ := config.Load()
	s := NewScorer(cfg)

	b := heizmannRecord()
	b.DN = util.StringPtr("DN10")
	cand := s.Score(balflexRecord(), b)

	if cand.PerAttribute[internal.AttrDN] != 0 {
		t.Fatalf("dn similarity = %v", cand.PerAttribute[internal.AttrDN])
	}
	if cand.OverallScore > 70 {
		t.Fatalf("score = %d, a diameter mismatch cannot exceed 70", cand.OverallScore)
	}
	if cand.Tier == internal.TierExcellent {
		t.Fatal("diameter mismatch can never be Excellent")
	}
}

func TestScoreMissingFieldsNeutral(t *testing.T) {
	cfg, _ := config.Load()
	s := NewScorer(cfg)

	a := internal.ProductRecord{Source: internal.SourceBalflex, ArticleNumber: "10.0000.00"}
	b := internal.ProductRecord{Source: internal.SourceHeizmann, ArticleNumber: "100000"}
	cand := s.Score(a, b)

	for attr, sim := range cand.PerAttribute {
		if sim != 0.5 {
			t.Fatalf("attr %s similarity = %v, want neutral 0.5", attr, sim)
		}
	}
	if cand.OverallScore != 50 {
		t.Fatalf("score = %d, want 50 for all-neutral", cand.OverallScore)
	}
	if len(cand.Reasons) != 0 {
		t.Fatalf("no reasons expected, got %v", cand.Reasons)
	}
}

func TestScoreUnrecognizedUnitDegradesToNeutral(t *testing.T) {
	cfg, _ := config.Load()
	s := NewScorer(cfg)

	a := balflexRecord()
	bogus := internal.PressureUnit("kp/cm2")
	a.PressureUnit = &bogus
	cand := s.Score(a, heizmannRecord())

	if cand.PerAttribute[internal.AttrPressure] != 0.5 {
		t.Fatalf("pressure similarity = %v, want neutral", cand.PerAttribute[internal.AttrPressure])
	}
}

func TestScoreDeterministic(t *testing.T) {
	cfg, _ := config.Load()
	s := NewScorer(cfg)

	first := s.Score(balflexRecord(), heizmannRecord())
	second := s.Score(balflexRecord(), heizmannRecord())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scoring not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestScoreRange(t *testing.T) {
	cfg, _ := config.Load()
	s := NewScorer(cfg)

	variants := []internal.ProductRecord{
		heizmannRecord(),
		{Source: internal.SourceHeizmann, ArticleNumber: "1"},
		func() internal.ProductRecord {
			r := heizmannRecord()
			r.DN = util.StringPtr("DN25")
			r.Standard = util.StringPtr("SAE 100R9")
			r.InnerDiameterMM = util.FloatPtr(25)
			return r
		}(),
	}
	for _, b := range variants {
		cand := s.Score(balflexRecord(), b)
		if cand.OverallScore < 0 || cand.OverallScore > 100 {
			t.Fatalf("score %d out of range", cand.OverallScore)
		}
	}
}

func TestTierMonotonic(t *testing.T) {
	prev := TierForScore(0)
	for score := 1; score <= 100; score++ {
		cur := TierForScore(score)
		if cur < prev {
			t.Fatalf("tier decreased at score %d: %s -> %s", score, prev, cur)
		}
		prev = cur
	}
}

func TestTierBands(t *testing.T) {
	cases := []struct {
		score int
		want  internal.Tier
	}{
		{100, internal.TierExcellent},
		{80, internal.TierExcellent},
		{79, internal.TierGood},
		{60, internal.TierGood},
		{59, internal.TierFair},
		{40, internal.TierFair},
		{39, internal.TierPossible},
		{30, internal.TierPossible},
		{29, internal.TierNone},
		{0, internal.TierNone},
	}
	for _, tc := range cases {
		if got := TierForScore(tc.score); got != tc.want {
			t.Fatalf("score %d: got %s want %s", tc.score, got, tc.want)
		}
	}
}
