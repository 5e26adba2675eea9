package internal

type Source string

const (
	SourceBalflex  Source = "balflex"
	SourceHeizmann Source = "heizmann"
)

type PressureUnit string

const (
	UnitMPa PressureUnit = "MPa"
	UnitBar PressureUnit = "bar"
	UnitPSI PressureUnit = "psi"
)

// ProductRecord is one catalog item from either supplier. All technical
// attributes are optional: extraction is best-effort per item and a nil
// field means "unknown", which the comparators treat as neutral evidence.
type ProductRecord struct {
	Source          Source        `json:"source"`
	ArticleNumber   string        `json:"articleNumber"`
	Model           *string       `json:"model,omitempty"`
	Reference       *string       `json:"reference,omitempty"`
	DN              *string       `json:"dn,omitempty"`
	PressureValue   *float64      `json:"pressureValue,omitempty"`
	PressureUnit    *PressureUnit `json:"pressureUnit,omitempty"`
	Standard        *string       `json:"standard,omitempty"`
	Construction    *string       `json:"construction,omitempty"`
	InnerDiameterMM *float64      `json:"innerDiameterMm,omitempty"`
	OuterDiameterMM *float64      `json:"outerDiameterMm,omitempty"`
	RawJSON         string        `json:"-"`
}

// Tier is the discrete confidence bucket for one candidate pairing.
// Ordering is significant: a higher value is always a better match.
type Tier int

const (
	TierNone Tier = iota
	TierPossible
	TierFair
	TierGood
	TierExcellent
)

func (t Tier) String() string {
	switch t {
	case TierExcellent:
		return "Excellent"
	case TierGood:
		return "Good"
	case TierFair:
		return "Fair"
	case TierPossible:
		return "Possible"
	default:
		return "None"
	}
}

// Attribute names used as keys in MatchCandidate.PerAttribute.
const (
	AttrDN            = "dn"
	AttrPressure      = "working_pressure"
	AttrStandard      = "standard"
	AttrConstruction  = "construction"
	AttrInnerDiameter = "inner_diameter"
)

// MatchCandidate is the scored comparison of one Balflex record against one
// Heizmann record. It is created fresh for every pairing and never mutated.
type MatchCandidate struct {
	BalflexArticle  string             `json:"balflexArticle"`
	HeizmannArticle string             `json:"heizmannArticle"`
	PerAttribute    map[string]float64 `json:"perAttribute"`
	OverallScore    int                `json:"overallScore"`
	Tier            Tier               `json:"tier"`
	Reasons         []string           `json:"reasons"`
}

// MatchResult is the output of one resolver run: reportable candidates in
// emission order plus the articles from each side that survived in no
// candidate at all.
type MatchResult struct {
	Candidates        []MatchCandidate `json:"candidates"`
	UnmatchedBalflex  []string         `json:"unmatchedBalflex"`
	UnmatchedHeizmann []string         `json:"unmatchedHeizmann"`
}

// ComparisonRow is one line of the rendered report: the candidate plus the
// attribute values of both records, denormalized for display.
type ComparisonRow struct {
	Score            int
	Tier             string
	Reasons          string
	BalflexArticle   string
	BalflexModel     *string
	BalflexReference *string
	HeizmannArticle  string
	HeizmannModel    *string
	DN               *string
	BalflexPressure  *float64
	HeizmannPressure *float64
	Standard         *string
	Construction     *string
	BalflexInnerMM   *float64
	HeizmannInnerMM  *float64
}
