package match

import (
	"fmt"
	"os"
	"sort"

	"hosecross/internal"
	"hosecross/internal/config"
	"hosecross/internal/units"
)

// Resolver evaluates the full Balflex x Heizmann cross product and keeps
// every candidate above the reportable threshold. It deliberately does NOT
// compute a one-to-one assignment: a record may appear in several reported
// candidates, and the review workflow depends on seeing all of them.
// Replacing this with an optimal bipartite matching would silently drop
// legitimate alternatives and is a product-behavior change, not a fix.
type Resolver struct {
	scorer *Scorer
}

func NewResolver(cfg config.Config) *Resolver {
	return &Resolver{scorer: NewScorer(cfg)}
}

// Resolve scores every opposite-source pairing and partitions the records
// into ranked candidates and per-source unmatched sets. Both inputs are
// treated as immutable; an empty side is a valid input and leaves the other
// side fully unmatched.
func (r *Resolver) Resolve(balflex, heizmann []internal.ProductRecord) internal.MatchResult {
	warnUnrecognizedUnits(balflex)
	warnUnrecognizedUnits(heizmann)

	candidates := make([]internal.MatchCandidate, 0)
	matchedA := map[string]struct{}{}
	matchedB := map[string]struct{}{}

	for _, a := range balflex {
		for _, b := range heizmann {
			if a.Source == b.Source {
				continue
			}
			cand := r.scorer.Score(a, b)
			if cand.Tier == internal.TierNone {
				continue
			}
			candidates = append(candidates, cand)
			matchedA[a.ArticleNumber] = struct{}{}
			matchedB[b.ArticleNumber] = struct{}{}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].OverallScore != candidates[j].OverallScore {
			return candidates[i].OverallScore > candidates[j].OverallScore
		}
		if candidates[i].BalflexArticle != candidates[j].BalflexArticle {
			return candidates[i].BalflexArticle < candidates[j].BalflexArticle
		}
		return candidates[i].HeizmannArticle < candidates[j].HeizmannArticle
	})

	return internal.MatchResult{
		Candidates:        candidates,
		UnmatchedBalflex:  unmatchedArticles(balflex, matchedA),
		UnmatchedHeizmann: unmatchedArticles(heizmann, matchedB),
	}
}

func unmatchedArticles(records []internal.ProductRecord, matched map[string]struct{}) []string {
	out := make([]string, 0)
	seen := map[string]struct{}{}
	for _, rec := range records {
		if _, ok := matched[rec.ArticleNumber]; ok {
			continue
		}
		if _, dup := seen[rec.ArticleNumber]; dup {
			continue
		}
		seen[rec.ArticleNumber] = struct{}{}
		out = append(out, rec.ArticleNumber)
	}
	sort.Strings(out)
	return out
}

func warnUnrecognizedUnits(records []internal.ProductRecord) {
	for _, rec := range records {
		if rec.PressureValue == nil || rec.PressureUnit == nil {
			continue
		}
		if _, err := units.ToCanonical(units.Pressure, *rec.PressureValue, string(*rec.PressureUnit)); err != nil {
			fmt.Fprintf(os.Stderr, "warn: %s %s: %v, pressure treated as missing\n", rec.Source, rec.ArticleNumber, err)
		}
	}
}
