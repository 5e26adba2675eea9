// Package report renders one resolver run for human review. The renderer
// never re-derives or re-ranks anything: rows appear exactly in the order
// and with the tiers the resolver assigned.
package report

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"hosecross/internal"
	"hosecross/internal/util"
)

func WriteXLSX(rows []internal.ComparisonRow, result internal.MatchResult, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetName(sheet, "Comparison")
	sheet = "Comparison"

	headers := []string{
		"score", "tier", "reasons",
		"balflex_article", "balflex_model", "balflex_reference",
		"heizmann_article", "heizmann_model",
		"dn", "balflex_pressure_mpa", "heizmann_pressure_mpa",
		"standard", "construction",
		"balflex_inner_mm", "heizmann_inner_mm",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.Score)
		set(2, row.Tier)
		set(3, row.Reasons)
		set(4, row.BalflexArticle)
		set(5, util.DerefString(row.BalflexModel))
		set(6, util.DerefString(row.BalflexReference))
		set(7, row.HeizmannArticle)
		set(8, util.DerefString(row.HeizmannModel))
		set(9, util.DerefString(row.DN))
		set(10, derefFloat(row.BalflexPressure))
		set(11, derefFloat(row.HeizmannPressure))
		set(12, util.DerefString(row.Standard))
		set(13, util.DerefString(row.Construction))
		set(14, derefFloat(row.BalflexInnerMM))
		set(15, derefFloat(row.HeizmannInnerMM))
	}

	writeUnmatchedSheet(f, "Unmatched Balflex", result.UnmatchedBalflex)
	writeUnmatchedSheet(f, "Unmatched Heizmann", result.UnmatchedHeizmann)
	writeSummarySheet(f, result)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeUnmatchedSheet(f *excelize.File, name string, articles []string) {
	_, _ = f.NewSheet(name)
	_ = f.SetCellValue(name, "A1", "article")
	for i, article := range articles {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetCellValue(name, cell, article)
	}
}

func writeSummarySheet(f *excelize.File, result internal.MatchResult) {
	const name = "Summary"
	_, _ = f.NewSheet(name)
	_ = f.SetCellValue(name, "A1", "tier")
	_ = f.SetCellValue(name, "B1", "count")

	counts := TierCounts(result)
	r := 2
	for _, tier := range reportableTiers {
		cellA, _ := excelize.CoordinatesToCellName(1, r)
		cellB, _ := excelize.CoordinatesToCellName(2, r)
		_ = f.SetCellValue(name, cellA, tier.String())
		_ = f.SetCellValue(name, cellB, counts[tier.String()])
		r++
	}

	cellA, _ := excelize.CoordinatesToCellName(1, r)
	cellB, _ := excelize.CoordinatesToCellName(2, r)
	_ = f.SetCellValue(name, cellA, "total candidates")
	_ = f.SetCellValue(name, cellB, len(result.Candidates))

	cellA, _ = excelize.CoordinatesToCellName(1, r+1)
	cellB, _ = excelize.CoordinatesToCellName(2, r+1)
	_ = f.SetCellValue(name, cellA, "unmatched balflex")
	_ = f.SetCellValue(name, cellB, len(result.UnmatchedBalflex))

	cellA, _ = excelize.CoordinatesToCellName(1, r+2)
	cellB, _ = excelize.CoordinatesToCellName(2, r+2)
	_ = f.SetCellValue(name, cellA, "unmatched heizmann")
	_ = f.SetCellValue(name, cellB, len(result.UnmatchedHeizmann))
}

var reportableTiers = []internal.Tier{
	internal.TierExcellent,
	internal.TierGood,
	internal.TierFair,
	internal.TierPossible,
}

// TierCounts aggregates candidates per quality tier for the summary views.
func TierCounts(result internal.MatchResult) map[string]int {
	counts := map[string]int{}
	for _, tier := range reportableTiers {
		counts[tier.String()] = 0
	}
	for _, cand := range result.Candidates {
		counts[cand.Tier.String()]++
	}
	return counts
}

func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
