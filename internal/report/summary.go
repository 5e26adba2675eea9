package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"hosecross/internal"
	"hosecross/internal/util"
)

// RenderSummary prints the tier breakdown and unmatched counts as a
// terminal table.
func RenderSummary(w io.Writer, result internal.MatchResult) {
	counts := TierCounts(result)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Tier", "Candidates"})
	for _, tier := range reportableTiers {
		tw.AppendRow(table.Row{tier.String(), counts[tier.String()]})
	}
	tw.AppendFooter(table.Row{"Total", len(result.Candidates)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignRight, AlignFooter: text.AlignRight},
	})
	tw.Render()

	fmt.Fprintf(w, "unmatched: %d balflex, %d heizmann\n",
		len(result.UnmatchedBalflex), len(result.UnmatchedHeizmann))
}

// RenderTopCandidates prints the best-scoring pairs, at most limit rows.
func RenderTopCandidates(w io.Writer, rows []internal.ComparisonRow, limit int) {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Score", "Tier", "Balflex", "Heizmann", "DN", "Standard"})
	for _, row := range rows {
		tw.AppendRow(table.Row{
			row.Score,
			row.Tier,
			row.BalflexArticle,
			row.HeizmannArticle,
			util.DerefString(row.DN),
			util.DerefString(row.Standard),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	tw.Render()
}
