package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"hosecross/internal"
	"hosecross/internal/util"
)

func sampleResult() ([]internal.ComparisonRow, internal.MatchResult) {
	rows := []internal.ComparisonRow{
		{
			Score:            100,
			Tier:             "Excellent",
			Reasons:          "Nominal diameter match: DN6; Standard match: DIN EN 857",
			BalflexArticle:   "10.1020.06",
			BalflexModel:     util.StringPtr("FORZA 2SC"),
			BalflexReference: util.StringPtr("FZ-2SC-06"),
			HeizmannArticle:  "204312",
			HeizmannModel:    util.StringPtr("2SC"),
			DN:               util.StringPtr("DN6"),
			BalflexPressure:  util.FloatPtr(50),
			HeizmannPressure: util.FloatPtr(50),
			Standard:         util.StringPtr("DIN EN 857 2SC"),
			Construction:     util.StringPtr("2 wire braid"),
			BalflexInnerMM:   util.FloatPtr(6.4),
			HeizmannInnerMM:  util.FloatPtr(6.4),
		},
		{
			Score:           45,
			Tier:            "Fair",
			BalflexArticle:  "10.1020.08",
			HeizmannArticle: "204313",
		},
	}
	result := internal.MatchResult{
		Candidates: []internal.MatchCandidate{
			{BalflexArticle: "10.1020.06", HeizmannArticle: "204312", OverallScore: 100, Tier: internal.TierExcellent},
			{BalflexArticle: "10.1020.08", HeizmannArticle: "204313", OverallScore: 45, Tier: internal.TierFair},
		},
		UnmatchedBalflex:  []string{"10.1030.10"},
		UnmatchedHeizmann: []string{"204399"},
	}
	return rows, result
}

func TestWriteXLSX(t *testing.T) {
	rows, result := sampleResult()
	path := filepath.Join(t.TempDir(), "out", "matches.xlsx")

	if err := WriteXLSX(rows, result, path); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	for _, name := range []string{"Comparison", "Unmatched Balflex", "Unmatched Heizmann", "Summary"} {
		if idx, _ := f.GetSheetIndex(name); idx < 0 {
			t.Errorf("missing sheet %q", name)
		}
	}

	checks := map[string]string{
		"A1": "score",
		"A2": "100",
		"B2": "Excellent",
		"D2": "10.1020.06",
		"G2": "204312",
		"I2": "DN6",
		"L2": "DIN EN 857 2SC",
		"A3": "45",
		"E3": "", // missing optionals stay blank
	}
	for cell, want := range checks {
		got, err := f.GetCellValue("Comparison", cell)
		if err != nil {
			t.Fatalf("read %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s = %q, want %q", cell, got, want)
		}
	}

	got, _ := f.GetCellValue("Unmatched Balflex", "A2")
	if got != "10.1030.10" {
		t.Errorf("unmatched balflex A2 = %q", got)
	}
}

func TestTierCounts(t *testing.T) {
	_, result := sampleResult()
	counts := TierCounts(result)
	if counts["Excellent"] != 1 || counts["Fair"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if counts["Good"] != 0 || counts["Possible"] != 0 {
		t.Errorf("absent tiers should report zero: %v", counts)
	}
}

func TestRenderSummary(t *testing.T) {
	_, result := sampleResult()
	var sb strings.Builder
	RenderSummary(&sb, result)

	out := sb.String()
	for _, want := range []string{"Excellent", "Good", "Fair", "Possible", "Total", "unmatched: 1 balflex, 1 heizmann"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTopCandidatesLimit(t *testing.T) {
	rows, _ := sampleResult()
	var sb strings.Builder
	RenderTopCandidates(&sb, rows, 1)

	out := sb.String()
	if !strings.Contains(out, "10.1020.06") {
		t.Errorf("top candidates missing first row:\n%s", out)
	}
	if strings.Contains(out, "10.1020.08") {
		t.Errorf("limit not applied:\n%s", out)
	}
}
