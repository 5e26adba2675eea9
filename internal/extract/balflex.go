// Package extract parses the Balflex hose catalog, either from the
// published PDF or from a plain-text dump of it. Parsing is line oriented
// and best effort per row: a malformed row is skipped, a malformed field
// within a row surfaces as a missing attribute.
package extract

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"hosecross/internal"
	"hosecross/internal/util"
)

var (
	reModel = regexp.MustCompile(`(?i)(BALPAC|FORZA|TEXMASTER|BALFLON|BALMASTER|POWERSPIR)[A-Z0-9\s\-]*`)

	reStandard = regexp.MustCompile(`(?i)(DIN\s+EN\s+\d+(?:\s+[0-9][A-Z]{1,3})?|SAE\s+100R\d+[A-Z]*|EN\s+\d+/\d+[A-Z]*)`)

	// Catalog product rows: REFERENCE ARTICLE [DNxx] INCH DASH INNER OUTER PRESSURE ...
	// The article number family is 10.XXXX[.XX]; DN is absent on inch-only rows.
	reRow = regexp.MustCompile(`^\s*([A-Z0-9\-]+)\s+(10\.\d+\.?\d*)\s+(DN\d+|)\s*(\S+)\s+(-?\d+)\s+([\d.]+)\s+([\d.]+)(.*)$`)

	reDecimalComma = regexp.MustCompile(`(\d),(\d)`)
	reNumber       = regexp.MustCompile(`[\d.]+`)
	reSpaces       = regexp.MustCompile(`\s+`)
)

// FromPDF extracts every product row from the Balflex catalog PDF.
func FromPDF(path string) ([]internal.ProductRecord, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open balflex catalog: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return FromText(sb.String()), nil
}

// FromTextFile extracts product rows from a plain-text catalog dump.
func FromTextFile(path string) ([]internal.ProductRecord, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balflex catalog: %w", err)
	}
	return FromText(string(blob)), nil
}

// FromText scans catalog text for product rows, tracking the model series
// and standard headers that precede each table.
func FromText(content string) []internal.ProductRecord {
	content = reDecimalComma.ReplaceAllString(content, "$1.$2")

	var currentModel, currentStandard string
	out := []internal.ProductRecord{}

	for _, line := range strings.Split(content, "\n") {
		if m := reModel.FindString(line); strings.TrimSpace(m) != "" {
			candidate := strings.TrimSpace(m)
			if len(candidate) > 5 {
				currentModel = candidate
			}
		}
		if m := reStandard.FindString(line); m != "" {
			currentStandard = normalizeSpaces(m)
		}

		row := reRow.FindStringSubmatch(line)
		if row == nil {
			continue
		}

		reference := row[1]
		article := row[2]
		construction := determineConstruction(reference, currentModel)

		rec := internal.ProductRecord{
			Source:        internal.SourceBalflex,
			ArticleNumber: article,
			Reference:     util.StringPtr(reference),
			Construction:  util.StringPtr(construction),
		}
		if currentModel != "" {
			rec.Model = util.StringPtr(currentModel)
		} else {
			rec.Model = util.StringPtr(modelFromReference(reference))
		}
		if row[3] != "" {
			rec.DN = util.StringPtr(row[3])
		}
		if currentStandard != "" {
			rec.Standard = util.StringPtr(currentStandard)
		}
		if v, err := strconv.ParseFloat(row[6], 64); err == nil {
			rec.InnerDiameterMM = util.FloatPtr(v)
		}
		if v, err := strconv.ParseFloat(row[7], 64); err == nil {
			rec.OuterDiameterMM = util.FloatPtr(v)
		}

		// Balflex tables list working pressure in MPa right after the
		// outer diameter, then the PSI repeat we ignore.
		trailing := reNumber.FindAllString(row[8], -1)
		if len(trailing) > 0 {
			if v, err := strconv.ParseFloat(trailing[0], 64); err == nil && v > 0 {
				unit := internal.UnitMPa
				rec.PressureValue = util.FloatPtr(v)
				rec.PressureUnit = &unit
			}
		}

		out = append(out, rec)
	}

	return out
}

func modelFromReference(reference string) string {
	if idx := strings.IndexAny(reference, "-."); idx > 0 {
		return reference[:idx]
	}
	return reference
}

// determineConstruction maps a reference/series designation onto the hose
// reinforcement type. Order matters: the two-layer codes must be probed
// before the single-layer ones.
func determineConstruction(reference, model string) string {
	combined := strings.ToUpper(reference + " " + model)
	switch {
	case strings.Contains(combined, "4SP") || strings.Contains(combined, "4SH") || strings.Contains(combined, "SPIRAL") || strings.Contains(combined, "POWERSPIR"):
		return "spiral wire"
	case strings.Contains(combined, "2SC") || strings.Contains(combined, "2SN") || strings.Contains(combined, "R16"):
		return "2 wire braid"
	case strings.Contains(combined, "2TE"):
		return "1 textile braid"
	case strings.Contains(combined, "3TE") || strings.Contains(combined, "R3"):
		return "2 textile braid"
	case strings.Contains(combined, "1SC") || strings.Contains(combined, "1SN") || strings.Contains(combined, "1TE"):
		return "1 wire braid"
	case strings.Contains(combined, "TEXTILE") || strings.Contains(combined, "TEXMASTER"):
		return "1 textile braid"
	default:
		return "wire braid"
	}
}

func normalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}
