// Package scrape retrieves the Heizmann hose catalog from the supplier
// website: the high-pressure hose category page lists product pages, each
// product page carries a variant table with one article per size.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"hosecross/internal"
	"hosecross/internal/config"
	"hosecross/internal/util"
)

type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *Limiter
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.ScrapeTimeoutMs) * time.Millisecond},
		limiter:    NewLimiter(cfg.ScrapeRateLimitRPS),
	}
}

var (
	reProductHref = regexp.MustCompile(`/de/product/\d+/`)
	reVariantHref = regexp.MustCompile(`/de/variant/\d+/`)
	reArticleNum  = regexp.MustCompile(`^\d{5,7}$`)
)

// FetchProducts walks the category page and every product page underneath
// it. A failure to reach the site at all is a hard error for the caller;
// a single unparsable variant row just yields missing fields.
func (c *Client) FetchProducts(ctx context.Context) ([]internal.ProductRecord, error) {
	doc, err := c.fetchDoc(ctx, c.cfg.HeizmannCategoryURL)
	if err != nil {
		return nil, fmt.Errorf("heizmann category page: %w", err)
	}

	links := productLinks(doc)
	out := make([]internal.ProductRecord, 0)
	for _, link := range links {
		page, err := c.fetchDoc(ctx, link.href)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warn: skipping product page %s: %v\n", link.href, err)
			continue
		}
		out = append(out, parseProductPage(page, link.name, c.cfg.ScrapeMaxVariants)...)
	}

	return out, nil
}

type productLink struct {
	name string
	href string
}

func productLinks(doc *goquery.Document) []productLink {
	seen := map[string]struct{}{}
	out := []productLink{}
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !reProductHref.MatchString(href) {
			return
		}
		name := strings.TrimSpace(sel.Text())
		if name == "" || len(name) > 50 {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		out = append(out, productLink{name: name, href: href})
	})
	return out
}

// parseProductPage extracts one ProductRecord per variant table row.
// Heizmann variant rows carry, in order: checkbox, DN, inch code, inner
// and outer diameter, bend radius, burst and working pressure in bar,
// weight, product number, article number.
func parseProductPage(doc *goquery.Document, modelName string, maxVariants int) []internal.ProductRecord {
	standard := standardForModel(modelName, doc)
	construction := constructionForModel(modelName, standard)

	out := []internal.ProductRecord{}
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if maxVariants > 0 && len(out) >= maxVariants {
			return false
		}
		href, ok := sel.Attr("href")
		if !ok || !reVariantHref.MatchString(href) {
			return true
		}
		article := strings.TrimSpace(sel.Text())
		if !reArticleNum.MatchString(article) {
			return true
		}
		row := sel.Closest("tr")
		if row.Length() == 0 {
			return true
		}

		cells := []string{}
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})

		rec := internal.ProductRecord{
			Source:        internal.SourceHeizmann,
			ArticleNumber: article,
			Model:         util.StringPtr(modelName),
		}
		if standard != "" {
			rec.Standard = util.StringPtr(standard)
		}
		if construction != "" {
			rec.Construction = util.StringPtr(construction)
		}
		if dn := cellAt(cells, 1); dn != "" && isDigits(dn) {
			rec.DN = util.StringPtr("DN" + dn)
		}
		if v := cellFloat(cells, 3); v != nil {
			rec.InnerDiameterMM = v
		}
		if v := cellFloat(cells, 4); v != nil {
			rec.OuterDiameterMM = v
		}
		if v := cellFloat(cells, 7); v != nil && *v > 0 {
			unit := internal.UnitBar
			rec.PressureValue = v
			rec.PressureUnit = &unit
		}
		if ref := cellAt(cells, 9); ref != "" {
			rec.Reference = util.StringPtr(ref)
		}

		out = append(out, rec)
		return true
	})

	return out
}

// standardForModel maps a Heizmann series designation onto its industry
// standard; the supplier rarely prints the norm in the variant table, so
// the model name is the primary signal and the page text the fallback.
var modelToStandard = []struct {
	key      string
	standard string
}{
	{"1SN", "DIN EN 853 1SN"},
	{"2SN", "DIN EN 853 2SN"},
	{"1SC", "DIN EN 857 1SC"},
	{"2SC", "DIN EN 857 2SC"},
	{"1TE", "DIN EN 854 1TE"},
	{"2TE", "DIN EN 854 2TE"},
	{"3TE", "DIN EN 854 3TE"},
	{"4SP", "DIN EN 856 4SP"},
	{"4SH", "DIN EN 856 4SH"},
	{"R12", "SAE 100R12"},
	{"R13", "SAE 100R13"},
	{"R7", "SAE 100R7"},
	{"R8", "SAE 100R8"},
}

var rePageStandard = regexp.MustCompile(`(?i)(SAE\s*\d+R\d+[A-Z]*|DIN\s*EN\s*\d{3,4}\s*[0-9][A-Z]{1,3}|ISO\s*\d{4,})`)

func standardForModel(modelName string, doc *goquery.Document) string {
	clean := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(modelName))
	for _, m := range modelToStandard {
		if strings.Contains(clean, m.key) {
			return m.standard
		}
	}

	if doc != nil {
		if m := rePageStandard.FindString(doc.Text()); m != "" {
			return strings.Join(strings.Fields(m), " ")
		}
	}
	return ""
}

func constructionForModel(modelName, standard string) string {
	combined := strings.ToUpper(modelName + " " + standard)
	switch {
	case strings.Contains(combined, "4SP") || strings.Contains(combined, "4SH") || strings.Contains(combined, "856"):
		return "spiral wire"
	case strings.Contains(combined, "2SC") || strings.Contains(combined, "2SN"):
		return "2 wire braid"
	case strings.Contains(combined, "1SC") || strings.Contains(combined, "1SN"):
		return "1 wire braid"
	case strings.Contains(combined, "2TE") || strings.Contains(combined, "1TE"):
		return "1 textile braid"
	case strings.Contains(combined, "3TE"):
		return "2 textile braid"
	default:
		return ""
	}
}

func (c *Client) fetchDoc(ctx context.Context, path string) (*goquery.Document, error) {
	target := strings.TrimRight(c.cfg.HeizmannBaseURL, "/") + path

	var lastErr error
	for attempt := 1; attempt <= 4; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			if isRetryableStatus(resp.StatusCode) && attempt < 4 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("heizmann status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("heizmann request failed: status=%d url=%s", resp.StatusCode, target)
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return doc, nil
	}

	if lastErr == nil {
		lastErr = errors.New("heizmann request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func cellAt(cells []string, idx int) string {
	if idx >= 0 && idx < len(cells) {
		return cells[idx]
	}
	return ""
}

func cellFloat(cells []string, idx int) *float64 {
	raw := cellAt(cells, idx)
	if raw == "" {
		return nil
	}
	raw = strings.ReplaceAll(raw, ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
