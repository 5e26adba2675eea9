package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hosecross/internal"
	"hosecross/internal/config"
	"hosecross/internal/extract"
	"hosecross/internal/match"
	"hosecross/internal/report"
	"hosecross/internal/scrape"
	"hosecross/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "catalog:extract":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "balflex catalog pdf or text file")
		jsonOut := fs.String("json", "", "optional products json stage file")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		products, err := extractBalflex(*input)
		must(err)
		must(storeProducts(db, internal.SourceBalflex, products))
		if strings.TrimSpace(*jsonOut) != "" {
			must(storage.SaveProductsJSON(products, *jsonOut))
		}
		fmt.Printf("balflex extract done products=%d\n", len(products))
	case "catalog:scrape":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		jsonOut := fs.String("json", "", "optional products json stage file")
		_ = fs.Parse(os.Args[2:])
		client, err := newScrapeClient(cfg)
		must(err)
		products, err := client.FetchProducts(context.Background())
		must(err)
		must(storeProducts(db, internal.SourceHeizmann, products))
		if strings.TrimSpace(*jsonOut) != "" {
			must(storage.SaveProductsJSON(products, *jsonOut))
		}
		fmt.Printf("heizmann scrape done products=%d\n", len(products))
	case "catalog:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		jsonIn := fs.String("json", "", "products json stage file")
		source := fs.String("source", "", "balflex|heizmann")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*jsonIn) == "" || strings.TrimSpace(*source) == "" {
			must(fmt.Errorf("--json and --source are required"))
		}
		src, err := parseSource(*source)
		must(err)
		products, err := storage.LoadProductsJSON(*jsonIn, src)
		must(err)
		must(storeProducts(db, src, products))
		fmt.Printf("import done source=%s products=%d\n", src, len(products))
	case "match:run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		jsonOut := fs.String("json", "", "optional result json stage file")
		_ = fs.Parse(os.Args[2:])
		runID, result, err := runMatch(db, cfg)
		must(err)
		if strings.TrimSpace(*jsonOut) != "" {
			must(storage.SaveResultJSON(result, *jsonOut))
		}
		fmt.Printf("match run done runId=%d candidates=%d unmatched_balflex=%d unmatched_heizmann=%d\n",
			runID, len(result.Candidates), len(result.UnmatchedBalflex), len(result.UnmatchedHeizmann))
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.Int64("runId", 0, "match run id (default latest)")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		id, err := resolveRunID(db, *runID)
		must(err)
		path := *out
		if strings.TrimSpace(path) == "" {
			path = filepath.Join(cfg.OutputDir, fmt.Sprintf("matches-%d.xlsx", id))
		}
		result, err := db.GetRun(id)
		must(err)
		rows, err := db.GetComparisonRows(id)
		must(err)
		must(report.WriteXLSX(rows, result, path))
		fmt.Printf("exported %d rows to %s\n", len(rows), path)
	case "report:summary":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.Int64("runId", 0, "match run id (default latest)")
		top := fs.Int("top", 10, "best candidates to list")
		_ = fs.Parse(os.Args[2:])
		id, err := resolveRunID(db, *runID)
		must(err)
		result, err := db.GetRun(id)
		must(err)
		report.RenderSummary(os.Stdout, result)
		for _, src := range []internal.Source{internal.SourceBalflex, internal.SourceHeizmann} {
			ts, err := db.GetMetadata(fmt.Sprintf("last_refresh_%s", src))
			must(err)
			if ts != nil {
				fmt.Printf("%s catalog refreshed %s\n", src, *ts)
			}
		}
		if *top > 0 {
			rows, err := db.GetComparisonRows(id)
			must(err)
			report.RenderTopCandidates(os.Stdout, rows, *top)
		}
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "balflex catalog pdf or text file")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		balflex, err := extractBalflex(*input)
		must(err)
		must(storeProducts(db, internal.SourceBalflex, balflex))
		fmt.Printf("balflex extract done products=%d\n", len(balflex))

		client, err := newScrapeClient(cfg)
		must(err)
		heizmann, err := client.FetchProducts(context.Background())
		must(err)
		must(storeProducts(db, internal.SourceHeizmann, heizmann))
		fmt.Printf("heizmann scrape done products=%d\n", len(heizmann))

		runID, result, err := runMatch(db, cfg)
		must(err)
		fmt.Printf("match run done runId=%d candidates=%d\n", runID, len(result.Candidates))

		path := *out
		if strings.TrimSpace(path) == "" {
			path = filepath.Join(cfg.OutputDir, fmt.Sprintf("matches-%d.xlsx", runID))
		}
		rows, err := db.GetComparisonRows(runID)
		must(err)
		must(report.WriteXLSX(rows, result, path))
		report.RenderSummary(os.Stdout, result)
		fmt.Printf("run done rows=%d output=%s\n", len(rows), path)
	default:
		usage()
		os.Exit(1)
	}
}

func newScrapeClient(cfg config.Config) (*scrape.Client, error) {
	if err := cfg.Require("HEIZMANN_BASE_URL", cfg.HeizmannBaseURL); err != nil {
		return nil, err
	}
	if err := cfg.Require("HEIZMANN_CATEGORY_URL", cfg.HeizmannCategoryURL); err != nil {
		return nil, err
	}
	return scrape.NewClient(cfg), nil
}

func storeProducts(db *storage.DB, src internal.Source, products []internal.ProductRecord) error {
	if err := db.ReplaceProducts(src, products); err != nil {
		return err
	}
	return db.SetMetadata(fmt.Sprintf("last_refresh_%s", src), time.Now().UTC().Format(time.RFC3339))
}

func extractBalflex(input string) ([]internal.ProductRecord, error) {
	if strings.EqualFold(filepath.Ext(input), ".pdf") {
		return extract.FromPDF(input)
	}
	return extract.FromTextFile(input)
}

func runMatch(db *storage.DB, cfg config.Config) (int64, internal.MatchResult, error) {
	balflex, err := db.ListProductsBySource(internal.SourceBalflex)
	if err != nil {
		return 0, internal.MatchResult{}, err
	}
	heizmann, err := db.ListProductsBySource(internal.SourceHeizmann)
	if err != nil {
		return 0, internal.MatchResult{}, err
	}
	// An empty side is a valid run: zero candidates, the populated side
	// fully unmatched. Worth a warning because it usually means a stage
	// was skipped.
	if len(balflex) == 0 || len(heizmann) == 0 {
		fmt.Fprintf(os.Stderr, "warn: matching with an empty side: balflex=%d heizmann=%d\n", len(balflex), len(heizmann))
	}

	resolver := match.NewResolver(cfg)
	result := resolver.Resolve(balflex, heizmann)

	traceID := fmt.Sprintf("match-%d", time.Now().UnixNano())
	runID, err := db.InsertRun(traceID, result, report.TierCounts(result))
	if err != nil {
		return 0, internal.MatchResult{}, err
	}
	return runID, result, nil
}

func resolveRunID(db *storage.DB, requested int64) (int64, error) {
	if requested > 0 {
		return requested, nil
	}
	return db.LatestRunID()
}

func parseSource(value string) (internal.Source, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "balflex":
		return internal.SourceBalflex, nil
	case "heizmann":
		return internal.SourceHeizmann, nil
	default:
		return "", fmt.Errorf("unsupported source: %s", value)
	}
}

func usage() {
	fmt.Println("usage: hosecross <command>")
	fmt.Println("commands:")
	fmt.Println("  catalog:extract --input=catalog.pdf [--json=balflex.json]")
	fmt.Println("  catalog:scrape [--json=heizmann.json]")
	fmt.Println("  catalog:import --json=products.json --source=balflex|heizmann")
	fmt.Println("  match:run [--json=result.json]")
	fmt.Println("  export:xlsx [--runId=1] [--out=./out/matches.xlsx]")
	fmt.Println("  report:summary [--runId=1] [--top=10]")
	fmt.Println("  run --input=catalog.pdf [--out=./out/matches.xlsx]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
