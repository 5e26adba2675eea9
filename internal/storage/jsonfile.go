package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hosecross/internal"
)

// Stage files let extraction and matching run as independent steps: each
// extractor's output is a field-named JSON array that can be inspected or
// hand-edited between runs.

func SaveProductsJSON(products []internal.ProductRecord, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	blob, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o644)
}

func LoadProductsJSON(path string, expected internal.Source) ([]internal.ProductRecord, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var products []internal.ProductRecord
	if err := json.Unmarshal(blob, &products); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, p := range products {
		if p.Source != expected {
			return nil, fmt.Errorf("%s: record %d has source %q, expected %q", path, i, p.Source, expected)
		}
	}
	return products, nil
}

func SaveResultJSON(result internal.MatchResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	blob, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o644)
}
