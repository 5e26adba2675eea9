package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"hosecross/internal"
	"hosecross/internal/units"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS products (
  source TEXT NOT NULL,
  article TEXT NOT NULL,
  model TEXT,
  reference TEXT,
  dn TEXT,
  pressureValue REAL,
  pressureUnit TEXT,
  standard TEXT,
  construction TEXT,
  innerMm REAL,
  outerMm REAL,
  raw_json TEXT NOT NULL,
  lastSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (source, article)
);
CREATE INDEX IF NOT EXISTS idx_products_dn ON products(dn);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  unmatchedBalflexJson TEXT NOT NULL,
  unmatchedHeizmannJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS run_candidates (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  position INTEGER NOT NULL,
  balflexArticle TEXT NOT NULL,
  heizmannArticle TEXT NOT NULL,
  score INTEGER NOT NULL,
  tier INTEGER NOT NULL,
  perAttributeJson TEXT NOT NULL,
  reasonsJson TEXT NOT NULL,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_run_candidates_run ON run_candidates(runId, position);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceProducts swaps in a freshly extracted catalog for one source.
// A stage rerun fully supersedes the previous snapshot of that side.
func (d *DB) ReplaceProducts(source internal.Source, products []internal.ProductRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM products WHERE source = ?`, string(source)); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO products (
  source, article, model, reference, dn,
  pressureValue, pressureUnit, standard, construction, innerMm, outerMm, raw_json, lastSeenAt
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(source, article) DO UPDATE SET
  model=excluded.model,
  reference=excluded.reference,
  dn=excluded.dn,
  pressureValue=excluded.pressureValue,
  pressureUnit=excluded.pressureUnit,
  standard=excluded.standard,
  construction=excluded.construction,
  innerMm=excluded.innerMm,
  outerMm=excluded.outerMm,
  raw_json=excluded.raw_json,
  lastSeenAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range products {
		rawJSON := p.RawJSON
		if rawJSON == "" {
			blob, _ := json.Marshal(p)
			rawJSON = string(blob)
		}
		var unit *string
		if p.PressureUnit != nil {
			u := string(*p.PressureUnit)
			unit = &u
		}
		if _, err := stmt.Exec(
			string(p.Source), p.ArticleNumber, p.Model, p.Reference, p.DN,
			p.PressureValue, unit, p.Standard, p.Construction, p.InnerDiameterMM, p.OuterDiameterMM, rawJSON,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListProductsBySource(source internal.Source) ([]internal.ProductRecord, error) {
	rows, err := d.conn.Query(`
SELECT source, article, model, reference, dn,
       pressureValue, pressureUnit, standard, construction, innerMm, outerMm, raw_json
FROM products WHERE source = ? ORDER BY article`, string(source))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ProductRecord
	for rows.Next() {
		var p internal.ProductRecord
		var src string
		var unit *string
		if err := rows.Scan(
			&src, &p.ArticleNumber, &p.Model, &p.Reference, &p.DN,
			&p.PressureValue, &unit, &p.Standard, &p.Construction, &p.InnerDiameterMM, &p.OuterDiameterMM, &p.RawJSON,
		); err != nil {
			return nil, err
		}
		p.Source = internal.Source(src)
		if unit != nil {
			u := internal.PressureUnit(*unit)
			p.PressureUnit = &u
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

// InsertRun persists one resolver invocation: candidates in emission order
// plus the unmatched sets, so a report rendered later shows exactly what
// the resolver produced.
func (d *DB) InsertRun(traceID string, result internal.MatchResult, counts map[string]int) (int64, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	countsJSON, _ := json.Marshal(counts)
	unmatchedA, _ := json.Marshal(result.UnmatchedBalflex)
	unmatchedB, _ := json.Marshal(result.UnmatchedHeizmann)

	res, err := tx.Exec(`
INSERT INTO runs (traceId, countsJson, unmatchedBalflexJson, unmatchedHeizmannJson)
VALUES (?, ?, ?, ?)`, traceID, string(countsJSON), string(unmatchedA), string(unmatchedB))
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
INSERT INTO run_candidates (runId, position, balflexArticle, heizmannArticle, score, tier, perAttributeJson, reasonsJson)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, cand := range result.Candidates {
		perAttr, _ := json.Marshal(cand.PerAttribute)
		reasons, _ := json.Marshal(cand.Reasons)
		if _, err := stmt.Exec(runID, i, cand.BalflexArticle, cand.HeizmannArticle, cand.OverallScore, int(cand.Tier), string(perAttr), string(reasons)); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

func (d *DB) LatestRunID() (int64, error) {
	var id int64
	err := d.conn.QueryRow(`SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errors.New("no match runs recorded yet")
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetRun reconstructs a stored MatchResult in its original order.
func (d *DB) GetRun(runID int64) (internal.MatchResult, error) {
	var result internal.MatchResult
	var unmatchedA, unmatchedB string
	err := d.conn.QueryRow(`
SELECT unmatchedBalflexJson, unmatchedHeizmannJson FROM runs WHERE id = ?`, runID).
		Scan(&unmatchedA, &unmatchedB)
	if errors.Is(err, sql.ErrNoRows) {
		return result, fmt.Errorf("run not found: %d", runID)
	}
	if err != nil {
		return result, err
	}
	_ = json.Unmarshal([]byte(unmatchedA), &result.UnmatchedBalflex)
	_ = json.Unmarshal([]byte(unmatchedB), &result.UnmatchedHeizmann)

	rows, err := d.conn.Query(`
SELECT balflexArticle, heizmannArticle, score, tier, perAttributeJson, reasonsJson
FROM run_candidates WHERE runId = ? ORDER BY position`, runID)
	if err != nil {
		return result, err
	}
	defer rows.Close()

	for rows.Next() {
		var cand internal.MatchCandidate
		var tier int
		var perAttr, reasons string
		if err := rows.Scan(&cand.BalflexArticle, &cand.HeizmannArticle, &cand.OverallScore, &tier, &perAttr, &reasons); err != nil {
			return result, err
		}
		cand.Tier = internal.Tier(tier)
		_ = json.Unmarshal([]byte(perAttr), &cand.PerAttribute)
		_ = json.Unmarshal([]byte(reasons), &cand.Reasons)
		result.Candidates = append(result.Candidates, cand)
	}

	return result, rows.Err()
}

// GetComparisonRows joins a stored run with both product catalogs for
// report rendering. Order is the resolver's emission order; the renderer
// must not re-rank.
func (d *DB) GetComparisonRows(runID int64) ([]internal.ComparisonRow, error) {
	rows, err := d.conn.Query(`
SELECT
  c.score,
  c.tier,
  c.reasonsJson,
  c.balflexArticle,
  pa.model,
  pa.reference,
  c.heizmannArticle,
  pb.model,
  COALESCE(pa.dn, pb.dn),
  pa.pressureValue,
  pa.pressureUnit,
  pb.pressureValue,
  pb.pressureUnit,
  COALESCE(pa.standard, pb.standard),
  COALESCE(pa.construction, pb.construction),
  pa.innerMm,
  pb.innerMm
FROM run_candidates c
LEFT JOIN products pa ON pa.source = 'balflex' AND pa.article = c.balflexArticle
LEFT JOIN products pb ON pb.source = 'heizmann' AND pb.article = c.heizmannArticle
WHERE c.runId = ?
ORDER BY c.position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ComparisonRow
	for rows.Next() {
		var row internal.ComparisonRow
		var tier int
		var reasonsJSON string
		var paUnit, pbUnit *string
		var paPressure, pbPressure *float64
		if err := rows.Scan(
			&row.Score,
			&tier,
			&reasonsJSON,
			&row.BalflexArticle,
			&row.BalflexModel,
			&row.BalflexReference,
			&row.HeizmannArticle,
			&row.HeizmannModel,
			&row.DN,
			&paPressure,
			&paUnit,
			&pbPressure,
			&pbUnit,
			&row.Standard,
			&row.Construction,
			&row.BalflexInnerMM,
			&row.HeizmannInnerMM,
		); err != nil {
			return nil, err
		}
		row.Tier = internal.Tier(tier).String()
		var reasons []string
		_ = json.Unmarshal([]byte(reasonsJSON), &reasons)
		row.Reasons = joinReasons(reasons)
		row.BalflexPressure = pressureMPa(paPressure, paUnit)
		row.HeizmannPressure = pressureMPa(pbPressure, pbUnit)
		out = append(out, row)
	}

	return out, rows.Err()
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}

// pressureMPa converts a stored pressure into MPa for display; a value
// with an unconvertible unit renders as blank rather than a wrong number.
func pressureMPa(value *float64, unit *string) *float64 {
	if value == nil || unit == nil {
		return nil
	}
	v, err := units.ToCanonical(units.Pressure, *value, *unit)
	if err != nil {
		return nil
	}
	return &v
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
