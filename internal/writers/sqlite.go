// internal/writers/sqlite.go
package writers

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"mpa2phyloseq/internal/table"
)

func init() { Register("sqlite", sqliteFormat{}) }

const runsSchema = `
	CREATE TABLE IF NOT EXISTS runs (
		run_id     TEXT PRIMARY KEY,
		version    TEXT NOT NULL,
		rank       TEXT NOT NULL,
		label      TEXT NOT NULL,
		inputs     TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
`

type sqliteFormat struct{}

func (sqliteFormat) Ext() string { return ".sqlite" }

// Write stores every table in one database. Existing tables of the same name
// are replaced; the runs table accumulates.
func (f sqliteFormat) Write(ctx context.Context, tables []*table.Table, tg Target) ([]string, error) {
	if err := os.MkdirAll(tg.Dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output directory %s", tg.Dir)
	}
	bundle := tg.Bundle
	if bundle == "" {
		bundle = "phyloseq"
	}
	path := tg.Path(bundle, f.Ext())

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "begin %s", path)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range tables {
		if err := insertTable(ctx, tx, t); err != nil {
			return nil, errors.Wrapf(err, "%s: table %s", path, t.Name)
		}
	}
	if err := insertRun(ctx, tx, tg); err != nil {
		return nil, errors.Wrapf(err, "%s: runs", path)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrapf(err, "commit %s", path)
	}
	return []string{path}, nil
}

func insertTable(ctx context.Context, tx *sql.Tx, t *table.Table) error {
	name := quoteIdent(t.Name)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return err
	}
	if len(t.Columns) == 0 {
		return errors.New("no columns")
	}
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c) + " TEXT"
		marks[i] = "?"
	}
	if _, err := tx.ExecContext(ctx, "CREATE TABLE "+name+" ("+strings.Join(cols, ", ")+")"); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+name+" VALUES ("+strings.Join(marks, ", ")+")")
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

func insertRun(ctx context.Context, tx *sql.Tx, tg Target) error {
	if _, err := tx.ExecContext(ctx, runsSchema); err != nil {
		return err
	}
	if tg.Run.RunID == "" {
		return nil
	}
	inputs, err := json.Marshal(tg.Run.Inputs)
	if err != nil {
		return err
	}
	created := tg.Run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, version, rank, label, inputs, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		tg.Run.RunID, tg.Run.Version, tg.Run.Rank, tg.Run.Label, string(inputs), created.UTC().Format(time.RFC3339),
	)
	return err
}

// quoteIdent makes any column name (sample ids often start with digits) a
// valid SQLite identifier.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
