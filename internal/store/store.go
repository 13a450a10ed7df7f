// Package store persists batch runs and their parsed transactions in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/grocktx/grocktx/internal/model"
)

//go:embed schema.sql
var schema string

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// DB wraps the SQLite handle.
type DB struct {
	*sql.DB
}

// Run is one stored batch run.
type Run struct {
	ID         string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Unknown    int
}

// Row is one stored parsed transaction. Details holds the JSON form of the
// record's channel details, or "" when it has none.
type Row struct {
	Seq     int
	TxnID   string
	Date    string
	Amount  string
	Memo    string
	Channel model.Channel
	Details string
	Vendor  model.VendorInfo
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	d := &DB{db}
	if err := d.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Init creates tables if they don't exist.
func (db *DB) Init() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// SaveRun stores run and its transactions atomically.
func (db *DB) SaveRun(ctx context.Context, run Run, txns []model.Transaction) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, started_at, finished_at, total, unknown)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Total, run.Unknown)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO parsed_transactions (
			run_id, seq, txn_id, date, amount, memo, channel, channel_details,
			description, city, state, zip, phone
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range txns {
		details, err := marshalDetails(t.Record.Details)
		if err != nil {
			return fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		v := t.Record.Vendor
		_, err = stmt.ExecContext(ctx,
			run.ID, i, t.ID, formatDate(t.Date), t.Amount.String(), t.Memo,
			string(t.Record.Channel), details,
			v.Description, v.City, v.State, v.Zip, v.Phone)
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Runs returns all runs, newest first.
func (db *DB) Runs(ctx context.Context) ([]Run, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, source, started_at, finished_at, total, unknown
		FROM runs
		ORDER BY started_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.StartedAt, &r.FinishedAt, &r.Total, &r.Unknown); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run by ID.
func (db *DB) GetRun(ctx context.Context, id string) (*Run, error) {
	var r Run
	err := db.QueryRowContext(ctx, `
		SELECT id, source, started_at, finished_at, total, unknown
		FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.Source, &r.StartedAt, &r.FinishedAt, &r.Total, &r.Unknown)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	return &r, nil
}

// Rows returns the stored transactions of a run in input order.
func (db *DB) Rows(ctx context.Context, runID string) ([]Row, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT seq, txn_id, date, amount, memo, channel, channel_details,
			   description, city, state, zip, phone
		FROM parsed_transactions
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Seq, &r.TxnID, &r.Date, &r.Amount, &r.Memo, &r.Channel, &r.Details,
			&r.Vendor.Description, &r.Vendor.City, &r.Vendor.State, &r.Vendor.Zip, &r.Vendor.Phone); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ChannelCounts returns how many transactions of a run fell in each channel.
func (db *DB) ChannelCounts(ctx context.Context, runID string) (map[model.Channel]int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT channel, COUNT(*) FROM parsed_transactions
		WHERE run_id = ?
		GROUP BY channel
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query channel counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Channel]int)
	for rows.Next() {
		var ch model.Channel
		var n int
		if err := rows.Scan(&ch, &n); err != nil {
			return nil, fmt.Errorf("scan channel count: %w", err)
		}
		counts[ch] = n
	}
	return counts, rows.Err()
}

func marshalDetails(d model.ChannelDetails) (string, error) {
	if d == nil {
		return "", nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshal channel details: %w", err)
	}
	return string(data), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateFormat)
}
