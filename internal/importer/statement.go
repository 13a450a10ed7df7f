package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grocktx/grocktx/internal/id"
	"github.com/grocktx/grocktx/internal/model"
)

// StatementParser parses "date,amount,memo[,id]" CSV files, the plain
// format for statement lines whose memo text is kept exactly as the bank
// printed it. A leading header row is skipped when its first field is
// "date".
type StatementParser struct{}

const (
	// DateFormat is the date layout of importer CSV files.
	DateFormat = "2006-01-02"

	statementMinFields = 3
	statementMaxFields = 4
	statementColDate   = 0
	statementColAmount = 1
	statementColMemo   = 2
	statementColID     = 3
)

// Format returns the parser name.
func (p *StatementParser) Format() string { return "statement" }

// Parse reads a statement CSV and returns Transactions.
func (p *StatementParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	records, first := skipHeader(records)

	var txns []model.Transaction
	for i, rec := range records {
		txn, err := p.parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", first+i, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func (p *StatementParser) parseRow(rec []string) (model.Transaction, error) {
	if len(rec) < statementMinFields || len(rec) > statementMaxFields {
		return model.Transaction{}, fmt.Errorf("expected %d or %d fields, got %d", statementMinFields, statementMaxFields, len(rec))
	}

	date, amount, err := parseDateAmount(rec[statementColDate], rec[statementColAmount])
	if err != nil {
		return model.Transaction{}, err
	}

	txnID := ""
	if len(rec) > statementColID {
		txnID = strings.TrimSpace(rec[statementColID])
	}
	if txnID == "" {
		txnID = id.ForRow(rec[:statementMinFields])
	}

	return model.Transaction{
		ID:     txnID,
		Date:   date,
		Amount: amount,
		Memo:   rec[statementColMemo],
		Source: p.Format(),
	}, nil
}

func parseDateAmount(rawDate, rawAmount string) (time.Time, decimal.Decimal, error) {
	date, err := time.Parse(DateFormat, strings.TrimSpace(rawDate))
	if err != nil {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("parsing date %q: %w", rawDate, err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
	if err != nil {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", rawAmount, err)
	}
	return date, amount, nil
}

// skipHeader drops the first record when it names a "date" column. first is
// the file line of the first remaining record, assuming one record per line.
func skipHeader(records [][]string) (rest [][]string, first int) {
	if len(records) > 0 && len(records[0]) > 0 && strings.EqualFold(strings.TrimSpace(records[0][0]), "date") {
		return records[1:], 2
	}
	return records, 1
}
