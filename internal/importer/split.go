package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/grocktx/grocktx/internal/id"
	"github.com/grocktx/grocktx/internal/model"
)

// SplitParser parses "date,amount,name,memo,check_number,id" CSV files,
// produced by aggregators that split the bank's memo into payee, memo and
// check number. The memo string is rebuilt with SynthesizeMemo.
type SplitParser struct{}

const (
	splitNumFields   = 6
	splitColDate     = 0
	splitColAmount   = 1
	splitColName     = 2
	splitColMemo     = 3
	splitColCheckNum = 4
	splitColID       = 5
)

// Format returns the parser name.
func (p *SplitParser) Format() string { return "split" }

// Parse reads a split CSV and returns Transactions.
func (p *SplitParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = splitNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading split CSV: %w", err)
	}
	records, first := skipHeader(records)

	var txns []model.Transaction
	for i, rec := range records {
		date, amount, err := parseDateAmount(rec[splitColDate], rec[splitColAmount])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", first+i, err)
		}

		txnID := strings.TrimSpace(rec[splitColID])
		if txnID == "" {
			txnID = id.ForRow(rec[:splitColID])
		}

		txns = append(txns, model.Transaction{
			ID:     txnID,
			Date:   date,
			Amount: amount,
			Memo:   SynthesizeMemo(rec[splitColName], rec[splitColMemo], rec[splitColCheckNum]),
			Source: p.Format(),
		})
	}
	return txns, nil
}
