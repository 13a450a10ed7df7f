package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one statement line supplied by an ingestion source, merged
// with the parse of its memo.
type Transaction struct {
	ID     string
	Date   time.Time       // approximate; used to resolve year-less memo dates
	Amount decimal.Decimal // negative = debit, positive = credit
	Memo   string
	Source string
	Record MemoRecord
}
