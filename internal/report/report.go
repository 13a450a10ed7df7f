// Package report writes parsed transactions as CSV or JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/grocktx/grocktx/internal/model"
)

// Writer renders parsed transactions.
type Writer interface {
	Write(w io.Writer, txns []model.Transaction) error
}

// New returns the writer for format: "json" or "csv".
func New(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "json":
		return JSONWriter{Indent: true}, nil
	case "csv":
		return CSVWriter{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Header is the CSV header row.
const Header = "unique_id,date,amount,data_source,memo,channel,auth,auth_date,auth_time," +
	"check_number,fee_amount,account_description,description,city,state,zip,phone"

const (
	numFields    = 17
	colID        = 0
	colDate      = 1
	colAmount    = 2
	colSource    = 3
	colMemo      = 4
	colChannel   = 5
	colAuth      = 6
	colAuthDate  = 7
	colAuthTime  = 8
	colCheckNum  = 9
	colFeeAmount = 10
	colAccount   = 11
	colDesc      = 12
	colCity      = 13
	colState     = 14
	colZip       = 15
	colPhone     = 16
)

// MarshalRow converts a Transaction to a CSV row. Channel detail columns
// that do not apply to the record's channel are empty.
func MarshalRow(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = t.ID
	if !t.Date.IsZero() {
		row[colDate] = t.Date.Format(model.DateFormat)
	}
	row[colAmount] = t.Amount.StringFixed(2)
	row[colSource] = t.Source
	row[colMemo] = t.Memo
	row[colChannel] = string(t.Record.Channel)

	switch d := t.Record.Details.(type) {
	case model.AuthDetails:
		row[colAuth] = d.Auth
		row[colAuthDate] = d.AuthDate()
		row[colAuthTime] = d.AuthTime()
	case model.CheckDetails:
		row[colCheckNum] = d.CheckNumber
	case model.FeeDetails:
		row[colFeeAmount] = d.Amount.String()
	case model.TransferDetails:
		row[colAccount] = d.AccountDescription
	}

	v := t.Record.Vendor
	row[colDesc] = v.Description
	row[colCity] = v.City
	row[colState] = v.State
	row[colZip] = v.Zip
	row[colPhone] = v.Phone
	return row
}

// CSVWriter writes one row per transaction after a header row.
type CSVWriter struct{}

// Write renders txns as CSV.
func (CSVWriter) Write(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalRow(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Entry is the JSON form of a parsed transaction: the source fields merged
// with the memo record.
type Entry struct {
	UniqueID string               `json:"unique_id"`
	Date     string               `json:"date,omitempty"`
	Amount   json.Number          `json:"amount"`
	Source   string               `json:"data_source,omitempty"`
	Memo     string               `json:"memo"`
	Channel  model.Channel        `json:"channel"`
	Details  model.ChannelDetails `json:"channel_details,omitempty"`
	Vendor   model.VendorInfo     `json:"vendor"`
}

// NewEntry builds the JSON form of t.
func NewEntry(t model.Transaction) Entry {
	e := Entry{
		UniqueID: t.ID,
		Amount:   json.Number(t.Amount.String()),
		Source:   t.Source,
		Memo:     t.Memo,
		Channel:  t.Record.Channel,
		Details:  t.Record.Details,
		Vendor:   t.Record.Vendor,
	}
	if !t.Date.IsZero() {
		e.Date = t.Date.Format(model.DateFormat)
	}
	return e
}

// JSONWriter writes a JSON array of Entry values.
type JSONWriter struct {
	Indent bool
}

// Write renders txns as a JSON array.
func (jw JSONWriter) Write(w io.Writer, txns []model.Transaction) error {
	entries := make([]Entry, len(txns))
	for i, t := range txns {
		entries[i] = NewEntry(t)
	}
	enc := json.NewEncoder(w)
	if jw.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
