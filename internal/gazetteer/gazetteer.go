// Package gazetteer maps US state codes and zip codes to city names.
//
// A Gazetteer is built once from a (zip, city, state) reference table and is
// read-only afterwards, so a single instance can be shared by any number of
// concurrent parses.
//
// The embedded table is a sample: 138 rows over 34 states, mostly
// Massachusetts. A memo ending in a state it lacks (KS, LA, ...) resolves no
// state or city. Production use should point gazetteer.path in grocktx.yaml,
// or --gazetteer, at a full zip,city,state table.
package gazetteer

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

//go:embed data/zips.csv
var defaultTable []byte

// ErrEmpty is returned when a reference table contains no rows.
var ErrEmpty = errors.New("gazetteer: reference table is empty")

const (
	numFields = 3
	colZip    = 0
	colCity   = 1
	colState  = 2
)

// Row is one (zip, city, state) entry of the reference table.
type Row struct {
	Zip   string
	City  string
	State string
}

// Gazetteer provides lookups from state code and zip code to city names.
type Gazetteer struct {
	byState map[string][]string
	byZip   map[string][]string
	rows    int
}

// New builds a Gazetteer from rows. City order per state and per zip follows
// row order; duplicates are kept.
func New(rows []Row) *Gazetteer {
	g := &Gazetteer{
		byState: make(map[string][]string),
		byZip:   make(map[string][]string),
		rows:    len(rows),
	}
	for _, r := range rows {
		g.byZip[r.Zip] = append(g.byZip[r.Zip], r.City)
		g.byState[r.State] = append(g.byState[r.State], r.City)
	}
	return g
}

// Read builds a Gazetteer from a headerless zip,city,state CSV table.
func Read(r io.Reader) (*Gazetteer, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading reference table: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return New(rows), nil
}

// UnmarshalRow converts a CSV record to a Row.
func UnmarshalRow(record []string) (Row, error) {
	if len(record) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	row := Row{
		Zip:   strings.TrimSpace(record[colZip]),
		City:  strings.TrimSpace(record[colCity]),
		State: strings.TrimSpace(record[colState]),
	}
	if row.Zip == "" || row.City == "" || row.State == "" {
		return Row{}, fmt.Errorf("empty field in %q", strings.Join(record, ","))
	}
	return row, nil
}

// Load reads a reference table from disk.
func Load(path string) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference table: %w", err)
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return g, nil
}

// Default builds a Gazetteer from the embedded reference table.
func Default() (*Gazetteer, error) {
	return Read(bytes.NewReader(defaultTable))
}

// Open loads the table at path, or the embedded table when path is empty.
func Open(path string) (*Gazetteer, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// CitiesInState returns the cities registered for a state code in table
// order. The returned slice must not be modified.
func (g *Gazetteer) CitiesInState(state string) []string {
	return g.byState[state]
}

// CitiesForZip returns the cities registered for a zip code in table order.
// The returned slice must not be modified.
func (g *Gazetteer) CitiesForZip(zip string) []string {
	return g.byZip[zip]
}

// FirstCityForZip returns the first city listed for zip, or "".
func (g *Gazetteer) FirstCityForZip(zip string) string {
	cities := g.byZip[zip]
	if len(cities) == 0 {
		return ""
	}
	return cities[0]
}

// HasState reports whether state is a known state code.
func (g *Gazetteer) HasState(state string) bool {
	return len(g.byState[state]) > 0
}

// States returns all known state codes, sorted.
func (g *Gazetteer) States() []string {
	states := make([]string, 0, len(g.byState))
	for s := range g.byState {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

// Len returns the number of reference rows the Gazetteer was built from.
func (g *Gazetteer) Len() int {
	return g.rows
}
