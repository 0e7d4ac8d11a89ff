// Package series turns a loaded table of sensor readings into an ordered
// numeric series: column lookup, numeric coercion and time ordering.
package series

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/barnlog/internal/segment"
	"github.com/KaramelBytes/barnlog/internal/table"
)

var (
	// ErrMissingColumn indicates a required column is absent from the header.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidInput indicates a cell could not be coerced where coercion is mandatory.
	ErrInvalidInput = segment.ErrInvalidInput
)

// Columns names the columns holding the date, the time of day and the reading.
type Columns struct {
	Date  string
	Time  string
	Value string
}

// DefaultColumns matches the sensor export layout.
func DefaultColumns() Columns {
	return Columns{Date: "date", Time: "time", Value: "distance"}
}

// Options controls how a table becomes a series.
type Options struct {
	Columns Columns
	Number  table.NumberFormat
}

// Series is a cleaned table plus the parsed readings, in series order.
// Values[i] and Times[i] belong to Table.Rows[i].
type Series struct {
	Table  *table.Table
	Values []float64
	// Times holds the combined timestamps; zero when not available.
	Times []time.Time
	// Read is the number of data rows in the source table.
	Read int
	// Dropped lists spreadsheet row numbers (header is row 1) removed because
	// the value cell was not numeric.
	Dropped []int
	// Sorted reports whether rows were reordered by date and time.
	Sorted bool
	// ByTimestamp reports whether sorting used parsed timestamps rather than
	// the raw cell text.
	ByTimestamp bool
}

// Len returns the number of readings.
func (s *Series) Len() int { return len(s.Values) }

// Keep returns the table rows for the given readings, in reading order.
func (s *Series) Keep(rs []segment.Reading) *table.Table {
	return s.Table.Select(segment.Sources(rs))
}

type entry struct {
	row   []string
	value float64
	ts    time.Time
	tsOK  bool
}

// Clean coerces the value column to numbers, drops rows that fail, and when
// both date and time columns exist sorts the rest chronologically. Sorting is
// stable; if any timestamp cannot be parsed the raw date and time text is
// compared instead.
func Clean(t *table.Table, opt Options) (*Series, error) {
	vi, ok := t.ColumnIndex(opt.Columns.Value)
	if !ok {
		return nil, missing(t, opt.Columns.Value)
	}
	s := &Series{Read: t.Len()}
	entries := make([]entry, 0, t.Len())
	for i, row := range t.Rows {
		v, ok := table.ParseNumber(row[vi], opt.Number)
		if !ok {
			s.Dropped = append(s.Dropped, i+2)
			continue
		}
		entries = append(entries, entry{row: row, value: v})
	}

	di, hasDate := t.ColumnIndex(opt.Columns.Date)
	ti, hasTime := t.ColumnIndex(opt.Columns.Time)
	if hasDate && hasTime {
		allParsed := true
		for i := range entries {
			e := &entries[i]
			e.ts, e.tsOK = table.Combine(e.row[di], e.row[ti])
			allParsed = allParsed && e.tsOK
		}
		if allParsed {
			sort.SliceStable(entries, func(a, b int) bool { return entries[a].ts.Before(entries[b].ts) })
		} else {
			sort.SliceStable(entries, func(a, b int) bool {
				ea, eb := entries[a].row, entries[b].row
				if ea[di] != eb[di] {
					return ea[di] < eb[di]
				}
				return ea[ti] < eb[ti]
			})
		}
		s.Sorted = true
		s.ByTimestamp = allParsed
	}
	s.fill(t, entries)
	return s, nil
}

// Timeline requires date, time and value columns and fails on the first row
// whose timestamp or value cannot be parsed. Rows are sorted by timestamp.
func Timeline(t *table.Table, opt Options) (*Series, error) {
	di, ok := t.ColumnIndex(opt.Columns.Date)
	if !ok {
		return nil, missing(t, opt.Columns.Date)
	}
	ti, ok := t.ColumnIndex(opt.Columns.Time)
	if !ok {
		return nil, missing(t, opt.Columns.Time)
	}
	vi, ok := t.ColumnIndex(opt.Columns.Value)
	if !ok {
		return nil, missing(t, opt.Columns.Value)
	}
	entries := make([]entry, 0, t.Len())
	for i, row := range t.Rows {
		ts, ok := table.Combine(row[di], row[ti])
		if !ok {
			return nil, fmt.Errorf("%w: row %d: cannot parse date/time %q %q", ErrInvalidInput, i+2, row[di], row[ti])
		}
		v, ok := table.ParseNumber(row[vi], opt.Number)
		if !ok {
			return nil, fmt.Errorf("%w: row %d: %s value %q is not numeric", ErrInvalidInput, i+2, t.Header[vi], row[vi])
		}
		entries = append(entries, entry{row: row, value: v, ts: ts, tsOK: true})
	}
	sort.SliceStable(entries, func(a, b int) bool { return entries[a].ts.Before(entries[b].ts) })
	s := &Series{Read: t.Len(), Sorted: true, ByTimestamp: true}
	s.fill(t, entries)
	return s, nil
}

func (s *Series) fill(t *table.Table, entries []entry) {
	s.Table = t.WithRows(make([][]string, len(entries)))
	s.Values = make([]float64, len(entries))
	s.Times = make([]time.Time, len(entries))
	for i, e := range entries {
		s.Table.Rows[i] = e.row
		s.Values[i] = e.value
		if e.tsOK {
			s.Times[i] = e.ts
		}
	}
}

func missing(t *table.Table, name string) error {
	return fmt.Errorf("%w: %q not found in %s (columns: %s)", ErrMissingColumn, name, t.Name, strings.Join(t.Header, ", "))
}
