// Package table reads and writes small tabular datasets (XLSX, CSV, TSV)
// as rows of strings with a header.
package table

import (
	"errors"
	"strings"
)

// ErrUnsupported indicates a file format is not supported.
var ErrUnsupported = errors.New("unsupported table format")

// CellFormat is the display format of a numeric spreadsheet column.
type CellFormat uint8

const (
	FormatGeneral CellFormat = iota
	FormatDate
	FormatTime
	FormatDateTime
)

// Table is a header plus rows. Rows are padded to the header width on load.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
	// Formats holds per-column date/time display formats taken from XLSX
	// styles; nil when the source carried none.
	Formats []CellFormat
	// Delimiter is the CSV separator the table was read with, when it was
	// given explicitly.
	Delimiter rune
}

// WithRows returns a table with t's layout and the given rows.
func (t *Table) WithRows(rows [][]string) *Table {
	out := *t
	out.Rows = rows
	return &out
}

// ColumnIndex finds a column by name, ignoring case and surrounding space.
func (t *Table) ColumnIndex(name string) (int, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return -1, false
	}
	for i, h := range t.Header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i, true
		}
	}
	return -1, false
}

// Select returns a new table containing the given rows, in the given order.
// Row slices are shared with t.
func (t *Table) Select(rows []int) *Table {
	sel := make([][]string, 0, len(rows))
	for _, r := range rows {
		sel = append(sel, t.Rows[r])
	}
	return t.WithRows(sel)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

func pad[T any](row []T, n int) []T {
	if len(row) >= n {
		return row
	}
	tmp := make([]T, n)
	copy(tmp, row)
	return tmp
}

func fromRecords(name string, recs [][]string) *Table {
	t := &Table{Name: name}
	if len(recs) == 0 {
		return t
	}
	t.Header = recs[0]
	width := len(t.Header)
	for _, r := range recs[1:] {
		if len(r) > width {
			width = len(r)
		}
	}
	t.Header = pad(t.Header, width)
	for _, r := range recs[1:] {
		t.Rows = append(t.Rows, pad(r, width))
	}
	return t
}
