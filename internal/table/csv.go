package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/barnlog/internal/utils"
)

type csvFormat struct{}

func (csvFormat) Match(path string) bool { return hasExt(path, ".csv", ".tsv") }

func sniffDelimiter(path string) rune {
	if hasExt(path, ".tsv") {
		return '\t'
	}
	return ','
}

func (csvFormat) Read(path string, opt ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	var recs [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		recs = append(recs, rec)
	}
	t := fromRecords(filepath.Base(path), recs)
	t.Delimiter = opt.Delimiter
	return t, nil
}

// Write uses a tab for .tsv. A .csv keeps the separator the table was read
// with, falling back to a comma.
func (csvFormat) Write(path string, t *Table) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = sniffDelimiter(path)
	if w.Comma == ',' && t.Delimiter != 0 && t.Delimiter != '\t' {
		w.Comma = t.Delimiter
	}
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
