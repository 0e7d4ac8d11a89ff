package table

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ReadOptions selects what to read from a file.
type ReadOptions struct {
	// SheetName picks an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex is the 1-based XLSX sheet used when SheetName is empty.
	SheetIndex int
	// Delimiter for CSV. If 0, chosen from the extension.
	Delimiter rune
}

// Format reads and writes one file type.
type Format interface {
	Match(path string) bool
	Read(path string, opt ReadOptions) (*Table, error)
	Write(path string, t *Table) error
}

var registry []Format

// Register adds a format to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

func lookup(path string) (Format, error) {
	for _, f := range registry {
		if f.Match(path) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

// Read loads path using the format matching its extension.
func Read(path string, opt ReadOptions) (*Table, error) {
	f, err := lookup(path)
	if err != nil {
		return nil, err
	}
	return f.Read(path, opt)
}

// Write stores t at path using the format matching its extension.
func Write(path string, t *Table) error {
	f, err := lookup(path)
	if err != nil {
		return err
	}
	return f.Write(path, t)
}

func hasExt(path string, exts ...string) bool {
	lower := strings.ToLower(path)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}

func init() {
	Register(xlsxFormat{})
	Register(csvFormat{})
}
