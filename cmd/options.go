package cmd

import (
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/barnlog/internal/config"
	"github.com/KaramelBytes/barnlog/internal/series"
	"github.com/KaramelBytes/barnlog/internal/table"
	"github.com/spf13/cobra"
)

// inputFlags are shared by every command that loads a sensor log.
type inputFlags struct {
	dateCol    string
	timeCol    string
	valueCol   string
	sheetName  string
	sheetIndex int
	delimiter  string
	decimal    string
	thousands  string
}

// filterFlags are shared by commands that run the segment filter.
type filterFlags struct {
	threshold float64
	minLength int
}

func addInputFlags(cmd *cobra.Command, in *inputFlags) {
	cmd.Flags().StringVar(&in.dateCol, "date-col", "", "date column name (default from config: date)")
	cmd.Flags().StringVar(&in.timeCol, "time-col", "", "time column name (default from config: time)")
	cmd.Flags().StringVar(&in.valueCol, "value-col", "", "reading column name (default from config: distance)")
	cmd.Flags().StringVar(&in.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(&in.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().StringVar(&in.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	cmd.Flags().StringVar(&in.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	cmd.Flags().StringVar(&in.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
}

func addFilterFlags(cmd *cobra.Command, ff *filterFlags) {
	cmd.Flags().Float64Var(&ff.threshold, "threshold", 3, "max absolute difference between consecutive readings within a segment")
	cmd.Flags().IntVar(&ff.minLength, "min-segment-length", 4, "minimum readings a segment needs to be kept")
}

// applyInput overlays explicitly set input flags on c.
func applyInput(cmd *cobra.Command, in *inputFlags, c *cfgpkg.Global) {
	f := cmd.Flags()
	if f.Changed("date-col") {
		c.DateColumn = in.dateCol
	}
	if f.Changed("time-col") {
		c.TimeColumn = in.timeCol
	}
	if f.Changed("value-col") {
		c.ValueColumn = in.valueCol
	}
	if f.Changed("sheet-name") {
		c.SheetName = in.sheetName
	}
	if f.Changed("sheet-index") && in.sheetIndex > 0 {
		c.SheetIndex = in.sheetIndex
	}
}

// applyFilter overlays explicitly set filter flags on c.
func applyFilter(cmd *cobra.Command, ff *filterFlags, c *cfgpkg.Global) {
	f := cmd.Flags()
	if f.Changed("threshold") {
		c.Threshold = ff.threshold
	}
	if f.Changed("min-segment-length") {
		c.MinSegmentLength = ff.minLength
	}
}

func readOptions(in *inputFlags, c *cfgpkg.Global) (table.ReadOptions, error) {
	opt := table.ReadOptions{SheetName: c.SheetName, SheetIndex: c.SheetIndex}
	switch in.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", in.delimiter)
	}
	return opt, nil
}

func seriesOptions(in *inputFlags, c *cfgpkg.Global) (series.Options, error) {
	opt := series.Options{Columns: series.Columns{Date: c.DateColumn, Time: c.TimeColumn, Value: c.ValueColumn}}
	switch strings.ToLower(strings.TrimSpace(in.decimal)) {
	case ",", "comma":
		opt.Number.Decimal = ','
	case ".", "dot":
		opt.Number.Decimal = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", in.decimal)
	}
	switch strings.ToLower(in.thousands) {
	case ",":
		opt.Number.Thousands = ','
	case ".":
		opt.Number.Thousands = '.'
	case "space", " ":
		opt.Number.Thousands = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", in.thousands)
	}
	return opt, nil
}

// loadSeries reads path and builds a series with the cleaning rules of the
// filter workflow, or the strict rules of the trend workflow when strict is set.
func loadSeries(path string, in *inputFlags, c *cfgpkg.Global, strict bool) (*series.Series, error) {
	ropt, err := readOptions(in, c)
	if err != nil {
		return nil, err
	}
	sopt, err := seriesOptions(in, c)
	if err != nil {
		return nil, err
	}
	t, err := table.Read(path, ropt)
	if err != nil {
		return nil, err
	}
	if strict {
		return series.Timeline(t, sopt)
	}
	return series.Clean(t, sopt)
}
