package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/barnlog/internal/analysis"
	cfgpkg "github.com/KaramelBytes/barnlog/internal/config"
	"github.com/KaramelBytes/barnlog/internal/log"
	"github.com/KaramelBytes/barnlog/internal/segment"
	"github.com/KaramelBytes/barnlog/internal/table"
	"github.com/KaramelBytes/barnlog/internal/utils"
	"github.com/spf13/cobra"
)

var (
	fIn     inputFlags
	fFilter filterFlags
	fOutput string
	fReport string
	fQuiet  bool
)

var filterCmd = &cobra.Command{
	Use:   "filter <file>",
	Short: "Remove noisy readings, keeping runs of stable values",
	Long: `Reads a CSV/TSV/XLSX sensor log, drops rows whose value is not numeric, orders the
rest by date and time, and keeps only readings that belong to a run of at least
--min-segment-length consecutive values whose neighbours differ by no more than
--threshold. All original columns of the surviving rows are written out.

A CSV output keeps the --delimiter it was read with (TSV always uses tabs).
XLSX date and time columns keep their number formats.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		applyInput(cmd, &fIn, c)
		applyFilter(cmd, &fFilter, c)
		if err := c.Validate(); err != nil {
			return err
		}
		out := fOutput
		if out == "" {
			out = utils.FilteredPath(args[0], c.Threshold, c.MinSegmentLength)
		}
		rep, err := runFilter(args[0], out, &fIn, c)
		if err != nil {
			return err
		}
		if fReport != "" {
			if err := writeReport(fReport, rep); err != nil {
				return err
			}
		}
		if !fQuiet {
			for _, w := range rep.Warnings {
				fmt.Printf("⚠ %s\n", w)
			}
			fmt.Printf("Rows: %d read, %d kept in %d of %d segments\n", rep.RowsRead, rep.RowsKept, rep.KeptSegments(), len(rep.Segments))
		}
		fmt.Printf("✓ Filtered data saved to %s\n", out)
		return nil
	},
}

// runFilter runs the whole filter workflow for one file and writes out.
func runFilter(path, out string, in *inputFlags, c *cfgpkg.Global) (*analysis.FilterReport, error) {
	s, err := loadSeries(path, in, c, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	p := c.Params()
	sum := segment.Summarize(s.Values, p)
	kept := segment.Filter(s.Values, p)
	log.L().Infow("segment filter applied",
		"file", path,
		"rows", s.Read,
		"non_numeric", len(s.Dropped),
		"segments", len(sum.Segments),
		"kept_segments", sum.KeptSegments(),
		"kept_rows", len(kept))

	if err := table.Write(out, s.Keep(kept)); err != nil {
		return nil, fmt.Errorf("write %s: %w", out, err)
	}
	log.L().Debugw("filtered table written", "path", out)

	rep := analysis.NewFilterReport(filepath.Base(path), s, sum)
	rep.Output = out
	return rep, nil
}

// writeReport saves rep as JSON when path ends in .json, Markdown otherwise.
func writeReport(path string, rep *analysis.FilterReport) error {
	var data []byte
	if filepath.Ext(path) == ".json" {
		b, err := rep.JSON()
		if err != nil {
			return err
		}
		data = b
	} else {
		data = []byte(rep.Markdown())
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir report dir: %w", err)
		}
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return err
	}
	fmt.Printf("✓ Report written to %s\n", path)
	return nil
}

func init() {
	rootCmd.AddCommand(filterCmd)
	addInputFlags(filterCmd, &fIn)
	addFilterFlags(filterCmd, &fFilter)
	filterCmd.Flags().StringVarP(&fOutput, "output", "o", "", "output file (.xlsx, .csv, .tsv); default <name>_my_filter_th<thr>_msegl<min>.<ext>")
	filterCmd.Flags().StringVar(&fReport, "report", "", "also write a run report (.md or .json)")
	filterCmd.Flags().BoolVarP(&fQuiet, "quiet", "q", false, "only print the output path")
}
