package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/barnlog/internal/analysis"
	"github.com/KaramelBytes/barnlog/internal/log"
	"github.com/KaramelBytes/barnlog/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	fbIn        inputFlags
	fbFilter    filterFlags
	fbOutputDir string
	fbReportDir string
	fbJobs      int
	fbQuiet     bool
)

var filterBatchCmd = &cobra.Command{
	Use:   "filter-batch <files...>",
	Short: "Filter many CSV/TSV/XLSX logs in parallel",
	Long: `Runs the same segment filter over every file (glob patterns allowed). Files are
independent; up to --jobs run at once and the first failure stops the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		c := currentConfig()
		applyInput(cmd, &fbIn, c)
		applyFilter(cmd, &fbFilter, c)
		if cmd.Flags().Changed("jobs") {
			c.BatchJobs = fbJobs
		}
		if err := c.Validate(); err != nil {
			return err
		}
		jobs := c.BatchJobs
		if jobs < 1 {
			jobs = 1
		}
		for _, dir := range []string{fbOutputDir, fbReportDir} {
			if dir == "" {
				continue
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}

		outs := batchOutputs(files, fbOutputDir, c.Threshold, c.MinSegmentLength)
		reports := make([]*analysis.FilterReport, len(files))
		g, ctx := errgroup.WithContext(context.Background())
		g.SetLimit(jobs)
		total := len(files)
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if !fbQuiet {
					fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
				}
				rep, err := runFilter(path, outs[i], &fbIn, c)
				if err != nil {
					return err
				}
				reports[i] = rep
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, rep := range reports {
			if fbReportDir != "" {
				name := utils.SiblingPath(filepath.Base(rep.Output), ".report", ".md")
				if err := writeReport(filepath.Join(fbReportDir, name), rep); err != nil {
					return err
				}
			}
			fmt.Printf("✓ %s: %d of %d rows kept → %s\n", rep.Name, rep.RowsKept, rep.RowsRead, rep.Output)
		}
		log.L().Infow("batch complete", "files", total, "jobs", jobs)
		return nil
	},
}

// expandInputs resolves globs and literal paths, de-duplicated and sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// batchOutputs names each file's output. With a shared dir, inputs with the
// same base name get a numeric suffix.
func batchOutputs(files []string, dir string, threshold float64, minLength int) []string {
	outs := make([]string, len(files))
	used := map[string]int{}
	for i, f := range files {
		out := utils.FilteredPath(f, threshold, minLength)
		if dir != "" {
			out = filepath.Join(dir, filepath.Base(out))
			used[out]++
			if n := used[out]; n > 1 {
				out = utils.SiblingPath(out, fmt.Sprintf("__%d", n), "")
			}
		}
		outs[i] = out
	}
	return outs
}

func init() {
	rootCmd.AddCommand(filterBatchCmd)
	addInputFlags(filterBatchCmd, &fbIn)
	addFilterFlags(filterBatchCmd, &fbFilter)
	filterBatchCmd.Flags().StringVar(&fbOutputDir, "output-dir", "", "directory for filtered files (default: next to each input)")
	filterBatchCmd.Flags().StringVar(&fbReportDir, "report-dir", "", "also write a Markdown report per file into this directory")
	filterBatchCmd.Flags().IntVarP(&fbJobs, "jobs", "j", 4, "files processed concurrently (default from config: batch_jobs)")
	filterBatchCmd.Flags().BoolVarP(&fbQuiet, "quiet", "q", false, "suppress per-file progress lines")
}
