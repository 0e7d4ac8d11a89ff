package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/barnlog/internal/analysis"
	"github.com/KaramelBytes/barnlog/internal/segment"
	"github.com/spf13/cobra"
)

var (
	sgIn     inputFlags
	sgFilter filterFlags
	sgJSON   bool
)

var segmentsCmd = &cobra.Command{
	Use:   "segments <file>",
	Short: "Show how a log splits into stable segments, without writing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		applyInput(cmd, &sgIn, c)
		applyFilter(cmd, &sgFilter, c)
		if err := c.Validate(); err != nil {
			return err
		}
		s, err := loadSeries(args[0], &sgIn, c, false)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(args[0]), err)
		}
		rep := analysis.NewFilterReport(filepath.Base(args[0]), s, segment.Summarize(s.Values, c.Params()))
		if sgJSON {
			b, err := rep.JSON()
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		fmt.Print(rep.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(segmentsCmd)
	addInputFlags(segmentsCmd, &sgIn)
	addFilterFlags(segmentsCmd, &sgFilter)
	segmentsCmd.Flags().BoolVar(&sgJSON, "json", false, "print the report as JSON")
}
