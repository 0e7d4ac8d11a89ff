package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/barnlog/internal/chart"
	cfgpkg "github.com/KaramelBytes/barnlog/internal/config"
	"github.com/KaramelBytes/barnlog/internal/log"
	"github.com/KaramelBytes/barnlog/internal/utils"
	"github.com/spf13/cobra"
)

var (
	tIn     inputFlags
	tOutput string
	tTitle  string
	tXLabel string
	tYLabel string
	tWidth  float64
	tHeight float64
)

var trendCmd = &cobra.Command{
	Use:   "trend <file>",
	Short: "Plot readings over time",
	Long: `Combines the date and time columns into timestamps, sorts by them and draws the
value column as a line chart. The output extension picks the format: .png, .svg,
.pdf, .jpg, .tif, .eps, or .html for an interactive chart.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		applyInput(cmd, &tIn, c)
		applyPlot(cmd, c)
		if err := c.Validate(); err != nil {
			return err
		}
		s, err := loadSeries(args[0], &tIn, c, true)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(args[0]), err)
		}
		pts := make([]chart.Point, s.Len())
		for i := range pts {
			pts[i] = chart.Point{Time: s.Times[i], Value: s.Values[i]}
		}
		out := tOutput
		if out == "" {
			out = utils.SiblingPath(args[0], "_trend", ".png")
		}
		opt := chart.DefaultOptions()
		opt.Title = c.PlotTitle
		opt.XLabel = c.PlotXLabel
		opt.YLabel = c.PlotYLabel
		opt.WidthIn = c.PlotWidthIn
		opt.HeightIn = c.PlotHeightIn
		if err := chart.Render(out, pts, opt); err != nil {
			return err
		}
		log.L().Infow("trend chart written", "file", args[0], "points", len(pts), "path", out)
		fmt.Printf("✓ Chart saved to %s\n", out)
		return nil
	},
}

func applyPlot(cmd *cobra.Command, c *cfgpkg.Global) {
	f := cmd.Flags()
	if f.Changed("title") {
		c.PlotTitle = tTitle
	}
	if f.Changed("x-label") {
		c.PlotXLabel = tXLabel
	}
	if f.Changed("y-label") {
		c.PlotYLabel = tYLabel
	}
	if f.Changed("width") {
		c.PlotWidthIn = tWidth
	}
	if f.Changed("height") {
		c.PlotHeightIn = tHeight
	}
}

func init() {
	rootCmd.AddCommand(trendCmd)
	addInputFlags(trendCmd, &tIn)
	trendCmd.Flags().StringVarP(&tOutput, "output", "o", "", "chart file (default <name>_trend.png)")
	trendCmd.Flags().StringVar(&tTitle, "title", "", "chart title")
	trendCmd.Flags().StringVar(&tXLabel, "x-label", "", "x axis label")
	trendCmd.Flags().StringVar(&tYLabel, "y-label", "", "y axis label")
	trendCmd.Flags().Float64Var(&tWidth, "width", 10, "chart width in inches")
	trendCmd.Flags().Float64Var(&tHeight, "height", 5, "chart height in inches")
}
