package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/barnlog/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set barnlog defaults",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg
		if c == nil {
			fmt.Println("No config loaded; showing built-in defaults")
			c = cfgpkg.Default()
		}
		fmt.Printf("threshold: %g\n", c.Threshold)
		fmt.Printf("min_segment_length: %d\n", c.MinSegmentLength)
		fmt.Printf("date_column: %s\n", c.DateColumn)
		fmt.Printf("time_column: %s\n", c.TimeColumn)
		fmt.Printf("value_column: %s\n", c.ValueColumn)
		if c.SheetName != "" {
			fmt.Printf("sheet_name: %s\n", c.SheetName)
		}
		fmt.Printf("sheet_index: %d\n", c.SheetIndex)
		fmt.Printf("plot_title: %s\n", c.PlotTitle)
		fmt.Printf("plot_x_label: %s\n", c.PlotXLabel)
		fmt.Printf("plot_y_label: %s\n", c.PlotYLabel)
		fmt.Printf("plot_size_in: %gx%g\n", c.PlotWidthIn, c.PlotHeightIn)
		fmt.Printf("batch_jobs: %d\n", c.BatchJobs)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		if err := setKey(&next, key, val); err != nil {
			return err
		}
		if err := next.Validate(); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		*cfg = next
		fmt.Println("Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for threshold: %w", err)
		}
		c.Threshold = f
	case "min_segment_length":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for min_segment_length: %w", err)
		}
		c.MinSegmentLength = i
	case "date_column":
		c.DateColumn = val
	case "time_column":
		c.TimeColumn = val
	case "value_column":
		c.ValueColumn = val
	case "sheet_name":
		c.SheetName = val
	case "sheet_index":
		i, err := strconv.Atoi(val)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid sheet_index: %v (1-based)", val)
		}
		c.SheetIndex = i
	case "plot_title":
		c.PlotTitle = val
	case "plot_x_label":
		c.PlotXLabel = val
	case "plot_y_label":
		c.PlotYLabel = val
	case "plot_width_in", "plot_height_in":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %w", key, err)
		}
		if key == "plot_width_in" {
			c.PlotWidthIn = f
		} else {
			c.PlotHeightIn = f
		}
	case "batch_jobs":
		i, err := strconv.Atoi(val)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for batch_jobs: %v", val)
		}
		c.BatchJobs = i
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
