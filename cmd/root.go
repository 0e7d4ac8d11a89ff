package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/barnlog/internal/config"
	"github.com/KaramelBytes/barnlog/internal/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "barnlog",
	Short: "barnlog: clean and chart barn depth-sensor logs",
	Long: `barnlog works on spreadsheets of timestamped depth/distance readings. It removes
noisy readings by keeping only contiguous runs of stable values, and renders
time-series charts of the raw logs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	err := rootCmd.Execute()
	log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.barnlog/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	if err := log.Init(debug); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	log.L().Debugw("config loaded", "file", cfgFile, "threshold", cfg.Threshold, "min_segment_length", cfg.MinSegmentLength)
}

// currentConfig returns a copy of the loaded configuration, or defaults.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	c := *cfg
	return &c
}
