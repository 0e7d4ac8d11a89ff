package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/barnlog/internal/segment"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Segment filter
	Threshold        float64 `mapstructure:"threshold" yaml:"threshold"`
	MinSegmentLength int     `mapstructure:"min_segment_length" yaml:"min_segment_length"`

	// Input layout
	DateColumn  string `mapstructure:"date_column" yaml:"date_column"`
	TimeColumn  string `mapstructure:"time_column" yaml:"time_column"`
	ValueColumn string `mapstructure:"value_column" yaml:"value_column"`
	SheetName   string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex  int    `mapstructure:"sheet_index" yaml:"sheet_index"`

	// Trend chart
	PlotTitle    string  `mapstructure:"plot_title" yaml:"plot_title"`
	PlotXLabel   string  `mapstructure:"plot_x_label" yaml:"plot_x_label"`
	PlotYLabel   string  `mapstructure:"plot_y_label" yaml:"plot_y_label"`
	PlotWidthIn  float64 `mapstructure:"plot_width_in" yaml:"plot_width_in"`
	PlotHeightIn float64 `mapstructure:"plot_height_in" yaml:"plot_height_in"`

	// filter-batch parallelism
	BatchJobs int `mapstructure:"batch_jobs" yaml:"batch_jobs"`
}

// Default returns the built-in configuration.
func Default() *Global {
	p := segment.DefaultParams()
	return &Global{
		Threshold:        p.Threshold,
		MinSegmentLength: p.MinLength,
		DateColumn:       "date",
		TimeColumn:       "time",
		ValueColumn:      "distance",
		SheetIndex:       1,
		PlotTitle:        "Time vs Value Plot",
		PlotXLabel:       "Time",
		PlotYLabel:       "Depth",
		PlotWidthIn:      10,
		PlotHeightIn:     5,
		BatchJobs:        4,
	}
}

// Params returns the segment filter parameters.
func (c *Global) Params() segment.Params {
	return segment.Params{Threshold: c.Threshold, MinLength: c.MinSegmentLength}
}

// Validate checks values that would make commands misbehave.
func (c *Global) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.ValueColumn == "" {
		return fmt.Errorf("value_column must not be empty")
	}
	if c.PlotWidthIn <= 0 || c.PlotHeightIn <= 0 {
		return fmt.Errorf("plot size must be positive, got %gx%g", c.PlotWidthIn, c.PlotHeightIn)
	}
	return nil
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".barnlog"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.barnlog/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("BARNLOG")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("threshold", d.Threshold)
	v.SetDefault("min_segment_length", d.MinSegmentLength)
	v.SetDefault("date_column", d.DateColumn)
	v.SetDefault("time_column", d.TimeColumn)
	v.SetDefault("value_column", d.ValueColumn)
	v.SetDefault("sheet_name", d.SheetName)
	v.SetDefault("sheet_index", d.SheetIndex)
	v.SetDefault("plot_title", d.PlotTitle)
	v.SetDefault("plot_x_label", d.PlotXLabel)
	v.SetDefault("plot_y_label", d.PlotYLabel)
	v.SetDefault("plot_width_in", d.PlotWidthIn)
	v.SetDefault("plot_height_in", d.PlotHeightIn)
	v.SetDefault("batch_jobs", d.BatchJobs)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
