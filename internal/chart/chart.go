// Package chart renders time-series line charts of sensor readings.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/barnlog/internal/utils"
)

// ErrUnsupported indicates an output extension with no renderer.
var ErrUnsupported = errors.New("unsupported chart format")

// Point is one reading on the chart.
type Point struct {
	Time  time.Time
	Value float64
}

// Options controls labelling and size.
type Options struct {
	Title    string
	XLabel   string
	YLabel   string
	Label    string // legend entry for the series
	WidthIn  float64
	HeightIn float64
}

// DefaultOptions returns the layout used for barn sensor trend charts.
func DefaultOptions() Options {
	return Options{
		Title:    "Time vs Value Plot",
		XLabel:   "Time",
		YLabel:   "Depth",
		Label:    "Value",
		WidthIn:  10,
		HeightIn: 5,
	}
}

var imageFormats = map[string]bool{
	"png": true, "svg": true, "pdf": true, "jpg": true, "jpeg": true, "tif": true, "tiff": true, "eps": true,
}

// Render draws pts as a line chart into path. The extension selects the
// renderer: .html produces an interactive page, image and document
// extensions a static chart.
func Render(path string, pts []Point, opt Options) error {
	if len(pts) == 0 {
		return fmt.Errorf("chart %s: no points to plot", filepath.Base(path))
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	var buf bytes.Buffer
	switch {
	case ext == "html" || ext == "htm":
		if err := renderHTML(&buf, pts, opt); err != nil {
			return fmt.Errorf("render html chart: %w", err)
		}
	case imageFormats[ext]:
		if err := renderImage(&buf, ext, pts, opt); err != nil {
			return fmt.Errorf("render %s chart: %w", ext, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
