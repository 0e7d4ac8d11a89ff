package chart

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func renderHTML(w io.Writer, pts []Point, opt Options) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: opt.Title,
			Width:     fmt.Sprintf("%.0fpx", opt.WidthIn*100),
			Height:    fmt.Sprintf("%.0fpx", opt.HeightIn*100),
		}),
		charts.WithTitleOpts(opts.Title{Title: opt.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(opt.Label != ""), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: opt.XLabel, Type: "time", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         opt.YLabel,
			NameLocation: "middle",
			NameGap:      40,
			Scale:        opts.Bool(true),
			SplitLine:    &opts.SplitLine{Show: opts.Bool(true)},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)

	data := make([]opts.LineData, len(pts))
	for i, pt := range pts {
		data[i] = opts.LineData{Value: []interface{}{pt.Time.Format(time.RFC3339), pt.Value}}
	}
	line.AddSeries(opt.Label, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	return line.Render(w)
}
