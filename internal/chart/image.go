package chart

import (
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var lineBlue = color.RGBA{B: 255, A: 255}

func renderImage(w io.Writer, format string, pts []Point, opt Options) error {
	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = opt.XLabel
	p.Y.Label.Text = opt.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02\n15:04"}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: float64(pt.Time.Unix()) + float64(pt.Time.Nanosecond())/1e9, Y: pt.Value}
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return err
	}
	line.Color = lineBlue
	line.Width = vg.Points(1)
	points.Shape = draw.CircleGlyph{}
	points.Color = lineBlue
	points.Radius = vg.Points(2)
	p.Add(line, points)
	if opt.Label != "" {
		p.Legend.Add(opt.Label, line, points)
		p.Legend.Top = true
	}

	wt, err := p.WriterTo(vg.Length(opt.WidthIn)*vg.Inch, vg.Length(opt.HeightIn)*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
