// Package chart renders a forecast series as four stacked line panels
// (temperature, humidity, wind speed, wind direction) sharing one time axis.
package chart

import (
	"bytes"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"weather-tracks/internal/models"
)

var ErrEmptySeries = errors.New("chart: empty series")

const (
	// Weekday, day of month, abbreviated month, hour:minute.
	tickFormat = "Mon 02 Jan 15:04"

	titleFontSize = 16
	labelFontSize = 12
	lineWidth     = 2
)

var (
	// Positions on the colormap, one per panel, top to bottom.
	colorStops = []float64{0.1, 0.35, 0.6, 0.85}

	darkgridBackground = color.RGBA{R: 0xEA, G: 0xEA, B: 0xF2, A: 0xFF}
	titlePadding       = vg.Points(8)
)

type Options struct {
	Title string
	// Width and Height are in inches.
	Width  float64
	Height float64
	DPI    int
}

func DefaultOptions() Options {
	return Options{
		Title:  "Weather Forecast Overview",
		Width:  10,
		Height: 12,
		DPI:    150,
	}
}

type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.DPI <= 0 {
		opts.DPI = def.DPI
	}
	return &Renderer{opts: opts}
}

type panel struct {
	label  string
	values []*float64
}

func panels(series models.Series) []panel {
	return []panel{
		{label: "Temperature (Celsius)", values: series.Temperatures},
		{label: "Humidity (%)", values: series.Humidity},
		{label: "Wind Speed (m/s)", values: series.WindSpeeds},
		{label: "Wind Direction (Degrees)", values: series.WindDirections},
	}
}

// RenderFile writes the chart as PNG to path, replacing any existing file.
// The existing file is left untouched when rendering fails.
func (r *Renderer) RenderFile(series models.Series, path string) error {
	if series.Len() == 0 {
		return ErrEmptySeries
	}

	return writeFileAtomic(path, func(w io.Writer) error {
		return r.Render(series, w)
	})
}

// writeFileAtomic renders into a buffer, writes it to a temporary file next
// to path and renames it over path.
func writeFileAtomic(path string, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "create temp chart file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write chart file")
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return errors.Wrap(err, "chmod chart file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close chart file")
	}

	return errors.Wrap(os.Rename(tmp.Name(), path), "replace chart file")
}

// Render writes the chart as PNG to w.
func (r *Renderer) Render(series models.Series, w io.Writer) error {
	if series.Len() == 0 {
		return ErrEmptySeries
	}

	first, last, _ := series.Span()
	xmin, xmax := float64(first.Unix()), float64(last.Unix())
	if xmin == xmax {
		pad := (30 * time.Minute).Seconds()
		xmin, xmax = xmin-pad, xmax+pad
	}

	colors, err := gradient(colorStops)
	if err != nil {
		return err
	}

	ps := panels(series)
	plots := make([][]*plot.Plot, len(ps))
	for i, pn := range ps {
		p, err := buildPanel(series.Times, pn, colors[i%len(colors)], i == len(ps)-1)
		if err != nil {
			return errors.Wrapf(err, "build %s panel", pn.label)
		}
		p.X.Min, p.X.Max = xmin, xmax
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(r.opts.Width)*vg.Inch, vg.Length(r.opts.Height)*vg.Inch),
		vgimg.UseDPI(r.opts.DPI),
	)
	dc := draw.New(img)

	body := dc
	if r.opts.Title != "" {
		titleStyle := plots[0][0].Title.TextStyle
		titleStyle.Font.Size = vg.Points(titleFontSize)
		titleStyle.XAlign = draw.XCenter
		titleStyle.YAlign = draw.YTop

		center := (dc.Min.X + dc.Max.X) / 2
		dc.FillText(titleStyle, vg.Point{X: center, Y: dc.Max.Y - titlePadding}, r.opts.Title)

		top := dc.Max.Y - titleStyle.Height(r.opts.Title) - 2*titlePadding
		body.Rectangle = vg.Rectangle{Min: dc.Min, Max: vg.Point{X: dc.Max.X, Y: top}}
	}

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(8),
		PadRight:  vg.Points(12),
		PadY:      vg.Points(6),
	}

	canvases := plot.Align(plots, tiles, body)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return errors.Wrap(err, "encode png")
	}
	return nil
}

func buildPanel(times []time.Time, pn panel, c color.Color, bottom bool) (*plot.Plot, error) {
	p := plot.New()
	p.BackgroundColor = darkgridBackground

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.White
	grid.Horizontal.Color = color.White
	p.Add(grid)

	p.Y.Label.Text = pn.label
	p.Y.Label.TextStyle.Font.Size = vg.Points(labelFontSize)

	var legendAdded bool
	for _, seg := range segments(times, pn.values) {
		line, err := plotter.NewLine(seg)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(lineWidth)
		p.Add(line)

		if !legendAdded {
			p.Legend.Add(pn.label, line)
			legendAdded = true
		}
	}
	p.Legend.Top = true

	if !legendAdded {
		// Nothing to plot; keep a sane y range for the empty panel.
		p.Y.Min, p.Y.Max = 0, 1
	}

	ticks := plot.TimeTicks{Format: tickFormat}
	if bottom {
		p.X.Tick.Marker = ticks
		p.X.Label.Text = "Time"
		p.X.Label.TextStyle.Font.Size = vg.Points(labelFontSize)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	} else {
		p.X.Tick.Marker = unlabeledTicks{Ticker: ticks}
	}

	return p, nil
}

// unlabeledTicks keeps tick positions but drops their labels, so stacked
// panels share gridlines with the bottom axis.
type unlabeledTicks struct {
	plot.Ticker
}

func (u unlabeledTicks) Ticks(min, max float64) []plot.Tick {
	ticks := u.Ticker.Ticks(min, max)
	for i := range ticks {
		ticks[i].Label = ""
	}
	return ticks
}

// segments splits a column into runs of present readings so that absent
// readings show as gaps instead of zeros.
func segments(times []time.Time, values []*float64) []plotter.XYs {
	var (
		segs []plotter.XYs
		cur  plotter.XYs
	)
	for i, v := range values {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(times[i].Unix()), Y: *v})
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

func gradient(stops []float64) ([]color.Color, error) {
	cmap := moreland.ExtendedKindlmann()
	cmap.SetMax(1)
	cmap.SetMin(0)

	colors := make([]color.Color, 0, len(stops))
	for _, s := range stops {
		c, err := cmap.At(s)
		if err != nil {
			return nil, errors.Wrapf(err, "colormap at %v", s)
		}
		colors = append(colors, c)
	}
	return colors, nil
}
