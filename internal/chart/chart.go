// Package chart renders the SDZ voltage history as an image file.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"antipop/internal/history"
	"antipop/internal/logging"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrUnsupportedFormat is returned for output formats other than png, svg and pdf.
var ErrUnsupportedFormat = errors.New("unsupported chart format")

// YMax is the top of the voltage axis; it leaves headroom above the
// divider's ~21.4 V.
const YMax = 25.0

var (
	voltageColor   = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	thresholdColor = color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
)

// Options controls the rendered figure.
type Options struct {
	Title     string
	Threshold float64
	Width     vg.Length
	Height    vg.Length
}

// DefaultOptions returns a 8x4 inch figure with the 2 V mute threshold.
func DefaultOptions() Options {
	return Options{
		Title:     "Voltage at SDZ Pin",
		Threshold: 2.0,
		Width:     8 * vg.Inch,
		Height:    4 * vg.Inch,
	}
}

// FormatFromPath derives the output format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "svg", "pdf":
		return ext, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Save renders samples to path, choosing the format from its extension.
func Save(samples []history.Sample, opts Options, path string) error {
	if _, err := FormatFromPath(path); err != nil {
		return err
	}
	opts = opts.withDefaults()
	p, err := build(samples, opts)
	if err != nil {
		return err
	}
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	logging.Session("Chart saved: %s (%d samples)", path, len(samples))
	return nil
}

// Write renders samples to w in the given format.
func Write(w io.Writer, samples []history.Sample, opts Options, format string) error {
	format = strings.ToLower(format)
	if _, err := FormatFromPath("chart." + format); err != nil {
		return err
	}
	opts = opts.withDefaults()
	p, err := build(samples, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 || o.Height <= 0 {
		d := DefaultOptions()
		o.Width, o.Height = d.Width, d.Height
	}
	return o
}

func build(samples []history.Sample, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "SDZ (V)"
	p.Add(plotter.NewGrid())

	xMin, xMax := 0.0, 1.0
	if len(samples) > 0 {
		pts := make(plotter.XYs, len(samples))
		for i, s := range samples {
			pts[i].X = s.Time
			pts[i].Y = s.Voltage
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to build voltage line: %w", err)
		}
		line.LineStyle.Color = voltageColor
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("SDZ", line)

		xMin, xMax = samples[0].Time, samples[len(samples)-1].Time
		if xMax <= xMin {
			xMax = xMin + 1
		}
	}

	if opts.Threshold > 0 {
		thr := plotter.NewFunction(func(float64) float64 { return opts.Threshold })
		thr.Color = thresholdColor
		thr.Width = vg.Points(1)
		thr.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(thr)
		p.Legend.Add(fmt.Sprintf("mute threshold (%.1f V)", opts.Threshold), thr)
	}

	p.X.Min, p.X.Max = xMin, xMax
	p.Y.Min, p.Y.Max = 0, YMax
	return p, nil
}
