// Package visualize renders labeled samples and training curves with
// gonum/plot.
package visualize

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/arithmath/linear"
	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

// Default figure size used by Save.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// Scatter plots the first two coordinates of points, one color and glyph
// per class.
func Scatter(points []linear.LabeledExample, title string) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, errors.NewModelError("visualize.Scatter", "no points", errors.ErrEmptyData)
	}

	byClass := map[int]plotter.XYs{}
	for _, ex := range points {
		if ex.Value.Dimension() < 2 {
			return nil, errors.NewDimensionError("visualize.Scatter", 2, ex.Value.Dimension(), 1)
		}
		byClass[ex.Label] = append(byClass[ex.Label], plotter.XY{X: ex.Value.At(0), Y: ex.Value.At(1)})
	}
	labels := make([]int, 0, len(byClass))
	for label := range byClass {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x0"
	p.Y.Label.Text = "x1"
	p.Add(plotter.NewGrid())

	for i, label := range labels {
		scatter, err := plotter.NewScatter(byClass[label])
		if err != nil {
			return nil, errors.Wrapf(err, "scatter for class %d", label)
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Radius = vg.Length(2)
		scatter.GlyphStyle.Shape = glyph(i)
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("class %d", label), scatter)
	}
	return p, nil
}

func glyph(i int) draw.GlyphDrawer {
	switch i % 4 {
	case 0:
		return draw.CircleGlyph{}
	case 1:
		return draw.TriangleGlyph{}
	case 2:
		return draw.SquareGlyph{}
	default:
		return draw.CrossGlyph{}
	}
}

// Curve plots values against their index (epoch).
func Curve(title, ylabel string, values []float64) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, errors.NewModelError("visualize.Curve", "no values", errors.ErrEmptyData)
	}

	points := make(plotter.XYs, len(values))
	for i, v := range values {
		points[i] = plotter.XY{X: float64(i), Y: v}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = ylabel

	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, errors.Wrap(err, "curve")
	}
	line.LineStyle.Color = plotutil.Color(0)
	p.Add(line)
	return p, nil
}

// Save writes p to path at Width×Height. The format follows the file
// extension (.png, .svg, .pdf, ...).
func Save(p *plot.Plot, path string) error {
	if err := p.Save(Width, Height, path); err != nil {
		return errors.Wrapf(err, "save plot to %s", path)
	}
	return nil
}
