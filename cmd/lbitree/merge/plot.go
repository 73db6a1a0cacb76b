// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package merge

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/js-arias/lbitree/annot"
	"github.com/js-arias/lbitree/datefill"
	"github.com/js-arias/lbitree/param"
	"github.com/js-arias/lbitree/tree"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// plotValues returns a scatter plot
// of the annotation values
// against the date of each node.
// Nodes without a date will be interpolated.
func plotValues(name string, t *tree.Tree, p *param.P) (io.WriterTo, error) {
	if _, err := datefill.Fill(t, p.Epsilon()); err != nil {
		return nil, err
	}

	attr := p.Attribute()
	var xys plotter.XYs
	var leaf []bool
	for _, n := range t.Nodes() {
		v, ok := n.Annotations[attr]
		if !ok {
			continue
		}
		xys = append(xys, plotter.XY{X: n.Date, Y: v})
		leaf = append(leaf, n.IsLeaf())
	}
	if len(xys) == 0 {
		return nil, fmt.Errorf("plot %q: no annotated nodes", name)
	}

	g, err := annot.Scheme(p.Color())
	if err != nil {
		return nil, err
	}
	vals := make([]float64, len(xys))
	for i, xy := range xys {
		vals[i] = xy.Y
	}
	lo, hi := floats.Min(vals), floats.Max(vals)

	plt := plot.New()
	plt.Title.Text = p.Title()
	plt.X.Label.Text = "date"
	plt.Y.Label.Text = attr

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("plot %q: %v", name, err)
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		v := 0.5
		if hi > lo {
			v = (xys[i].Y - lo) / (hi - lo)
		}
		gs := draw.GlyphStyle{
			Color:  g.Gradient(v),
			Radius: vg.Points(2),
			Shape:  draw.CircleGlyph{},
		}
		if !leaf[i] {
			gs.Shape = draw.TriangleGlyph{}
		}
		return gs
	}
	plt.Add(sc)

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if format == "" {
		format = "png"
	}
	w, err := plt.WriterTo(6*vg.Inch, 4*vg.Inch, format)
	if err != nil {
		return nil, fmt.Errorf("plot %q: %v", name, err)
	}
	return w, nil
}
