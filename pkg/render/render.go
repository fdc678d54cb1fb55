package render

import (
	"sort"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/layout"
)

// Backend draws on one physical sheet. Coordinates and line widths are in
// millimetres from the lower-left corner; y grows upwards.
type Backend interface {
	layout.Measurer

	DrawRectangle(x, y, w, h float64, fill, edge string, edgeWidth float64)
	DrawLine(points []layout.Point, width float64, color string)
	// DrawText draws one line of text with its baseline at y.
	DrawText(x, y float64, text string, font layout.Font, align layout.HAlign) error
}

// Text block metrics, in ems.
const (
	LineHeight = 1.2
	ascent     = 0.9 // block top to first baseline
)

type placed struct {
	box  layout.Box
	item layout.Primitive
}

// Draw issues every primitive of p to b. Primitives are drawn in ascending
// layer order; within a layer the page's own order is kept.
func Draw(b Backend, p *layout.Page, family string) error {
	var items []placed
	for _, r := range p.Regions {
		for _, it := range r.Items {
			items = append(items, placed{box: r.Box, item: it})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].item.Layer() < items[j].item.Layer()
	})

	for _, pl := range items {
		if err := drawOne(b, pl.box, pl.item, family); err != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, err, "draw page %d", p.Spec.Number)
		}
	}
	return nil
}

func drawOne(b Backend, box layout.Box, it layout.Primitive, family string) error {
	switch v := it.(type) {
	case layout.Rect:
		x, y := toSheet(box, v.X, v.Y)
		b.DrawRectangle(x, y, v.W*box.W, v.H*box.H, v.Fill, v.Edge, v.EdgeWidth*layout.PtToMM)
	case layout.Line:
		pts := make([]layout.Point, len(v.Points))
		for i, pt := range v.Points {
			pts[i].X, pts[i].Y = toSheet(box, pt.X, pt.Y)
		}
		b.DrawLine(pts, v.Width*layout.PtToMM, v.Color)
	case layout.Text:
		x, y := toSheet(box, v.X, v.Y)
		font := layout.Font{Family: family, Size: v.Size, Bold: v.Bold}
		for i, base := range Baselines(y, v.Size, len(v.Lines), v.VAlign) {
			if err := b.DrawText(x, base, v.Lines[i], font, v.HAlign); err != nil {
				return err
			}
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown primitive %T", it)
	}
	return nil
}

func toSheet(box layout.Box, x, y float64) (float64, float64) {
	return box.X + x*box.W, box.Y + y*box.H
}

// Baselines returns the baseline of each of n lines of a text block of size
// points anchored at y (mm) with vertical alignment va.
func Baselines(y, size float64, n int, va layout.VAlign) []float64 {
	em := size * layout.PtToMM
	lh := LineHeight * em
	block := float64(n) * lh

	top := y
	switch va {
	case layout.AlignMiddle:
		top = y + block/2
	case layout.AlignBottom:
		top = y + block
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = top - float64(i)*lh - ascent*em
	}
	return out
}
