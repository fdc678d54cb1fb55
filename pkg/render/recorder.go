package render

import "github.com/matzehuels/boreholelog/pkg/layout"

// Op is one recorded backend call.
type Op struct {
	Kind   string // "rect", "line" or "text"
	X, Y   float64
	W, H   float64
	Points []layout.Point
	Fill   string
	Color  string // edge colour for rects
	Width  float64
	Text   string
	Font   layout.Font
	Align  layout.HAlign
}

// Recorder is a Backend that keeps every call. Text is measured with
// layout.EstimateWidth unless Measure is set.
type Recorder struct {
	Ops     []Op
	Measure func(text string, font layout.Font) (float64, error)
}

var _ Backend = (*Recorder)(nil)

func (r *Recorder) MeasureTextWidth(text string, font layout.Font) (float64, error) {
	if r.Measure != nil {
		return r.Measure(text, font)
	}
	return layout.EstimateWidth(text, font), nil
}

func (r *Recorder) DrawRectangle(x, y, w, h float64, fill, edge string, edgeWidth float64) {
	r.Ops = append(r.Ops, Op{Kind: "rect", X: x, Y: y, W: w, H: h, Fill: fill, Color: edge, Width: edgeWidth})
}

func (r *Recorder) DrawLine(points []layout.Point, width float64, color string) {
	r.Ops = append(r.Ops, Op{Kind: "line", Points: points, Width: width, Color: color})
}

func (r *Recorder) DrawText(x, y float64, text string, font layout.Font, align layout.HAlign) error {
	r.Ops = append(r.Ops, Op{Kind: "text", X: x, Y: y, Text: text, Font: font, Align: align})
	return nil
}

// Filter returns the recorded ops of kind.
func (r *Recorder) Filter(kind string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }
