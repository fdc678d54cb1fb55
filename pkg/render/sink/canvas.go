package sink

import (
	"bytes"
	"image/color"
	"image/png"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/layout"
	"github.com/matzehuels/boreholelog/pkg/render"
)

// DefaultDPI is the PNG resolution used when none is given.
const DefaultDPI = 300

// Option configures the canvas writers.
type Option func(*renderer)

type renderer struct {
	fonts      *Fonts
	family     string
	dpi        float64
	background string
}

// WithFonts shares a font cache between calls.
func WithFonts(f *Fonts) Option { return func(r *renderer) { r.fonts = f } }

// WithFamily sets the font family used for all text.
func WithFamily(name string) Option { return func(r *renderer) { r.family = name } }

// WithDPI sets the PNG resolution.
func WithDPI(dpi float64) Option { return func(r *renderer) { r.dpi = dpi } }

// WithBackground fills the sheet before drawing. An empty colour leaves it
// transparent.
func WithBackground(hex string) Option { return func(r *renderer) { r.background = hex } }

func newRenderer(opts ...Option) renderer {
	r := renderer{dpi: DefaultDPI, background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}
	if r.fonts == nil {
		r.fonts = NewFonts()
	}
	if r.dpi <= 0 {
		r.dpi = DefaultDPI
	}
	return r
}

// =============================================================================
// Surface
// =============================================================================

// Surface is a render.Backend drawing onto one canvas page.
type Surface struct {
	fonts  *Fonts
	canvas *canvas.Canvas
	ctx    *canvas.Context
}

var _ render.Backend = (*Surface)(nil)

// NewSurface returns a blank sheet of w by h millimetres.
func NewSurface(fonts *Fonts, w, h float64) *Surface {
	c := canvas.New(w, h)
	return &Surface{fonts: fonts, canvas: c, ctx: canvas.NewContext(c)}
}

// Canvas returns the underlying canvas.
func (s *Surface) Canvas() *canvas.Canvas { return s.canvas }

func (s *Surface) MeasureTextWidth(text string, font layout.Font) (float64, error) {
	return s.fonts.MeasureTextWidth(text, font)
}

func (s *Surface) DrawRectangle(x, y, w, h float64, fill, edge string, edgeWidth float64) {
	s.ctx.SetFillColor(parseColor(fill))
	if edge == "" || edgeWidth <= 0 {
		s.ctx.SetStrokeColor(canvas.Transparent)
	} else {
		s.ctx.SetStrokeColor(parseColor(edge))
		s.ctx.SetStrokeWidth(edgeWidth)
	}
	s.ctx.DrawPath(x, y, canvas.Rectangle(w, h))
}

func (s *Surface) DrawLine(points []layout.Point, width float64, col string) {
	if len(points) < 2 {
		return
	}
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	for _, pt := range points[1:] {
		p.LineTo(pt.X-points[0].X, pt.Y-points[0].Y)
	}
	s.ctx.SetFillColor(canvas.Transparent)
	s.ctx.SetStrokeColor(parseColor(col))
	s.ctx.SetStrokeWidth(width)
	s.ctx.DrawPath(points[0].X, points[0].Y, p)
}

func (s *Surface) DrawText(x, y float64, text string, font layout.Font, align layout.HAlign) error {
	face, err := s.fonts.Face(font, canvas.Black)
	if err != nil {
		return err
	}
	s.ctx.DrawText(x, y, canvas.NewTextLine(face, text, textAlign(align)))
	return nil
}

func textAlign(a layout.HAlign) canvas.TextAlign {
	switch a {
	case layout.AlignCenter:
		return canvas.Center
	case layout.AlignRight:
		return canvas.Right
	default:
		return canvas.Left
	}
}

// parseColor turns a hex colour into a canvas colour. Empty is transparent.
func parseColor(hex string) color.Color {
	if hex == "" {
		return canvas.Transparent
	}
	return canvas.Hex(hex)
}

// =============================================================================
// Writers
// =============================================================================

// draw renders p onto a fresh surface.
func (r renderer) draw(p *layout.Page) (*Surface, error) {
	s := NewSurface(r.fonts, p.Width, p.Height)
	if r.background != "" {
		s.DrawRectangle(0, 0, p.Width, p.Height, r.background, "", 0)
	}
	if err := render.Draw(s, p, r.family); err != nil {
		return nil, err
	}
	return s, nil
}

// RenderPNG rasterizes one page.
func RenderPNG(p *layout.Page, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	s, err := r.draw(p)
	if err != nil {
		return nil, err
	}
	img := rasterizer.Draw(s.canvas, canvas.DPI(r.dpi), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RenderSVG writes one page as SVG.
func RenderSVG(p *layout.Page, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	s, err := r.draw(p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w, h := s.canvas.Size()
	out := svg.New(&buf, w, h, nil)
	s.canvas.RenderTo(out)
	if err := out.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "write svg")
	}
	return buf.Bytes(), nil
}

// RenderPDF writes all pages into one PDF document.
func RenderPDF(pages []*layout.Page, opts ...Option) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New(errors.ErrCodeNoData, "no pages to write")
	}
	r := newRenderer(opts...)
	var buf bytes.Buffer
	doc := pdf.New(&buf, pages[0].Width, pages[0].Height, nil)
	for i, p := range pages {
		if i > 0 {
			doc.NewPage(p.Width, p.Height)
		}
		s, err := r.draw(p)
		if err != nil {
			return nil, err
		}
		s.canvas.RenderTo(doc)
	}
	if err := doc.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "write pdf")
	}
	return buf.Bytes(), nil
}
