package layout

import (
	"math"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/header"
	"github.com/matzehuels/boreholelog/pkg/strata"
	"github.com/matzehuels/boreholelog/pkg/textwrap"
)

// Region names.
const (
	RegionHeader = "header"
	RegionBody   = "body"
)

// Line widths in points.
const (
	lineWidth      = 1.0
	rulerWidth     = 1.2
	majorTickWidth = 1.1
	minorTickWidth = 0.7
)

// Engine turns a borehole into pages of primitives under one style.
// An Engine holds no per-page state and may be shared.
type Engine struct {
	cfg     Config
	legend  Legend
	measure Measurer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLegend sets the code-to-style mapping used for bars.
func WithLegend(l Legend) Option {
	return func(e *Engine) { e.legend = l }
}

// WithMeasurer sets the text measurer used for wrapping and truncation.
func WithMeasurer(m Measurer) Option {
	return func(e *Engine) { e.measure = m }
}

// NewEngine validates cfg and returns an engine for it.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine's style.
func (e *Engine) Config() Config { return e.cfg }

// =============================================================================
// PageContext
// =============================================================================

// PageContext is everything BuildPage needs for one page. It is a value
// created by the page loop for each page and never shared between pages.
type PageContext struct {
	Spec     PageSpec
	Count    int
	Mapper   Mapper
	Borehole *strata.Borehole
	Header   header.Metadata
	MaxDepth float64
}

// Plan paginates b. An empty borehole returns ErrCodeNoData.
func (e *Engine) Plan(b *strata.Borehole) ([]PageSpec, error) {
	if b.Empty() {
		id := ""
		if b != nil {
			id = b.ID
		}
		return nil, errors.New(errors.ErrCodeNoData, "borehole %q has no intervals", id)
	}
	span := e.cfg.SpanFor(b.MaxDepth())
	if err := e.cfg.Ruler.CheckSpan(span); err != nil {
		return nil, err
	}
	return Paginate(b.Intervals, span)
}

// NewPageContext binds b and meta to page spec of count pages.
func (e *Engine) NewPageContext(b *strata.Borehole, meta header.Metadata, spec PageSpec, count int) (PageContext, error) {
	m, err := NewMapper(spec, spec.Span(), e.cfg.BottomMargin)
	if err != nil {
		return PageContext{}, err
	}
	return PageContext{
		Spec:     spec,
		Count:    count,
		Mapper:   m,
		Borehole: b,
		Header:   meta.Resolve(b.ID, b.GroundLevel),
		MaxDepth: b.MaxDepth(),
	}, nil
}

// Layout builds every page of b. It stops at the first failing page; use
// Plan, NewPageContext and BuildPage directly to keep going past failures.
func (e *Engine) Layout(b *strata.Borehole, meta header.Metadata) ([]*Page, error) {
	specs, err := e.Plan(b)
	if err != nil {
		return nil, err
	}
	pages := make([]*Page, 0, len(specs))
	for _, spec := range specs {
		pc, err := e.NewPageContext(b, meta, spec, len(specs))
		if err != nil {
			return nil, &errors.PageError{Page: spec.Number, Err: err}
		}
		p, err := e.BuildPage(pc)
		if err != nil {
			return nil, &errors.PageError{Page: spec.Number, Err: err}
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// =============================================================================
// Page building
// =============================================================================

// BuildPage lays out one page: header block (if enabled) and body.
func (e *Engine) BuildPage(pc PageContext) (*Page, error) {
	if pc.Borehole == nil {
		return nil, errors.New(errors.ErrCodeInternal, "page context has no borehole")
	}
	g := e.cfg.Page
	p := &Page{
		Spec:   pc.Spec,
		Count:  pc.Count,
		Width:  g.Width,
		Height: g.Height,
	}
	if e.cfg.Header {
		p.Regions = append(p.Regions, e.buildHeader(pc))
	}
	body, segs, ticks := e.buildBody(pc)
	p.Regions = append(p.Regions, body)
	p.Segments = segs
	p.Ticks = ticks
	return p, nil
}

func (e *Engine) buildBody(pc PageContext) (*Region, []Segment, []Tick) {
	cfg := e.cfg
	cols := cfg.Columns
	m := pc.Mapper
	body := &Region{Name: RegionBody, Box: cfg.Page.BodyBox(cfg.Header)}

	// Frame, column separators and top rule.
	body.Add(Rect{X: 0, Y: 0, W: 1, H: 1, Edge: cfg.Colors.Line, EdgeWidth: lineWidth, Z: ZFrame})
	for _, x := range cols.Separators() {
		body.Add(vline(x, 0, 1, lineWidth, ZGrid))
	}
	body.Add(hline(0, 1, 1, lineWidth, ZGrid))

	segs := Clip(pc.Borehole.Intervals, pc.Spec)
	end, endOnPage := EndOnPage(pc.MaxDepth, pc.Spec)
	endY := m.Y(end)

	legendL, legendW := cols.Left(LegendColumn), cols.Width(LegendColumn)
	descL, descW := cols.Left(Description), cols.Width(Description)
	ruleL, ruleR := legendL, cols.Right(Description)

	drawn := 0
	for _, seg := range segs {
		if seg.Empty() {
			continue
		}
		yTop := m.Y(seg.Top)
		yBase := math.Max(m.Y(seg.Bottom), endY)

		if drawn > 0 {
			body.Add(hline(ruleL, ruleR, yTop, lineWidth, ZDivider))
		}
		drawn++

		if yTop <= yBase {
			continue
		}
		style := e.legend.Style(seg.Interval.Code, cfg.Colors.BarFill)
		body.Add(Rect{
			X: legendL, Y: yBase, W: legendW, H: yTop - yBase,
			Fill: style.Fill, Edge: cfg.Colors.Line, EdgeWidth: lineWidth, Z: ZBar,
		})
		body.Add(e.hatchLines(style.Hatch, body.Box, legendL, yBase, legendW, yTop-yBase)...)

		yMid := (yTop + yBase) / 2
		barMM := (yTop - yBase) * body.Box.H
		if code := seg.Interval.Code; code != "" && barMM >= cfg.Fonts.Code*PtToMM {
			body.Add(Text{
				X: legendL + legendW/2, Y: yMid, Lines: []string{code},
				Size: cfg.Fonts.Code, Bold: true, HAlign: AlignCenter, VAlign: AlignMiddle, Z: ZText,
			})
		}
		if desc := seg.Interval.Description; desc != "" {
			size := cfg.DescriptionSize(seg.Thickness())
			body.Add(Text{
				X: descL + descW*0.02, Y: yMid,
				Lines:  e.wrapDescription(desc, size, descW*0.96*body.Box.W),
				Size:   size,
				HAlign: AlignLeft, VAlign: AlignMiddle, Z: ZText,
			})
		}
	}

	for _, lbl := range Labels(segs, pc.Spec, cfg.Labels, pc.Borehole.GroundLevel) {
		va := AlignTop
		if lbl.Edge == TopEdge {
			va = AlignBottom
		}
		y := m.Y(lbl.Depth)
		if cols.Visible(Depth) {
			body.Add(Text{X: cols.Center(Depth), Y: y, Lines: []string{lbl.DepthText}, Size: cfg.Fonts.Body, HAlign: AlignCenter, VAlign: va, Z: ZText})
		}
		if cols.Visible(Level) {
			body.Add(Text{X: cols.Center(Level), Y: y, Lines: []string{lbl.LevelText}, Size: cfg.Fonts.Body, HAlign: AlignCenter, VAlign: va, Z: ZText})
		}
	}

	closing := m.Bottom()
	if endOnPage {
		closing = endY
	}
	body.Add(hline(ruleL, ruleR, closing, lineWidth, ZClosing))

	var ticks []Tick
	if cols.Visible(Ruler) {
		ticks = Ticks(pc.Spec, m, cfg.Ruler)
		x, w := cols.Left(Ruler), cols.Width(Ruler)
		body.Add(vline(x, 0, 1, rulerWidth, ZRuler))
		for _, t := range ticks {
			if !t.Major {
				body.Add(hline(x, x+w*cfg.Ruler.MinorLength, t.Y, minorTickWidth, ZRuler))
				continue
			}
			body.Add(hline(x, x+w*cfg.Ruler.MajorLength, t.Y, majorTickWidth, ZRulerTick))
			body.Add(Text{
				X: x + w*cfg.Ruler.MajorLength + w*0.1, Y: t.Y, Lines: []string{t.Label},
				Size: cfg.Fonts.Ruler, HAlign: AlignLeft, VAlign: AlignMiddle, Z: ZRulerText,
			})
		}
	}
	return body, segs, ticks
}

// wrapDescription wraps desc to the configured character budget, or to the
// measured column width when no budget is set.
func (e *Engine) wrapDescription(desc string, size, widthMM float64) []string {
	if n := e.cfg.DescriptionChars; n > 0 {
		return textwrap.Wrap(desc, n)
	}
	font := Font{Family: e.cfg.Fonts.Family, Size: size}
	return textwrap.Fit(desc, widthMM, func(s string) float64 {
		return measureWidth(e.measure, s, font)
	})
}

// hatchLines converts hatch segments computed in millimetres back to region
// coordinates for a bar at (x, y, w, h).
func (e *Engine) hatchLines(pattern string, box Box, x, y, w, h float64) []Primitive {
	segs := hatch(pattern, w*box.W, h*box.H)
	out := make([]Primitive, 0, len(segs))
	for _, s := range segs {
		out = append(out, Line{
			Points: []Point{
				{x + s[0].X/box.W, y + s[0].Y/box.H},
				{x + s[1].X/box.W, y + s[1].Y/box.H},
			},
			Width: 0.5,
			Color: e.cfg.Colors.Line,
			Z:     ZBar,
		})
	}
	return out
}
