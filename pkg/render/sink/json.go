package sink

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/boreholelog/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	borehole string
	preset   string
	runID    string
}

// WithJSONBorehole records the borehole ID.
func WithJSONBorehole(id string) JSONOption { return func(r *jsonRenderer) { r.borehole = id } }

// WithJSONPreset records the style preset the pages were laid out with.
func WithJSONPreset(name string) JSONOption { return func(r *jsonRenderer) { r.preset = name } }

// WithJSONRunID records the pipeline run that produced the pages.
func WithJSONRunID(id string) JSONOption { return func(r *jsonRenderer) { r.runID = id } }

type jsonOutput struct {
	Borehole string     `json:"borehole,omitempty"`
	Preset   string     `json:"preset,omitempty"`
	RunID    string     `json:"run_id,omitempty"`
	Pages    []jsonPage `json:"pages"`
}

type jsonPage struct {
	Number   int           `json:"number"`
	Count    int           `json:"count"`
	Top      float64       `json:"top"`
	Bottom   float64       `json:"bottom"`
	Width    float64       `json:"width_mm"`
	Height   float64       `json:"height_mm"`
	Segments []jsonSegment `json:"segments"`
	Regions  []jsonRegion  `json:"regions"`
	Ticks    int           `json:"ticks"`
}

type jsonSegment struct {
	Source     int     `json:"source"`
	Code       string  `json:"code,omitempty"`
	Top        float64 `json:"top"`
	Bottom     float64 `json:"bottom"`
	TrueTop    bool    `json:"true_top"`
	TrueBottom bool    `json:"true_bottom"`
}

type jsonRegion struct {
	Name  string     `json:"name"`
	Box   layout.Box `json:"box"`
	Items []jsonItem `json:"items"`
}

type jsonItem struct {
	Type   string         `json:"type"`
	Z      int            `json:"z"`
	X      float64        `json:"x,omitempty"`
	Y      float64        `json:"y,omitempty"`
	W      float64        `json:"w,omitempty"`
	H      float64        `json:"h,omitempty"`
	Fill   string         `json:"fill,omitempty"`
	Color  string         `json:"color,omitempty"`
	Width  float64        `json:"width,omitempty"`
	Points []layout.Point `json:"points,omitempty"`
	Text   string         `json:"text,omitempty"`
	Size   float64        `json:"size,omitempty"`
	Bold   bool           `json:"bold,omitempty"`
	HAlign string         `json:"halign,omitempty"`
	VAlign string         `json:"valign,omitempty"`
}

// RenderJSON exports pages and their primitives as a pretty-printed JSON
// document. Coordinates stay region-normalized; each region carries its box
// on the sheet in millimetres.
func RenderJSON(pages []*layout.Page, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Borehole: r.borehole,
		Preset:   r.preset,
		RunID:    r.runID,
		Pages:    make([]jsonPage, 0, len(pages)),
	}
	for _, p := range pages {
		out.Pages = append(out.Pages, buildJSONPage(p))
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONPage(p *layout.Page) jsonPage {
	jp := jsonPage{
		Number:   p.Spec.Number,
		Count:    p.Count,
		Top:      p.Spec.Top,
		Bottom:   p.Spec.Bottom,
		Width:    p.Width,
		Height:   p.Height,
		Segments: make([]jsonSegment, 0, len(p.Segments)),
		Ticks:    len(p.Ticks),
	}
	for _, s := range p.Segments {
		jp.Segments = append(jp.Segments, jsonSegment{
			Source:     s.Source,
			Code:       s.Interval.Code,
			Top:        s.Top,
			Bottom:     s.Bottom,
			TrueTop:    s.TrueTop,
			TrueBottom: s.TrueBottom,
		})
	}
	for _, reg := range p.Regions {
		jr := jsonRegion{Name: reg.Name, Box: reg.Box, Items: make([]jsonItem, 0, len(reg.Items))}
		for _, it := range reg.Items {
			jr.Items = append(jr.Items, buildJSONItem(it))
		}
		jp.Regions = append(jp.Regions, jr)
	}
	return jp
}

func buildJSONItem(it layout.Primitive) jsonItem {
	switch v := it.(type) {
	case layout.Rect:
		return jsonItem{Type: "rect", Z: v.Z, X: v.X, Y: v.Y, W: v.W, H: v.H, Fill: v.Fill, Color: v.Edge, Width: v.EdgeWidth}
	case layout.Line:
		return jsonItem{Type: "line", Z: v.Z, Points: v.Points, Width: v.Width, Color: v.Color}
	case layout.Text:
		return jsonItem{
			Type: "text", Z: v.Z, X: v.X, Y: v.Y,
			Text: strings.Join(v.Lines, "\n"), Size: v.Size, Bold: v.Bold,
			HAlign: [...]string{"left", "center", "right"}[v.HAlign],
			VAlign: [...]string{"middle", "top", "bottom"}[v.VAlign],
		}
	}
	return jsonItem{Type: "unknown", Z: it.Layer()}
}
