package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/boreholelog/pkg/header"
	"github.com/matzehuels/boreholelog/pkg/layout"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

func testPages(t *testing.T, fonts *Fonts) []*layout.Page {
	t.Helper()
	bh := &strata.Borehole{ID: "BH01", GroundLevel: 62.5, Intervals: []strata.Interval{
		{Top: 0, Base: 7, Code: "201", Description: "Firm brown sandy CLAY"},
		{Top: 7, Base: 15, Code: "801", Description: "Weak grey MUDSTONE"},
	}}
	opts := []layout.Option{}
	if fonts != nil {
		opts = append(opts, layout.WithMeasurer(fonts))
	}
	e, err := layout.NewEngine(layout.DefaultConfig(), opts...)
	if err != nil {
		t.Fatal(err)
	}
	pages, err := e.Layout(bh, header.Metadata{ProjectName: "Test"})
	if err != nil {
		t.Fatal(err)
	}
	return pages
}

func TestFontsFallback(t *testing.T) {
	f := NewFonts()
	regular, err := f.MeasureTextWidth("MUDSTONE", layout.Font{Family: "no-such-font-family", Size: 10})
	if err != nil {
		t.Fatalf("MeasureTextWidth: %v", err)
	}
	if regular <= 0 {
		t.Fatalf("width = %v, want > 0", regular)
	}
	bold, _ := f.MeasureTextWidth("MUDSTONE", layout.Font{Family: "Go", Size: 10, Bold: true})
	if bold < regular {
		t.Errorf("bold width %v < regular %v", bold, regular)
	}
	double, _ := f.MeasureTextWidth("MUDSTONE", layout.Font{Family: "Go", Size: 20})
	if math.Abs(double-2*regular) > 0.01*regular {
		t.Errorf("width at 20pt = %v, want about %v", double, 2*regular)
	}
	if _, err := f.MeasureTextWidth("x", layout.Font{Size: 0}); err == nil {
		t.Error("zero size should fail")
	}
}

func TestRenderSVG(t *testing.T) {
	fonts := NewFonts()
	pages := testPages(t, fonts)
	data, err := RenderSVG(pages[0], WithFonts(fonts), WithFamily("Go"))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("output is not SVG: %.80s", data)
	}
}

func TestRenderPNG(t *testing.T) {
	fonts := NewFonts()
	pages := testPages(t, fonts)
	data, err := RenderPNG(pages[1], WithFonts(fonts), WithDPI(25.4))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// One pixel per millimetre.
	if math.Abs(float64(cfg.Width)-pages[1].Width) > 1 || math.Abs(float64(cfg.Height)-pages[1].Height) > 1 {
		t.Errorf("png size = %dx%d, want about %vx%v", cfg.Width, cfg.Height, pages[1].Width, pages[1].Height)
	}
}

func TestRenderPDF(t *testing.T) {
	pages := testPages(t, nil)
	data, err := RenderPDF(pages)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output is not PDF: %.16q", data)
	}
	if _, err := RenderPDF(nil); err == nil {
		t.Error("RenderPDF(nil) should fail")
	}
}

func TestRenderJSON(t *testing.T) {
	pages := testPages(t, nil)
	data, err := RenderJSON(pages, WithJSONBorehole("BH01"), WithJSONPreset("openground"))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Borehole != "BH01" || out.Preset != "openground" || len(out.Pages) != 2 {
		t.Fatalf("output = %+v", out)
	}
	p2 := out.Pages[1]
	if p2.Number != 2 || p2.Top != 10 || len(p2.Segments) != 1 {
		t.Errorf("page 2 = number %d top %v segments %d", p2.Number, p2.Top, len(p2.Segments))
	}
	if seg := p2.Segments[0]; seg.TrueTop || !seg.TrueBottom || seg.Code != "801" {
		t.Errorf("page 2 segment = %+v", seg)
	}
	var sawText bool
	for _, r := range p2.Regions {
		for _, it := range r.Items {
			if it.Type == "text" && strings.Contains(it.Text, "MUDSTONE") {
				sawText = true
				if it.HAlign != "left" || it.VAlign != "middle" {
					t.Errorf("description alignment = %s/%s", it.HAlign, it.VAlign)
				}
			}
		}
	}
	if !sawText {
		t.Error("description text missing from JSON")
	}
}
