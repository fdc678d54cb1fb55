package render

import (
	"math"
	"testing"

	"github.com/matzehuels/boreholelog/pkg/header"
	"github.com/matzehuels/boreholelog/pkg/layout"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

func scenarioPages(t *testing.T, b Backend) []*layout.Page {
	t.Helper()
	bh := &strata.Borehole{ID: "BH01", GroundLevel: 62.5, Intervals: []strata.Interval{
		{Top: 0, Base: 0.5, Code: "101", Description: "TOPSOIL"},
		{Top: 0.5, Base: 2.0, Code: "102", Description: "MADE GROUND"},
		{Top: 2.0, Base: 4.5, Code: "201", Description: "CLAY"},
		{Top: 4.5, Base: 7.0, Code: "401", Description: "SAND"},
		{Top: 7.0, Base: 10.0, Code: "504", Description: "GRAVEL"},
		{Top: 10.0, Base: 15.0, Code: "801", Description: "MUDSTONE"},
	}}
	e, err := layout.NewEngine(layout.DefaultConfig(), layout.WithMeasurer(b))
	if err != nil {
		t.Fatal(err)
	}
	pages, err := e.Layout(bh, header.Metadata{ProjectName: "SESRO"})
	if err != nil {
		t.Fatal(err)
	}
	return pages
}

func TestDrawMapsRegions(t *testing.T) {
	rec := &Recorder{}
	pages := scenarioPages(t, rec)
	p := pages[1]
	if err := Draw(rec, p, "Arial"); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	body := p.Region(layout.RegionBody).Box
	cfg := layout.DefaultConfig()
	m, _ := layout.NewMapper(p.Spec, 10, cfg.BottomMargin)

	// The MUDSTONE bar is the only filled rect with the default fill.
	var bars []Op
	for _, op := range rec.Filter("rect") {
		if op.Fill == layout.DefaultBarFill {
			bars = append(bars, op)
		}
	}
	if len(bars) != 1 {
		t.Fatalf("bars = %d, want 1", len(bars))
	}
	bar := bars[0]
	wantY := body.Y + m.Y(15)*body.H
	if math.Abs(bar.Y-wantY) > 1e-9 {
		t.Errorf("bar y = %v mm, want %v", bar.Y, wantY)
	}
	if math.Abs(bar.Y+bar.H-(body.Y+body.H)) > 1e-9 {
		t.Errorf("bar top = %v mm, want body top %v", bar.Y+bar.H, body.Y+body.H)
	}
	wantX := body.X + cfg.Columns.Left(layout.LegendColumn)*body.W
	if math.Abs(bar.X-wantX) > 1e-9 {
		t.Errorf("bar x = %v mm, want %v", bar.X, wantX)
	}
}

func TestDrawLayerOrder(t *testing.T) {
	rec := &Recorder{}
	pages := scenarioPages(t, rec)
	if err := Draw(rec, pages[0], ""); err != nil {
		t.Fatal(err)
	}
	// Bars sit on layer 2 and the frame on 10, so the first ops are bar fills.
	first := rec.Ops[0]
	if first.Kind != "rect" || first.Fill == "" {
		t.Errorf("first op = %+v, want a filled bar", first)
	}
	// Ruler labels are the topmost layer.
	last := rec.Ops[len(rec.Ops)-1]
	if last.Kind != "text" || last.Text != "10" {
		t.Errorf("last op = %+v, want ruler label 10", last)
	}
}

func TestDrawConvertsWidths(t *testing.T) {
	rec := &Recorder{}
	pages := scenarioPages(t, rec)
	if err := Draw(rec, pages[0], ""); err != nil {
		t.Fatal(err)
	}
	for _, op := range rec.Filter("line") {
		if op.Width > 1.2*layout.PtToMM+1e-12 {
			t.Errorf("line width %v mm exceeds the widest stroke", op.Width)
		}
	}
}

func TestBaselines(t *testing.T) {
	em := 10 * layout.PtToMM
	lh := LineHeight * em

	top := Baselines(100, 10, 2, layout.AlignTop)
	if math.Abs(top[0]-(100-ascent*em)) > 1e-12 || math.Abs(top[0]-top[1]-lh) > 1e-12 {
		t.Errorf("AlignTop baselines = %v", top)
	}
	bottom := Baselines(100, 10, 2, layout.AlignBottom)
	if math.Abs(bottom[0]-top[0]-2*lh) > 1e-12 {
		t.Errorf("AlignBottom baselines = %v", bottom)
	}
	mid := Baselines(100, 10, 1, layout.AlignMiddle)
	if math.Abs(mid[0]-(100+lh/2-ascent*em)) > 1e-12 {
		t.Errorf("AlignMiddle baseline = %v", mid)
	}
	if len(Baselines(0, 10, 0, layout.AlignMiddle)) != 0 {
		t.Error("no lines should yield no baselines")
	}
}

func TestRecorderMeasure(t *testing.T) {
	rec := &Recorder{}
	f := layout.Font{Size: 10}
	w, err := rec.MeasureTextWidth("abcd", f)
	if err != nil || w != layout.EstimateWidth("abcd", f) {
		t.Errorf("MeasureTextWidth = %v, %v", w, err)
	}
	rec.Measure = func(string, layout.Font) (float64, error) { return 3, nil }
	if w, _ := rec.MeasureTextWidth("abcd", f); w != 3 {
		t.Errorf("custom measure = %v, want 3", w)
	}
	rec.DrawLine(nil, 1, "#000000")
	rec.Reset()
	if len(rec.Ops) != 0 {
		t.Error("Reset should drop ops")
	}
}
