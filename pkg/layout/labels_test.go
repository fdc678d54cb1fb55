package layout

import (
	"testing"

	"github.com/matzehuels/boreholelog/pkg/strata"
)

func TestLabelPolicy(t *testing.T) {
	surface := Segment{Interval: strata.Interval{Top: 0, Base: 1}, Top: 0, Bottom: 1, TrueTop: true, TrueBottom: true}
	cut := Segment{Interval: strata.Interval{Top: 7, Base: 12}, Top: 10, Bottom: 12, TrueTop: false, TrueBottom: true}
	deep := Segment{Interval: strata.Interval{Top: 10, Base: 15}, Top: 10, Bottom: 15, TrueTop: true, TrueBottom: true}

	tests := []struct {
		name     string
		policy   LabelPolicy
		seg      Segment
		top, bot bool
	}{
		{"surface skipped", LabelsSkipSurface, surface, false, true},
		{"surface shown", LabelsAll, surface, true, true},
		{"cut top", LabelsSkipSurface, cut, false, true},
		{"cut top all", LabelsAll, cut, false, true},
		{"deep top", LabelsSkipSurface, deep, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.ShowTop(tt.seg); got != tt.top {
				t.Errorf("ShowTop = %v, want %v", got, tt.top)
			}
			if got := tt.policy.ShowBase(tt.seg); got != tt.bot {
				t.Errorf("ShowBase = %v, want %v", got, tt.bot)
			}
		})
	}
}

func TestLabelPolicyValidate(t *testing.T) {
	for _, p := range []LabelPolicy{LabelsSkipSurface, LabelsAll} {
		if err := p.Validate(); err != nil {
			t.Errorf("%q.Validate() = %v", p, err)
		}
	}
	if err := LabelPolicy("never").Validate(); err == nil {
		t.Error("unknown policy should not validate")
	}
}

func TestLabelsScenario(t *testing.T) {
	page1 := PageSpec{Number: 1, Top: 0, Bottom: 10}
	page2 := PageSpec{Number: 2, Top: 10, Bottom: 20}

	l1 := Labels(Clip(scenario(), page1), page1, LabelsSkipSurface, 62.5)
	// Tops at 0.5, 2, 4.5, 7 and bases at 0.5, 2, 4.5, 7, 10.
	if len(l1) != 9 {
		t.Fatalf("page 1: %d labels, want 9: %+v", len(l1), l1)
	}
	last := l1[len(l1)-1]
	if last.Depth != 10 || last.Edge != BaseEdge || last.DepthText != "10.00" || last.LevelText != "52.50" {
		t.Errorf("page 1 last label = %+v", last)
	}

	l2 := Labels(Clip(scenario(), page2), page2, LabelsSkipSurface, 62.5)
	if len(l2) != 2 {
		t.Fatalf("page 2: %d labels, want 2: %+v", len(l2), l2)
	}
	if l2[0].DepthText != "10.00" || l2[0].Edge != TopEdge {
		t.Errorf("page 2 top label = %+v", l2[0])
	}
	if l2[1].DepthText != "15.00" || l2[1].Edge != BaseEdge || l2[1].LevelText != "47.50" {
		t.Errorf("page 2 base label = %+v", l2[1])
	}
}

func TestLabelsSliverOnPageEdge(t *testing.T) {
	intervals := []strata.Interval{
		{Top: 0, Base: 10.0000001},
		{Top: 10.0000001, Base: 15},
	}
	page2 := PageSpec{Number: 2, Top: 10, Bottom: 20}
	segs := Clip(intervals, page2)
	if len(segs) != 2 || !segs[0].Empty() {
		t.Fatalf("expected an empty sliver first, got %+v", segs)
	}
	for _, l := range Labels(segs, page2, LabelsSkipSurface, 0) {
		if l.Edge == BaseEdge && l.Depth < 10.001 {
			t.Errorf("sliver base label leaked onto page 2: %+v", l)
		}
	}
}

func TestFormatDepth(t *testing.T) {
	tests := map[float64]string{
		0:       "0.00",
		-0.001:  "0.00",
		62.5:    "62.50",
		-2.5:    "-2.50",
		10.0049: "10.00",
	}
	for in, want := range tests {
		if got := FormatDepth(in); got != want {
			t.Errorf("FormatDepth(%v) = %q, want %q", in, got, want)
		}
	}
}
