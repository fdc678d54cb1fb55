package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

func scenario() []strata.Interval {
	return []strata.Interval{
		{Top: 0, Base: 0.5, Code: "101", Description: "TOPSOIL"},
		{Top: 0.5, Base: 2.0, Code: "102", Description: "MADE GROUND"},
		{Top: 2.0, Base: 4.5, Code: "201", Description: "CLAY"},
		{Top: 4.5, Base: 7.0, Code: "401", Description: "SAND"},
		{Top: 7.0, Base: 10.0, Code: "504", Description: "GRAVEL"},
		{Top: 10.0, Base: 15.0, Code: "801", Description: "MUDSTONE"},
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		depth, span float64
		want        int
	}{
		{15, 10, 2},
		{10, 10, 1},
		{20, 10, 2},
		{20.0000001, 10, 2},
		{20.01, 10, 3},
		{0.3, 10, 1},
		{0, 10, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := PageCount(tt.depth, tt.span); got != tt.want {
			t.Errorf("PageCount(%v, %v) = %d, want %d", tt.depth, tt.span, got, tt.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	pages, err := Paginate(scenario(), 10)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2", len(pages))
	}
	for i, p := range pages {
		if p.Number != i+1 {
			t.Errorf("page %d: Number = %d", i, p.Number)
		}
		if p.Span() != 10 {
			t.Errorf("page %d: Span = %v", i, p.Span())
		}
	}
	if pages[1].Top != 10 || pages[1].Bottom != 20 {
		t.Errorf("page 2 = %+v", pages[1])
	}
}

func TestPaginateNoData(t *testing.T) {
	pages, err := Paginate(nil, 10)
	if !errors.Is(err, errors.ErrCodeNoData) {
		t.Errorf("Paginate(nil) error = %v, want NO_DATA", err)
	}
	if len(pages) != 0 {
		t.Errorf("Paginate(nil) = %d pages", len(pages))
	}
}

func TestPaginateTooManyPages(t *testing.T) {
	for _, span := range []float64{1e-9, 0.001} {
		pages, err := Paginate(scenario(), span)
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Paginate(span %v) error = %v, want INVALID_CONFIG", span, err)
		}
		if pages != nil {
			t.Errorf("Paginate(span %v) = %d pages", span, len(pages))
		}
	}
	if _, err := Paginate(scenario(), math.NaN()); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Paginate(NaN) error = %v", err)
	}
}

func TestPaginateAtPageLimit(t *testing.T) {
	intervals := []strata.Interval{{Top: 0, Base: MaxPages}}
	pages, err := Paginate(intervals, 1)
	if err != nil {
		t.Fatalf("Paginate(%d m, 1) error: %v", MaxPages, err)
	}
	if len(pages) != MaxPages {
		t.Errorf("pages = %d, want %d", len(pages), MaxPages)
	}
	intervals[0].Base = MaxPages + 0.5
	if _, err := Paginate(intervals, 1); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Paginate(%v m, 1) error = %v, want INVALID_CONFIG", intervals[0].Base, err)
	}
}

func TestClipBoundarySuppression(t *testing.T) {
	intervals := []strata.Interval{
		{Top: 0, Base: 7},
		{Top: 7, Base: 12},
		{Top: 12, Base: 15},
	}
	p1 := Clip(intervals, PageSpec{Number: 1, Top: 0, Bottom: 10})
	p2 := Clip(intervals, PageSpec{Number: 2, Top: 10, Bottom: 20})

	if len(p1) != 2 || len(p2) != 2 {
		t.Fatalf("segments = %d, %d; want 2, 2", len(p1), len(p2))
	}
	split1, split2 := p1[1], p2[0]
	if split1.Bottom != 10 || split1.TrueBottom {
		t.Errorf("page 1 split segment = %+v, want bottom 10 not true", split1)
	}
	if !split1.TrueTop {
		t.Error("page 1 split segment should keep its true top")
	}
	if split2.Top != 10 || split2.TrueTop {
		t.Errorf("page 2 split segment = %+v, want top 10 not true", split2)
	}
	if !split2.TrueBottom {
		t.Error("page 2 split segment should keep its true bottom")
	}

	for _, l := range Labels(p1, PageSpec{Number: 1, Top: 0, Bottom: 10}, LabelsSkipSurface, 0) {
		if l.Depth == 10 {
			t.Errorf("page 1 labels depth 10: %+v", l)
		}
	}
	for _, l := range Labels(p2, PageSpec{Number: 2, Top: 10, Bottom: 20}, LabelsSkipSurface, 0) {
		if l.Depth == 10 {
			t.Errorf("page 2 labels depth 10: %+v", l)
		}
	}
}

func TestClipCoverage(t *testing.T) {
	cases := [][]strata.Interval{
		scenario(),
		{{Top: 0, Base: 33.3}},
		{{Top: 0, Base: 9.99}, {Top: 9.99, Base: 10.01}, {Top: 10.01, Base: 29.5}},
		{{Top: 0, Base: 1.25}, {Top: 1.25, Base: 20}, {Top: 20, Base: 40}},
	}
	for ci, intervals := range cases {
		pages, err := Paginate(intervals, 10)
		if err != nil {
			t.Fatalf("case %d: %v", ci, err)
		}
		covered := make([]float64, len(intervals))
		for _, p := range pages {
			segs := Clip(intervals, p)
			for i := 1; i < len(segs); i++ {
				if segs[i].Top < segs[i-1].Bottom-strata.Epsilon {
					t.Errorf("case %d page %d: segments overlap", ci, p.Number)
				}
			}
			for _, s := range segs {
				covered[s.Source] += s.Thickness()
			}
		}
		for i, iv := range intervals {
			if math.Abs(covered[i]-iv.Thickness()) > 1e-9 {
				t.Errorf("case %d interval %d: covered %v, want %v", ci, i, covered[i], iv.Thickness())
			}
		}
	}
}

func TestEndOnPage(t *testing.T) {
	if end, ok := EndOnPage(15, PageSpec{Top: 10, Bottom: 20}); end != 15 || !ok {
		t.Errorf("EndOnPage(15, p2) = %v, %v", end, ok)
	}
	if end, ok := EndOnPage(15, PageSpec{Top: 0, Bottom: 10}); end != 10 || ok {
		t.Errorf("EndOnPage(15, p1) = %v, %v", end, ok)
	}
	if end, ok := EndOnPage(20, PageSpec{Top: 10, Bottom: 20}); end != 20 || ok {
		t.Errorf("EndOnPage(20, p2) = %v, %v", end, ok)
	}
}
