package strata

import (
	"math"
	"testing"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

func sample() *Borehole {
	return &Borehole{
		ID:          "BH01",
		GroundLevel: 62.5,
		Intervals: []Interval{
			{0, 0.5, "101", "TOPSOIL"},
			{0.5, 2.0, "102", "MADE GROUND"},
			{2.0, 4.5, "201", "CLAY"},
			{4.5, 7.0, "401", "SAND"},
			{7.0, 10.0, "504", "GRAVEL"},
			{10.0, 15.0, "801", "MUDSTONE"},
		},
	}
}

func TestMaxDepth(t *testing.T) {
	if got := sample().MaxDepth(); got != 15 {
		t.Errorf("MaxDepth() = %v, want 15", got)
	}
	var empty *Borehole
	if got := empty.MaxDepth(); got != 0 {
		t.Errorf("nil MaxDepth() = %v, want 0", got)
	}
}

func TestLevel(t *testing.T) {
	b := sample()
	if got := b.Level(2.0); got != 60.5 {
		t.Errorf("Level(2.0) = %v, want 60.5", got)
	}
}

func TestOverlaps(t *testing.T) {
	iv := Interval{Top: 7, Base: 10}
	tests := []struct {
		top, bottom float64
		want        bool
	}{
		{0, 10, true},
		{10, 20, false},
		{8, 9, true},
		{0, 7, false},
	}
	for _, tt := range tests {
		if got := iv.Overlaps(tt.top, tt.bottom); got != tt.want {
			t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.top, tt.bottom, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		intervals []Interval
		wantErr   bool
	}{
		{"valid", sample().Intervals, false},
		{"empty", nil, false},
		{"top equals base", []Interval{{1, 1, "", ""}}, true},
		{"top below base", []Interval{{2, 1, "", ""}}, true},
		{"negative", []Interval{{-1, 1, "", ""}}, true},
		{"nan", []Interval{{math.NaN(), 1, "", ""}}, true},
		{"overlap", []Interval{{0, 2, "", ""}, {1, 3, "", ""}}, true},
		{"gap", []Interval{{0, 1, "", ""}, {2, 3, "", ""}}, true},
		{"unsorted", []Interval{{2, 3, "", ""}, {0, 2, "", ""}}, true},
		{"within epsilon", []Interval{{0, 1, "", ""}, {1 + 1e-9, 2, "", ""}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Borehole{ID: "BH", Intervals: tt.intervals}
			err := b.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInterval) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInterval)
			}
		})
	}
}

func TestSortAndClean(t *testing.T) {
	b := &Borehole{Intervals: []Interval{
		{2, 3, " 201 ", "firm   brown\nCLAY"},
		{0, 2, "101", "TOPSOIL"},
	}}
	b.Sort()
	b.Clean()
	if b.Intervals[0].Top != 0 {
		t.Fatalf("Sort() first top = %v, want 0", b.Intervals[0].Top)
	}
	if got := b.Intervals[1].Code; got != "201" {
		t.Errorf("Clean() code = %q, want %q", got, "201")
	}
	if got := b.Intervals[1].Description; got != "firm brown CLAY" {
		t.Errorf("Clean() description = %q", got)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate() after Sort = %v", err)
	}
}
