package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

func TestTicks(t *testing.T) {
	page := PageSpec{Number: 2, Top: 10, Bottom: 20}
	m, _ := NewMapper(page, 10, DefaultBottomMargin)
	ticks := Ticks(page, m, DefaultRuler())

	var majors, minors []Tick
	for _, tk := range ticks {
		if tk.Major {
			majors = append(majors, tk)
		} else {
			minors = append(minors, tk)
		}
	}
	if len(majors) != 11 {
		t.Fatalf("majors = %d, want 11", len(majors))
	}
	if len(minors) != 90 {
		t.Fatalf("minors = %d, want 90", len(minors))
	}
	if majors[0].Label != "10" || majors[10].Label != "20" {
		t.Errorf("major labels = %q .. %q, want 10 .. 20", majors[0].Label, majors[10].Label)
	}
	if majors[0].Y != 1 || majors[10].Y != DefaultBottomMargin {
		t.Errorf("major Y range = %v .. %v", majors[0].Y, majors[10].Y)
	}
	for _, tk := range minors {
		if tk.Label != "" {
			t.Errorf("minor tick at %v has label %q", tk.Depth, tk.Label)
		}
		if math.Abs(tk.Y-m.Y(tk.Depth)) > 1e-12 {
			t.Errorf("minor tick at %v not aligned with mapper", tk.Depth)
		}
	}
	if d := minors[0].Depth; math.Abs(d-10.1) > 1e-9 {
		t.Errorf("first minor = %v, want 10.1", d)
	}
}

func TestTicksHalfStep(t *testing.T) {
	page := PageSpec{Number: 1, Top: 0, Bottom: 5}
	m, _ := NewMapper(page, 5, 0)
	cfg := RulerConfig{MajorStep: 2.5, MinorDivisions: 5, MajorLength: 0.5, MinorLength: 0.25}
	ticks := Ticks(page, m, cfg)

	want := []string{"0", "2.5", "5"}
	for i, w := range want {
		if !ticks[i].Major || ticks[i].Label != w {
			t.Errorf("tick %d = %+v, want major %q", i, ticks[i], w)
		}
	}
	if len(ticks) != 3+2*4 {
		t.Errorf("len(ticks) = %d, want 11", len(ticks))
	}
}

func TestRulerValidate(t *testing.T) {
	if err := DefaultRuler().Validate(); err != nil {
		t.Errorf("DefaultRuler().Validate() = %v", err)
	}
	bad := []RulerConfig{
		{MajorStep: 0, MinorDivisions: 10},
		{MajorStep: 1, MinorDivisions: 0},
		{MajorStep: 1, MinorDivisions: 10, MajorLength: 2},
		{MajorStep: 1, MinorDivisions: MaxMinorDivisions + 1},
	}
	for _, r := range bad {
		if err := r.Validate(); err == nil {
			t.Errorf("%+v should not validate", r)
		}
	}
}

func TestRulerCheckSpan(t *testing.T) {
	r := RulerConfig{MajorStep: 2.5, MinorDivisions: 5}
	tests := []struct {
		span float64
		ok   bool
	}{
		{2.5, true},
		{10, true},
		{0.3 * 25, true},
		{3, false},
		{1, false},
		{2.5 * (MaxRulerSteps + 1), false},
	}
	for _, tt := range tests {
		err := r.CheckSpan(tt.span)
		if tt.ok && err != nil {
			t.Errorf("CheckSpan(%v) = %v", tt.span, err)
		}
		if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("CheckSpan(%v) = %v, want INVALID_CONFIG", tt.span, err)
		}
	}
}
