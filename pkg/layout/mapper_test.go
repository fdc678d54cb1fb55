package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

func TestMapperEdges(t *testing.T) {
	for _, page := range []PageSpec{
		{Number: 1, Top: 0, Bottom: 10},
		{Number: 2, Top: 10, Bottom: 20},
		{Number: 7, Top: 60, Bottom: 70},
	} {
		m, err := NewMapper(page, 10, DefaultBottomMargin)
		if err != nil {
			t.Fatalf("NewMapper: %v", err)
		}
		if got := m.Y(page.Top); got != 1 {
			t.Errorf("page %d: Y(top) = %v, want 1", page.Number, got)
		}
		if got := m.Y(page.Top + 10); got != DefaultBottomMargin {
			t.Errorf("page %d: Y(top+span) = %v, want %v", page.Number, got, DefaultBottomMargin)
		}
		mid := m.Y(page.Top + 5)
		if want := (1 + DefaultBottomMargin) / 2; math.Abs(mid-want) > 1e-12 {
			t.Errorf("page %d: Y(mid) = %v, want %v", page.Number, mid, want)
		}
	}
}

func TestMapperLinear(t *testing.T) {
	m, _ := NewMapper(PageSpec{Number: 2, Top: 10, Bottom: 20}, 10, DefaultBottomMargin)
	prev := m.Y(10)
	step := m.Y(10) - m.Y(10.5)
	for d := 10.5; d <= 20; d += 0.5 {
		y := m.Y(d)
		if math.Abs((prev-y)-step) > 1e-12 {
			t.Errorf("Y not linear at %v", d)
		}
		if back := m.Depth(y); math.Abs(back-d) > 1e-9 {
			t.Errorf("Depth(Y(%v)) = %v", d, back)
		}
		prev = y
	}
	if y := m.Y(25); y >= DefaultBottomMargin {
		t.Errorf("Y(below page) = %v, want < bottom margin", y)
	}
}

func TestNewMapperErrors(t *testing.T) {
	page := PageSpec{Number: 1, Top: 0, Bottom: 10}
	for _, tt := range []struct {
		span, margin float64
	}{
		{0, 0.025},
		{-10, 0.025},
		{math.NaN(), 0.025},
		{10, -0.1},
		{10, 1},
	} {
		_, err := NewMapper(page, tt.span, tt.margin)
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("NewMapper(span=%v, margin=%v) error = %v, want INVALID_CONFIG", tt.span, tt.margin, err)
		}
	}
}
