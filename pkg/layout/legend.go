package layout

import (
	"math"
	"strings"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

// BarStyle is how one geology code is drawn in the legend column.
type BarStyle struct {
	Name  string `json:"name,omitempty"`
	Fill  string `json:"fill"`
	Hatch string `json:"hatch,omitempty"`
}

// Legend maps geology codes to bar styles.
type Legend map[string]BarStyle

// Style returns the style for code, or fallback filled with defaultFill.
func (l Legend) Style(code, defaultFill string) BarStyle {
	if s, ok := l[code]; ok {
		if s.Fill == "" {
			s.Fill = defaultFill
		}
		return s
	}
	return BarStyle{Fill: defaultFill}
}

// hatchSpacing is the distance between hatch lines for a single pattern
// character, in millimetres. Repeating a character halves it.
const hatchSpacing = 2.0

// ValidateHatch checks that pattern only uses the supported characters:
// / \ - | x +.
func ValidateHatch(pattern string) error {
	for _, r := range pattern {
		if !strings.ContainsRune(`/\-|x+`, r) {
			return errors.New(errors.ErrCodeInvalidInput, "unsupported hatch character %q", r)
		}
	}
	return nil
}

// hatch returns the hatch lines for a rectangle of w by h millimetres whose
// lower-left corner is the origin. Lines are clipped to the rectangle.
func hatch(pattern string, w, h float64) [][2]Point {
	if pattern == "" || w <= 0 || h <= 0 {
		return nil
	}
	counts := map[rune]int{}
	for _, r := range pattern {
		switch r {
		case 'x':
			counts['/']++
			counts['\\']++
		case '+':
			counts['-']++
			counts['|']++
		default:
			counts[r]++
		}
	}

	var segs [][2]Point
	for _, r := range []rune{'/', '\\', '-', '|'} {
		n := counts[r]
		if n == 0 {
			continue
		}
		step := hatchSpacing / float64(n)
		switch r {
		case '-':
			for y := step; y < h; y += step {
				segs = append(segs, [2]Point{{0, y}, {w, y}})
			}
		case '|':
			for x := step; x < w; x += step {
				segs = append(segs, [2]Point{{x, 0}, {x, h}})
			}
		case '/':
			// y = x + c
			d := step * math.Sqrt2
			for c := -w + d; c < h; c += d {
				x0, x1 := math.Max(0, -c), math.Min(w, h-c)
				if x1 > x0 {
					segs = append(segs, [2]Point{{x0, x0 + c}, {x1, x1 + c}})
				}
			}
		case '\\':
			// y = -x + c
			d := step * math.Sqrt2
			for c := d; c < w+h; c += d {
				x0, x1 := math.Max(0, c-h), math.Min(w, c)
				if x1 > x0 {
					segs = append(segs, [2]Point{{x0, c - x0}, {x1, c - x1}})
				}
			}
		}
	}
	return segs
}
