package layout

import (
	"strings"
	"unicode/utf8"
)

// PtToMM converts typographic points to millimetres.
const PtToMM = 25.4 / 72

// FallbackCharWidth is the assumed advance of one character, in ems, when
// no font is available to measure with.
const FallbackCharWidth = 0.5

// Font selects a face for measurement.
type Font struct {
	Family string
	Size   float64 // points
	Bold   bool
}

// Measurer reports the rendered width of text in millimetres.
type Measurer interface {
	MeasureTextWidth(text string, font Font) (float64, error)
}

// EstimateWidth is the fallback width of text: FallbackCharWidth ems per rune.
func EstimateWidth(text string, font Font) float64 {
	return float64(utf8.RuneCountInString(text)) * FallbackCharWidth * font.Size * PtToMM
}

// measureWidth asks m for the width of text and falls back to EstimateWidth
// when m is nil or fails. A missing font degrades layout quality but never
// aborts a page.
func measureWidth(m Measurer, text string, font Font) float64 {
	if m != nil {
		if w, err := m.MeasureTextWidth(text, font); err == nil {
			return w
		}
	}
	return EstimateWidth(text, font)
}

// truncate shortens text with an ellipsis until it fits maxWidth.
func truncate(m Measurer, text string, font Font, maxWidth float64) string {
	if text == "" || measureWidth(m, text, font) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		s := strings.TrimRight(string(runes[:n]), " ") + "…"
		if measureWidth(m, s, font) <= maxWidth {
			return s
		}
	}
	return "…"
}
