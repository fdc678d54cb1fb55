// Package textwrap breaks free text into lines for the description column.
//
// Wrapping is greedy and word based: words are separated by any run of
// whitespace, and a word is never split or hyphenated. Lengths are counted in
// runes so accented descriptions wrap the same way as plain ASCII ones.
package textwrap

import (
	"strings"
	"unicode/utf8"
)

// Wrap splits text into lines of at most maxChars runes.
//
// Text that already fits is returned unchanged as a single line. Otherwise
// words are appended to the current line while the line length plus a
// separating space plus the word stays within maxChars; a word that does not
// fit starts a new line. A word longer than maxChars occupies a line of its
// own. A non-positive maxChars disables wrapping.
//
// Wrap is idempotent: wrapping the space-joined result again yields the same
// lines.
func Wrap(text string, maxChars int) []string {
	if text == "" {
		return nil
	}
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return []string{text}
	}

	var (
		lines []string
		line  strings.Builder
		n     int
	)
	for _, word := range strings.Fields(text) {
		wl := utf8.RuneCountInString(word)
		if n > 0 && n+1+wl <= maxChars {
			line.WriteByte(' ')
			line.WriteString(word)
			n += 1 + wl
			continue
		}
		if n > 0 {
			lines = append(lines, line.String())
			line.Reset()
		}
		line.WriteString(word)
		n = wl
	}
	if n > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// Fit splits text into lines no wider than maxWidth as reported by measure.
// It applies the same greedy rule as Wrap but with measured widths, which is
// how the description column is filled when a font is available.
func Fit(text string, maxWidth float64, measure func(string) float64) []string {
	if text == "" {
		return nil
	}
	if maxWidth <= 0 || measure(text) <= maxWidth {
		return []string{text}
	}

	var lines []string
	cur := ""
	for _, word := range strings.Fields(text) {
		if cur == "" {
			cur = word
			continue
		}
		if candidate := cur + " " + word; measure(candidate) <= maxWidth {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// Join rejoins wrapped lines with single spaces.
func Join(lines []string) string {
	return strings.Join(lines, " ")
}
