// Package fonts provides the fallback font files used when a requested
// system font cannot be found.
//
// The Go fonts from golang.org/x/image are compiled into the binary, so a
// log always renders with real glyph metrics even on a machine with no fonts
// installed.
package fonts

import (
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the family name registered for the embedded fonts.
const FontFamily = "Go"

// Regular returns the TTF data of Go Regular.
func Regular() []byte {
	return goregular.TTF
}

// Bold returns the TTF data of Go Bold.
func Bold() []byte {
	return gobold.TTF
}
