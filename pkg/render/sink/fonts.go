package sink

import (
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/fonts"
	"github.com/matzehuels/boreholelog/pkg/layout"
)

// Fonts loads and caches canvas font families. Families are looked up on
// the system first and fall back to the embedded Go fonts. A Fonts may be
// shared by any number of surfaces and goroutines.
type Fonts struct {
	mu       sync.Mutex
	families map[string]*canvas.FontFamily
	fallback *canvas.FontFamily
}

// NewFonts returns an empty font cache.
func NewFonts() *Fonts {
	return &Fonts{families: map[string]*canvas.FontFamily{}}
}

var _ layout.Measurer = (*Fonts)(nil)

// MeasureTextWidth returns the advance of text in millimetres.
func (f *Fonts) MeasureTextWidth(text string, font layout.Font) (float64, error) {
	face, err := f.Face(font, canvas.Black)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

// Face returns a face for font in col.
func (f *Fonts) Face(font layout.Font, col color.Color) (*canvas.FontFace, error) {
	if font.Size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %v", font.Size)
	}
	family, err := f.family(font.Family)
	if err != nil {
		return nil, err
	}
	style := canvas.FontRegular
	if font.Bold {
		style = canvas.FontBold
	}
	return family.Face(font.Size, col, style, canvas.FontNormal), nil
}

func (f *Fonts) family(name string) (*canvas.FontFamily, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	f.mu.Lock()
	defer f.mu.Unlock()

	if fam, ok := f.families[key]; ok {
		return fam, nil
	}
	if key != "" && !strings.EqualFold(name, fonts.FontFamily) {
		fam := canvas.NewFontFamily(name)
		// Both cuts are needed; a family without bold falls back whole.
		if fam.LoadSystemFont(name, canvas.FontRegular) == nil && fam.LoadSystemFont(name, canvas.FontBold) == nil {
			f.families[key] = fam
			return fam, nil
		}
	}
	fb, err := f.fallbackFamily()
	if err != nil {
		return nil, err
	}
	f.families[key] = fb
	return fb, nil
}

// fallbackFamily must be called with f.mu held.
func (f *Fonts) fallbackFamily() (*canvas.FontFamily, error) {
	if f.fallback != nil {
		return f.fallback, nil
	}
	fam := canvas.NewFontFamily(fonts.FontFamily)
	if err := fam.LoadFont(fonts.Regular(), 0, canvas.FontRegular); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "load fallback font")
	}
	if err := fam.LoadFont(fonts.Bold(), 0, canvas.FontBold); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "load fallback bold font")
	}
	f.fallback = fam
	return fam, nil
}
