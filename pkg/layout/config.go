package layout

import (
	"bytes"
	"io"
	"math"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultPageSpan is the depth shown on one page, in metres.
	DefaultPageSpan = 10.0

	// DefaultPreset is the style used when none is named.
	DefaultPreset = "openground"

	// DefaultBarFill is the lithology fill for codes without a legend entry.
	DefaultBarFill = "#b0c4de"

	mmPerInch = 25.4
)

// =============================================================================
// Config
// =============================================================================

// Config is a complete log style. Every former script variant is a preset
// of this one struct; see Presets.
type Config struct {
	Name string `toml:"name" json:"name"`

	// PageSpan is the depth per page. Zero fits the whole borehole on a
	// single page, rounded up to a whole ruler step.
	PageSpan float64 `toml:"page_span" json:"page_span"`

	// BottomMargin is the normalized body height reserved below the page
	// span for the closing line.
	BottomMargin float64 `toml:"bottom_margin" json:"bottom_margin"`

	Labels LabelPolicy `toml:"labels" json:"labels"`

	// DescriptionChars is the wrap budget for descriptions. Zero derives it
	// from the description column width and font size.
	DescriptionChars int `toml:"description_chars" json:"description_chars"`

	// Header toggles the metadata block above the body.
	Header bool `toml:"header" json:"header"`

	Columns Columns      `toml:"columns" json:"columns"`
	Fonts   Fonts        `toml:"fonts" json:"fonts"`
	Page    PageGeometry `toml:"page" json:"page"`
	Ruler   RulerConfig  `toml:"ruler" json:"ruler"`
	Colors  Colors       `toml:"colors" json:"colors"`
}

// Fonts holds font family and point sizes.
type Fonts struct {
	Family      string  `toml:"family" json:"family"`
	Body        float64 `toml:"body" json:"body"`
	Code        float64 `toml:"code" json:"code"`
	Ruler       float64 `toml:"ruler" json:"ruler"`
	Header      float64 `toml:"header" json:"header"`
	HeaderSmall float64 `toml:"header_small" json:"header_small"`

	// ScaleByThickness sizes description text by visible layer thickness:
	// 9pt above 2m, 8pt above 1m, else 7pt.
	ScaleByThickness bool `toml:"scale_by_thickness" json:"scale_by_thickness"`
}

// PageGeometry is the physical sheet, in millimetres.
type PageGeometry struct {
	Width        float64 `toml:"width" json:"width"`
	Height       float64 `toml:"height" json:"height"`
	MarginLeft   float64 `toml:"margin_left" json:"margin_left"`
	MarginRight  float64 `toml:"margin_right" json:"margin_right"`
	MarginTop    float64 `toml:"margin_top" json:"margin_top"`
	MarginBottom float64 `toml:"margin_bottom" json:"margin_bottom"`
	HeaderHeight float64 `toml:"header_height" json:"header_height"`
	DPI          float64 `toml:"dpi" json:"dpi"`
}

// Colors holds the drawing colours as hex strings.
type Colors struct {
	BarFill string `toml:"bar_fill" json:"bar_fill"`
	Line    string `toml:"line" json:"line"`
}

// A4 returns an A4 portrait sheet with half-inch side margins and a two
// inch header.
func A4() PageGeometry {
	return PageGeometry{
		Width:        210,
		Height:       297,
		MarginLeft:   0.5 * mmPerInch,
		MarginRight:  0.5 * mmPerInch,
		MarginTop:    0.3 * mmPerInch,
		MarginBottom: 0.3 * mmPerInch,
		HeaderHeight: 2.0 * mmPerInch,
		DPI:          300,
	}
}

// HeaderBox returns the header region on the sheet.
func (g PageGeometry) HeaderBox() Box {
	return Box{
		X: g.MarginLeft,
		Y: g.Height - g.MarginTop - g.HeaderHeight,
		W: g.Width - g.MarginLeft - g.MarginRight,
		H: g.HeaderHeight,
	}
}

// BodyBox returns the log body region on the sheet.
func (g PageGeometry) BodyBox(withHeader bool) Box {
	h := g.Height - g.MarginTop - g.MarginBottom
	if withHeader {
		h -= g.HeaderHeight
	}
	return Box{
		X: g.MarginLeft,
		Y: g.MarginBottom,
		W: g.Width - g.MarginLeft - g.MarginRight,
		H: h,
	}
}

// =============================================================================
// Presets
// =============================================================================

var presets = map[string]func() Config{
	"openground": openground,
	"compact":    compact,
}

// openground is the multi-page nine-column log with a metadata header.
func openground() Config {
	return Config{
		Name:         "openground",
		PageSpan:     DefaultPageSpan,
		BottomMargin: DefaultBottomMargin,
		Labels:       DefaultLabelPolicy,
		Header:       true,
		Columns:      DefaultColumns(),
		Fonts: Fonts{
			Family:      "Arial",
			Body:        8,
			Code:        8,
			Ruler:       8,
			Header:      8,
			HeaderSmall: 7,
		},
		Page:   A4(),
		Ruler:  DefaultRuler(),
		Colors: Colors{BarFill: DefaultBarFill, Line: "#000000"},
	}
}

// compact is the single-page depth/lithology/description log.
func compact() Config {
	c := openground()
	c.Name = "compact"
	c.PageSpan = 0
	c.Header = false
	c.DescriptionChars = 40
	c.Columns = NewColumns(map[Role]float64{
		Depth:        0.15,
		LegendColumn: 0.25,
		Description:  0.55,
		Ruler:        0.05,
	}).Normalize()
	c.Fonts.ScaleByThickness = true
	c.Ruler.MinorDivisions = 2
	c.Colors.BarFill = "#d3d3d3"
	return c
}

// Preset returns the named style.
func Preset(name string) (Config, error) {
	if name == "" {
		name = DefaultPreset
	}
	fn, ok := presets[name]
	if !ok {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown preset %q", name)
	}
	return fn(), nil
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultConfig returns the default preset.
func DefaultConfig() Config {
	return openground()
}

// =============================================================================
// Loading
// =============================================================================

// LoadConfig reads a TOML style file. A top-level `preset` key picks the
// base style (default "openground"); every other key overrides it.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "style file %s", path)
		}
		return Config{}, err
	}
	return DecodeConfig(bytes.NewReader(data))
}

// DecodeConfig reads a TOML style from r. See LoadConfig.
func DecodeConfig(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}

	var head struct {
		Preset string `toml:"preset"`
	}
	if _, err := toml.Decode(string(data), &head); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse style")
	}
	cfg, err := Preset(head.Preset)
	if err != nil {
		return Config{}, err
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse style")
	}
	for _, key := range md.Undecoded() {
		if key.String() != "preset" {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown style key %q", key.String())
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// EncodeTOML writes the style as TOML, suitable for LoadConfig.
func (c Config) EncodeTOML(w io.Writer) error {
	view := struct {
		Name             string             `toml:"name"`
		PageSpan         float64            `toml:"page_span"`
		BottomMargin     float64            `toml:"bottom_margin"`
		Labels           string             `toml:"labels"`
		DescriptionChars int                `toml:"description_chars"`
		Header           bool               `toml:"header"`
		Columns          map[string]float64 `toml:"columns"`
		Fonts            Fonts              `toml:"fonts"`
		Page             PageGeometry       `toml:"page"`
		Ruler            RulerConfig        `toml:"ruler"`
		Colors           Colors             `toml:"colors"`
	}{
		Name:             c.Name,
		PageSpan:         c.PageSpan,
		BottomMargin:     c.BottomMargin,
		Labels:           string(c.Labels),
		DescriptionChars: c.DescriptionChars,
		Header:           c.Header,
		Columns:          c.Columns.Map(),
		Fonts:            c.Fonts,
		Page:             c.Page,
		Ruler:            c.Ruler,
		Colors:           c.Colors,
	}
	return toml.NewEncoder(w).Encode(view)
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the whole style.
func (c Config) Validate() error {
	if c.PageSpan < 0 || math.IsNaN(c.PageSpan) || math.IsInf(c.PageSpan, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "page_span must be non-negative, got %v", c.PageSpan)
	}
	if c.BottomMargin < 0 || c.BottomMargin >= 0.5 {
		return errors.New(errors.ErrCodeInvalidConfig, "bottom_margin must be in [0, 0.5), got %v", c.BottomMargin)
	}
	if err := c.Labels.Validate(); err != nil {
		return err
	}
	if c.DescriptionChars < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "description_chars must be non-negative")
	}
	if err := c.Columns.Validate(); err != nil {
		return err
	}
	if err := c.Ruler.Validate(); err != nil {
		return err
	}
	if c.PageSpan > 0 {
		if err := c.Ruler.CheckSpan(c.PageSpan); err != nil {
			return err
		}
	}
	f := c.Fonts
	if f.Body <= 0 || f.Code <= 0 || f.Ruler <= 0 || f.Header <= 0 || f.HeaderSmall <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font sizes must be positive")
	}
	g := c.Page
	if g.Width <= 0 || g.Height <= 0 || g.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "page width, height and dpi must be positive")
	}
	if g.DPI > MaxDPI {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be at most %d, got %v", MaxDPI, g.DPI)
	}
	if g.MarginLeft < 0 || g.MarginRight < 0 || g.MarginTop < 0 || g.MarginBottom < 0 || g.HeaderHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "page margins must be non-negative")
	}
	if b := g.BodyBox(c.Header); b.W <= 0 || b.H <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "page margins leave no room for the log body")
	}
	return nil
}

// MaxDPI bounds the PNG resolution a style or request may ask for.
const MaxDPI = 1200

// SpanFor returns the page span to use for a borehole reaching maxDepth.
func (c Config) SpanFor(maxDepth float64) float64 {
	if c.PageSpan > 0 {
		return c.PageSpan
	}
	step := c.Ruler.MajorStep
	n := math.Ceil(maxDepth/step - 1e-9)
	if n < 1 {
		n = 1
	}
	return n * step
}

// DescriptionSize returns the description font size for a segment of the
// given visible thickness.
func (c Config) DescriptionSize(thickness float64) float64 {
	if !c.Fonts.ScaleByThickness {
		return c.Fonts.Body
	}
	switch {
	case thickness > 2:
		return 9
	case thickness > 1:
		return 8
	default:
		return 7
	}
}
