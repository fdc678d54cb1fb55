package layout

import (
	"math"
	"strconv"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

// RulerConfig controls the depth scale in the rightmost column.
type RulerConfig struct {
	// MajorStep is the depth between labelled ticks.
	MajorStep float64 `toml:"major_step" json:"major_step"`

	// MinorDivisions splits each major step; MinorDivisions-1 unlabelled
	// ticks are drawn between consecutive majors.
	MinorDivisions int `toml:"minor_divisions" json:"minor_divisions"`

	// MajorLength and MinorLength are tick lengths as fractions of the ruler
	// column width.
	MajorLength float64 `toml:"major_length" json:"major_length"`
	MinorLength float64 `toml:"minor_length" json:"minor_length"`
}

// Ruler limits per page.
const (
	MaxRulerSteps     = 10000
	MaxMinorDivisions = 100
)

// DefaultRuler returns one labelled tick per metre with tenths between.
func DefaultRuler() RulerConfig {
	return RulerConfig{
		MajorStep:      1,
		MinorDivisions: 10,
		MajorLength:    0.5,
		MinorLength:    0.25,
	}
}

// Validate checks the ruler settings.
func (r RulerConfig) Validate() error {
	if !(r.MajorStep > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "ruler major_step must be positive")
	}
	if r.MinorDivisions < 1 || r.MinorDivisions > MaxMinorDivisions {
		return errors.New(errors.ErrCodeInvalidConfig, "ruler minor_divisions must be in [1, %d], got %d", MaxMinorDivisions, r.MinorDivisions)
	}
	if r.MajorLength < 0 || r.MajorLength > 1 || r.MinorLength < 0 || r.MinorLength > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "ruler tick lengths must be in [0, 1]")
	}
	return nil
}

// CheckSpan reports whether a page of the given span can carry this ruler:
// the span must be a whole number of major steps, at most MaxRulerSteps.
func (r RulerConfig) CheckSpan(span float64) error {
	steps := span / r.MajorStep
	n := math.Round(steps)
	if n < 1 || math.Abs(steps-n) > 1e-6*math.Max(1, n) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"page span %v must be a whole multiple of the ruler major_step %v", span, r.MajorStep)
	}
	if n > MaxRulerSteps {
		return errors.New(errors.ErrCodeInvalidConfig,
			"page span %v needs %.0f ruler steps of %v, limit %d", span, n, r.MajorStep, MaxRulerSteps)
	}
	return nil
}

// Tick is one mark on the depth ruler.
type Tick struct {
	Depth float64 `json:"depth"`
	Major bool    `json:"major"`
	Label string  `json:"label,omitempty"`
	Y     float64 `json:"y"`
}

// Ticks returns the ruler marks for page: majors from page.Top to
// page.Top+span inclusive, labelled with the absolute depth, and minors
// between each pair of majors. All positions go through m so ticks line up
// with layer boundaries. Majors come first, then minors, each in depth order.
func Ticks(page PageSpec, m Mapper, cfg RulerConfig) []Tick {
	steps := int(math.Round(m.Span() / cfg.MajorStep))
	ticks := make([]Tick, 0, (steps+1)+steps*(cfg.MinorDivisions-1))

	for i := 0; i <= steps; i++ {
		d := page.Top + float64(i)*cfg.MajorStep
		ticks = append(ticks, Tick{
			Depth: d,
			Major: true,
			Label: formatTick(d),
			Y:     m.Y(d),
		})
	}
	for i := 0; i < steps; i++ {
		base := page.Top + float64(i)*cfg.MajorStep
		for k := 1; k < cfg.MinorDivisions; k++ {
			d := base + float64(k)*cfg.MajorStep/float64(cfg.MinorDivisions)
			ticks = append(ticks, Tick{Depth: d, Y: m.Y(d)})
		}
	}
	return ticks
}

// formatTick prints whole depths without decimals and others in shortest
// form.
func formatTick(d float64) string {
	if r := math.Round(d); math.Abs(d-r) < 1e-9 {
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return strconv.FormatFloat(d, 'f', -1, 64)
}
