package layout

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

// Role names a column of the log. Columns are always referenced by role,
// never by position, so reordering or resizing a style cannot make the
// legend code land in the description column.
type Role int

// Column roles in left-to-right order.
const (
	Well Role = iota
	SampleDepth
	SampleType
	Results
	Depth
	Level
	LegendColumn
	Description
	Ruler

	numRoles
)

var roleNames = [numRoles]string{
	Well:         "well",
	SampleDepth:  "sample_depth",
	SampleType:   "sample_type",
	Results:      "results",
	Depth:        "depth",
	Level:        "level",
	LegendColumn: "legend",
	Description:  "description",
	Ruler:        "ruler",
}

// String returns the configuration key of the role.
func (r Role) String() string {
	if r < 0 || r >= numRoles {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// ParseRole resolves a configuration key to a role.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return Role(r), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown column %q", s)
}

// Roles returns all roles in left-to-right order.
func Roles() []Role {
	roles := make([]Role, numRoles)
	for i := range roles {
		roles[i] = Role(i)
	}
	return roles
}

// Columns holds the fractional width of every column role. Widths are in
// [0, 1] and sum to 1; a zero-width column is hidden. The same Columns value
// lays out the header title row and every body page, so separators line up.
type Columns struct {
	widths [numRoles]float64
}

// DefaultColumns returns the standard nine-column geometry.
func DefaultColumns() Columns {
	return NewColumns(map[Role]float64{
		Well:         0.05,
		SampleDepth:  0.10,
		SampleType:   0.06,
		Results:      0.12,
		Depth:        0.08,
		Level:        0.08,
		LegendColumn: 0.10,
		Description:  0.37,
		Ruler:        0.04,
	})
}

// NewColumns builds a geometry from explicit widths. Missing roles get zero
// width. The result is not normalized; call Normalize or Validate.
func NewColumns(widths map[Role]float64) Columns {
	var c Columns
	for r, w := range widths {
		if r >= 0 && r < numRoles {
			c.widths[r] = w
		}
	}
	return c
}

// Width returns the fractional width of r.
func (c Columns) Width(r Role) float64 { return c.widths[r] }

// Visible reports whether r has a non-zero width.
func (c Columns) Visible(r Role) bool { return c.widths[r] > 0 }

// Left returns the left offset of r: the sum of all widths before it.
func (c Columns) Left(r Role) float64 {
	var x float64
	for i := Role(0); i < r; i++ {
		x += c.widths[i]
	}
	return x
}

// Right returns the right edge of r.
func (c Columns) Right(r Role) float64 { return c.Left(r) + c.widths[r] }

// Center returns the horizontal midpoint of r.
func (c Columns) Center(r Role) float64 { return c.Left(r) + c.widths[r]/2 }

// Span returns the left edge of from and the right edge of to.
func (c Columns) Span(from, to Role) (left, right float64) {
	return c.Left(from), c.Right(to)
}

// Sum returns the total of all widths.
func (c Columns) Sum() float64 {
	var s float64
	for _, w := range c.widths {
		s += w
	}
	return s
}

// Separators returns the x positions of the boundaries between visible
// columns, excluding the outer edges at 0 and 1.
func (c Columns) Separators() []float64 {
	var xs []float64
	var x float64
	for r := Role(0); r < numRoles-1; r++ {
		x += c.widths[r]
		if c.widths[r] == 0 {
			continue
		}
		if x > 1e-9 && x < c.Sum()-1e-9 {
			xs = append(xs, x)
		}
	}
	return xs
}

// WithWidth returns a copy with r set to w and all widths renormalized.
func (c Columns) WithWidth(r Role, w float64) Columns {
	c.widths[r] = w
	return c.Normalize()
}

// Normalize scales the widths so they sum to 1. A geometry whose widths sum
// to zero is returned unchanged; Validate rejects it.
func (c Columns) Normalize() Columns {
	sum := c.Sum()
	if sum <= 0 {
		return c
	}
	for i := range c.widths {
		c.widths[i] /= sum
	}
	return c
}

// Validate checks that widths are finite, non-negative and sum to 1.
func (c Columns) Validate() error {
	for r, w := range c.widths {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "column %s: invalid width %v", Role(r), w)
		}
	}
	if math.Abs(c.Sum()-1) > 1e-6 {
		return errors.New(errors.ErrCodeInvalidConfig, "column widths sum to %.4f, want 1", c.Sum())
	}
	if !c.Visible(LegendColumn) || !c.Visible(Description) {
		return errors.New(errors.ErrCodeInvalidConfig, "legend and description columns must be visible")
	}
	return nil
}

// Map returns the widths keyed by configuration name.
func (c Columns) Map() map[string]float64 {
	m := make(map[string]float64, numRoles)
	for r, w := range c.widths {
		m[roleNames[r]] = w
	}
	return m
}

// UnmarshalTOML implements toml.Unmarshaler. Keys present in the table
// replace the current widths; absent keys keep theirs. The result is
// renormalized.
func (c *Columns) UnmarshalTOML(v any) error {
	table, ok := v.(map[string]any)
	if !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "columns must be a table")
	}
	for key, raw := range table {
		r, err := ParseRole(key)
		if err != nil {
			return err
		}
		switch w := raw.(type) {
		case float64:
			c.widths[r] = w
		case int64:
			c.widths[r] = float64(w)
		default:
			return errors.New(errors.ErrCodeInvalidConfig, "column %s: width must be a number", key)
		}
	}
	*c = c.Normalize()
	return nil
}

// MarshalJSON encodes the widths as an object keyed by role name.
func (c Columns) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Map())
}

// UnmarshalJSON decodes an object keyed by role name.
func (c *Columns) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for key, w := range m {
		r, err := ParseRole(key)
		if err != nil {
			return err
		}
		c.widths[r] = w
	}
	*c = c.Normalize()
	return nil
}
