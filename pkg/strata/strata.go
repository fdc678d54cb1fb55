// Package strata defines the depth-interval model of a borehole.
//
// A [Borehole] holds an ordered list of [Interval] values, each describing
// one geological layer by its top and base depth, a legend code, and a free
// text description. Intervals are constructed once from an external source
// (AGS data, a CSV table, a JSON document, a database record), checked with
// [Borehole.Validate], and then consumed read-only by the layout engine.
//
// Depths are positive downwards from ground level, in metres.
package strata

import (
	"math"
	"sort"
	"strings"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

// Epsilon is the tolerance used for every depth boundary comparison.
const Epsilon = 1e-6

// Interval is one geological layer of a borehole.
type Interval struct {
	Top         float64 `json:"top" bson:"top"`
	Base        float64 `json:"base" bson:"base"`
	Code        string  `json:"code" bson:"code"`
	Description string  `json:"description" bson:"description"`
}

// Thickness returns Base - Top.
func (iv Interval) Thickness() float64 {
	return iv.Base - iv.Top
}

// Overlaps reports whether the interval intersects the half-open depth
// range (top, bottom).
func (iv Interval) Overlaps(top, bottom float64) bool {
	return iv.Base > top && iv.Top < bottom
}

// Borehole is a single borehole with its stratigraphy.
type Borehole struct {
	ID          string     `json:"id" bson:"_id"`
	GroundLevel float64    `json:"ground_level" bson:"ground_level"`
	Intervals   []Interval `json:"intervals" bson:"intervals"`
}

// Empty reports whether the borehole has no intervals.
func (b *Borehole) Empty() bool {
	return b == nil || len(b.Intervals) == 0
}

// MaxDepth returns the deepest base depth, or 0 for an empty borehole.
func (b *Borehole) MaxDepth() float64 {
	if b.Empty() {
		return 0
	}
	max := b.Intervals[0].Base
	for _, iv := range b.Intervals[1:] {
		if iv.Base > max {
			max = iv.Base
		}
	}
	return max
}

// Level converts a depth into a level relative to the ground datum.
func (b *Borehole) Level(depth float64) float64 {
	return b.GroundLevel - depth
}

// Validate checks the interval invariants:
//   - every depth is finite and non-negative
//   - top < base for every interval
//   - intervals are sorted by top and contiguous (top[i+1] == base[i])
//
// An empty borehole is valid; callers decide how to report "no data".
// Violations are reported as ErrCodeInvalidInterval errors naming the
// offending interval.
func (b *Borehole) Validate() error {
	if b == nil {
		return nil
	}
	for i, iv := range b.Intervals {
		if math.IsNaN(iv.Top) || math.IsNaN(iv.Base) || math.IsInf(iv.Top, 0) || math.IsInf(iv.Base, 0) {
			return errors.New(errors.ErrCodeInvalidInterval, "interval %d: depth is not a finite number", i)
		}
		if iv.Top < 0 {
			return errors.New(errors.ErrCodeInvalidInterval, "interval %d: negative top depth %.2f", i, iv.Top)
		}
		if iv.Top >= iv.Base {
			return errors.New(errors.ErrCodeInvalidInterval, "interval %d: top %.2f must be above base %.2f", i, iv.Top, iv.Base)
		}
		if i == 0 {
			continue
		}
		prev := b.Intervals[i-1]
		switch {
		case iv.Top < prev.Top:
			return errors.New(errors.ErrCodeInvalidInterval, "interval %d: not sorted by top depth", i)
		case iv.Top < prev.Base-Epsilon:
			return errors.New(errors.ErrCodeInvalidInterval, "interval %d: overlaps previous interval (%.2f < %.2f)", i, iv.Top, prev.Base)
		case iv.Top > prev.Base+Epsilon:
			return errors.New(errors.ErrCodeInvalidInterval, "interval %d: gap after previous interval (%.2f > %.2f)", i, iv.Top, prev.Base)
		}
	}
	return nil
}

// Sort orders intervals by top depth in place. Ingestion sources that do not
// guarantee order call this before Validate.
func (b *Borehole) Sort() {
	sort.SliceStable(b.Intervals, func(i, j int) bool {
		return b.Intervals[i].Top < b.Intervals[j].Top
	})
}

// Clean trims whitespace from codes and descriptions and collapses runs of
// internal whitespace in descriptions to single spaces.
func (b *Borehole) Clean() {
	for i := range b.Intervals {
		b.Intervals[i].Code = strings.TrimSpace(b.Intervals[i].Code)
		b.Intervals[i].Description = strings.Join(strings.Fields(b.Intervals[i].Description), " ")
	}
}
