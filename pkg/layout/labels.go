package layout

import (
	"fmt"
	"math"
	"sort"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

// LabelPolicy decides which segment edges get depth and level labels.
// Base labels are always drawn on true bottoms; the policies differ only in
// how the very top of the borehole is treated.
type LabelPolicy string

const (
	// LabelsSkipSurface labels every true top except one at depth 0, which
	// the header already implies.
	LabelsSkipSurface LabelPolicy = "skip-surface"

	// LabelsAll labels every true top, including the surface.
	LabelsAll LabelPolicy = "all"
)

// DefaultLabelPolicy is used when a style does not name one.
const DefaultLabelPolicy = LabelsSkipSurface

// Validate checks p is a known policy.
func (p LabelPolicy) Validate() error {
	switch p {
	case LabelsSkipSurface, LabelsAll:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidConfig, "unknown label policy %q (must be one of: skip-surface, all)", p)
}

// ShowTop reports whether the top edge of seg is labelled.
func (p LabelPolicy) ShowTop(seg Segment) bool {
	if !seg.TrueTop {
		return false
	}
	if p == LabelsAll {
		return true
	}
	return seg.Interval.Top > strata.Epsilon
}

// ShowBase reports whether the bottom edge of seg is labelled.
func (p LabelPolicy) ShowBase(seg Segment) bool {
	return seg.TrueBottom
}

// Edge says which side of a boundary a label sits on.
type Edge int

const (
	// TopEdge labels sit just above the boundary (the top of the layer below).
	TopEdge Edge = iota
	// BaseEdge labels sit just below the boundary (the base of the layer above).
	BaseEdge
)

// String returns "top" or "base".
func (e Edge) String() string {
	if e == TopEdge {
		return "top"
	}
	return "base"
}

// DepthLabel is one depth/level annotation pair at a boundary.
type DepthLabel struct {
	Depth     float64 `json:"depth"`
	Edge      Edge    `json:"edge"`
	DepthText string  `json:"depth_text"`
	LevelText string  `json:"level_text"`
}

// Labels evaluates policy over the segments of page. Empty segments are
// evaluated too, but a label is emitted at most once per depth and edge, and
// a sliver's edge lying on the page boundary belongs to the neighbouring
// page, so clipping leftovers never duplicate a label.
func Labels(segs []Segment, page PageSpec, policy LabelPolicy, groundLevel float64) []DepthLabel {
	type key struct {
		depth int64
		edge  Edge
	}
	seen := make(map[key]bool)
	var out []DepthLabel
	add := func(depth float64, edge Edge) {
		k := key{int64(math.Round(depth / strata.Epsilon)), edge}
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, DepthLabel{
			Depth:     depth,
			Edge:      edge,
			DepthText: FormatDepth(depth),
			LevelText: FormatDepth(groundLevel - depth),
		})
	}

	// Non-empty segments first so they own the label at a shared depth.
	for _, pass := range []bool{false, true} {
		for _, seg := range segs {
			if seg.Empty() != pass {
				continue
			}
			if policy.ShowTop(seg) && !(pass && nearly(seg.Top, page.Bottom)) {
				add(seg.Top, TopEdge)
			}
			if policy.ShowBase(seg) && !(pass && nearly(seg.Bottom, page.Top)) {
				add(seg.Bottom, BaseEdge)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].Edge > out[j].Edge
	})
	return out
}

// FormatDepth formats a depth or level with two decimals.
func FormatDepth(v float64) string {
	if math.Abs(v) < 0.005 {
		v = 0 // avoid "-0.00"
	}
	return fmt.Sprintf("%.2f", v)
}

func nearly(a, b float64) bool {
	return math.Abs(a-b) < strata.Epsilon
}
