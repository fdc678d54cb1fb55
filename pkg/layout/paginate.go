package layout

import (
	"math"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

// PageSpec is the depth window of one page.
type PageSpec struct {
	Number int     `json:"number"` // 1-based
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Span returns Bottom - Top.
func (p PageSpec) Span() float64 { return p.Bottom - p.Top }

// Contains reports whether depth lies strictly above the page bottom and at
// or below the page top.
func (p PageSpec) Contains(depth float64) bool {
	return depth >= p.Top-strata.Epsilon && depth < p.Bottom-strata.Epsilon
}

// MaxPages caps the number of pages one borehole may be split into.
const MaxPages = 1000

// PageCount returns ceil(maxDepth/span). A depth that is an exact multiple of
// the span (within epsilon) does not start a trailing empty page. It returns
// 0 for a non-positive depth or span.
func PageCount(maxDepth, span float64) int {
	if maxDepth <= 0 || span <= 0 {
		return 0
	}
	n := math.Ceil(maxDepth/span - strata.Epsilon/span)
	if n < 1 {
		n = 1
	}
	return int(n)
}

// Paginate returns the contiguous pages 1..PageCount covering intervals.
// An empty interval list yields ErrCodeNoData and no pages. A span that
// would need more than MaxPages pages yields ErrCodeInvalidConfig.
func Paginate(intervals []strata.Interval, span float64) ([]PageSpec, error) {
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "page span must be positive, got %v", span)
	}
	if len(intervals) == 0 {
		return nil, errors.New(errors.ErrCodeNoData, "no intervals to lay out")
	}
	var maxDepth float64
	for _, iv := range intervals {
		maxDepth = math.Max(maxDepth, iv.Base)
	}
	if need := math.Ceil(maxDepth/span - strata.Epsilon/span); need > MaxPages {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"page span %v would need %.0f pages for %v m, limit %d", span, need, maxDepth, MaxPages)
	}
	n := PageCount(maxDepth, span)
	pages := make([]PageSpec, n)
	for i := range pages {
		pages[i] = PageSpec{
			Number: i + 1,
			Top:    float64(i) * span,
			Bottom: float64(i+1) * span,
		}
	}
	return pages, nil
}

// Segment is the part of one interval that falls on one page.
type Segment struct {
	// Source is the index of the interval in the borehole.
	Source   int             `json:"source"`
	Interval strata.Interval `json:"interval"`

	// Top and Bottom are the interval depths clamped to the page.
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`

	// TrueTop and TrueBottom report whether the clamped edge is the
	// interval's own edge rather than a cut made by the page boundary.
	TrueTop    bool `json:"true_top"`
	TrueBottom bool `json:"true_bottom"`
}

// Empty reports whether clipping left no height.
func (s Segment) Empty() bool {
	return s.Bottom-s.Top < strata.Epsilon
}

// Thickness returns the visible thickness of the segment.
func (s Segment) Thickness() float64 { return s.Bottom - s.Top }

// Clip projects intervals onto page. Every interval with
// base > page.Top and top < page.Bottom yields exactly one segment, in
// interval order. Intervals must be sorted and non-overlapping, so the
// segments are too.
func Clip(intervals []strata.Interval, page PageSpec) []Segment {
	var segs []Segment
	for i, iv := range intervals {
		if !iv.Overlaps(page.Top, page.Bottom) {
			continue
		}
		top := math.Max(iv.Top, page.Top)
		bottom := math.Min(iv.Base, page.Bottom)
		segs = append(segs, Segment{
			Source:     i,
			Interval:   iv,
			Top:        top,
			Bottom:     bottom,
			TrueTop:    math.Abs(top-iv.Top) < strata.Epsilon,
			TrueBottom: math.Abs(bottom-iv.Base) < strata.Epsilon,
		})
	}
	return segs
}

// EndOnPage returns the depth where the borehole stops drawing on page: the
// true end if it lies above the page bottom, else the page bottom. The
// second result reports whether the true end is on this page.
func EndOnPage(maxDepth float64, page PageSpec) (float64, bool) {
	if maxDepth < page.Bottom-strata.Epsilon {
		return maxDepth, true
	}
	return page.Bottom, false
}
