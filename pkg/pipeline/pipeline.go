// Package pipeline runs the ingest → layout → render pipeline that turns a
// borehole into finished log pages.
//
// The CLI and the HTTP server both go through [Runner] so that caching,
// defaults and error handling behave the same everywhere.
//
// # Stages
//
//  1. Ingest: read the borehole from a file (AGS, CSV, JSON) or take it from
//     Options.Borehole, then merge header metadata.
//  2. Layout: resolve the style, paginate, and build each page's primitives.
//  3. Render: draw each page to PNG or SVG, or all pages to one PDF or one
//     JSON dump.
//
// A failing page does not stop the run. It is recorded in
// Result.PageErrors and the remaining pages are still produced.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "site.ags",
//	    ID:      "BH01",
//	    Formats: []string{"png"},
//	})
//	for _, a := range res.Artifacts {
//	    os.WriteFile(a.FileName("BH01"), a.Data, 0o644)
//	}
package pipeline

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/header"
	"github.com/matzehuels/boreholelog/pkg/layout"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

// =============================================================================
// Defaults
// =============================================================================

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatPNG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// PerPage reports whether format produces one file per page.
func PerPage(format string) bool {
	return format == FormatPNG || format == FormatSVG
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. It doubles as the JSON body of the
// server's render endpoint.
type Options struct {
	// Ingest. Either Input names a file or Borehole is set directly.
	Input    string           `json:"-"`
	ID       string           `json:"id,omitempty"` // selects a borehole in multi-borehole inputs
	Borehole *strata.Borehole `json:"borehole,omitempty"`

	// Header metadata. HeaderPath is a YAML file; Header fields set here
	// take precedence over it.
	HeaderPath string          `json:"-"`
	Header     header.Metadata `json:"header"`

	// Style. StylePath is a TOML file and overrides Preset.
	Preset    string  `json:"preset,omitempty"`
	StylePath string  `json:"-"`
	PageSpan  float64 `json:"page_span,omitempty"` // overrides the style's span when > 0

	// Legend maps geology codes to bar styles. LegendPath is a CSV file.
	LegendPath string        `json:"-"`
	Legend     layout.Legend `json:"legend,omitempty"`

	// Render.
	Formats []string `json:"formats,omitempty"`
	DPI     float64  `json:"dpi,omitempty"`     // PNG resolution; zero uses the style's
	Pages   []int    `json:"pages,omitempty"`   // restrict output to these page numbers
	Refresh bool     `json:"refresh,omitempty"` // bypass cached artifacts

	// Runtime options (not serialized).
	Logger *log.Logger    `json:"-"`
	Style  *layout.Config `json:"-"` // overrides Preset, StylePath and PageSpan

	validated bool
}

// Artifact is one rendered output. Page is zero for whole-document formats.
type Artifact struct {
	Format string `json:"format"`
	Page   int    `json:"page,omitempty"`
	Data   []byte `json:"data"`
	Cached bool   `json:"cached,omitempty"`
}

// FileName returns "<base>_page<N>.<ext>" for page artifacts and
// "<base>.<ext>" for whole documents.
func (a Artifact) FileName(base string) string {
	if a.Page > 0 {
		return fmt.Sprintf("%s_page%d.%s", base, a.Page, a.Format)
	}
	return fmt.Sprintf("%s.%s", base, a.Format)
}

// Result holds the outputs of a pipeline run.
type Result struct {
	// ID identifies the run in logs and API responses.
	ID string

	Borehole *strata.Borehole
	Header   header.Metadata
	Style    layout.Config

	// Pages holds the successfully built pages, in order.
	Pages     []*layout.Page
	PageCount int

	Artifacts []Artifact

	// PageErrors lists pages that failed to lay out or render.
	PageErrors []*errors.PageError

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	Intervals  int
	Pages      int
	MaxDepth   float64
	IngestTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo counts artifact cache lookups.
type CacheInfo struct {
	Hits   int
	Misses int
}

// ArtifactsFor returns the artifacts of one format in page order.
func (r *Result) ArtifactsFor(format string) []Artifact {
	var out []Artifact
	for _, a := range r.Artifacts {
		if a.Format == format {
			out = append(out, a)
		}
	}
	return out
}

// Failed reports whether any page failed.
func (r *Result) Failed() bool { return len(r.PageErrors) > 0 }

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePreset checks that name is a known preset. Empty means default.
func ValidatePreset(name string) error {
	if name == "" {
		return nil
	}
	if !slices.Contains(layout.PresetNames(), name) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown preset %q (must be one of: %v)", name, layout.PresetNames())
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForIngest(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForIngest checks that there is something to ingest.
func (o *Options) ValidateForIngest() error {
	if o.Input == "" && o.Borehole == nil {
		return errors.New(errors.ErrCodeInvalidInput, "input file or borehole is required")
	}
	if o.ID != "" {
		if err := errors.ValidateBoreholeID(o.ID); err != nil {
			return err
		}
	}
	return nil
}

// SetRenderDefaults fills render defaults.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.Formats = dedupe(o.Formats)
}

// ValidateForRender fills defaults and validates render options.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidatePreset(o.Preset); err != nil {
		return err
	}
	if o.PageSpan < 0 || math.IsNaN(o.PageSpan) || math.IsInf(o.PageSpan, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "page span must be positive, got %v", o.PageSpan)
	}
	if o.DPI < 0 || math.IsNaN(o.DPI) {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be positive, got %v", o.DPI)
	}
	if o.DPI > layout.MaxDPI {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be at most %d, got %v", layout.MaxDPI, o.DPI)
	}
	for _, p := range o.Pages {
		if p < 1 {
			return errors.New(errors.ErrCodeInvalidInput, "page numbers start at 1, got %d", p)
		}
	}
	return nil
}

// WantPage reports whether page n was requested.
func (o *Options) WantPage(n int) bool {
	return len(o.Pages) == 0 || slices.Contains(o.Pages, n)
}

func dedupe(formats []string) []string {
	out := formats[:0:0]
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
