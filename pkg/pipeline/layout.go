package pipeline

import (
	"maps"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/ingest"
	"github.com/matzehuels/boreholelog/pkg/layout"
)

// ResolveStyle returns the layout config for opts: the style file if one is
// given, else the named preset, with the page span override applied.
func ResolveStyle(opts Options) (layout.Config, error) {
	if opts.Style != nil {
		return *opts.Style, nil
	}
	var (
		cfg layout.Config
		err error
	)
	if opts.StylePath != "" {
		cfg, err = layout.LoadConfig(opts.StylePath)
	} else {
		cfg, err = layout.Preset(opts.Preset)
	}
	if err != nil {
		return layout.Config{}, err
	}
	if opts.PageSpan > 0 {
		cfg.PageSpan = opts.PageSpan
	}
	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}

// ResolveLegend merges the legend file with inline entries; inline entries
// win.
func ResolveLegend(opts Options) (layout.Legend, error) {
	legend := layout.Legend{}
	if opts.LegendPath != "" {
		l, err := ingest.LoadLegend(opts.LegendPath)
		if err != nil {
			return nil, err
		}
		maps.Copy(legend, l)
	}
	for code, s := range opts.Legend {
		if err := layout.ValidateHatch(s.Hatch); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "legend code %q", code)
		}
		legend[code] = s
	}
	return legend, nil
}

// NewEngine builds a layout engine measuring text with m.
func NewEngine(cfg layout.Config, legend layout.Legend, m layout.Measurer) (*layout.Engine, error) {
	return layout.NewEngine(cfg, layout.WithLegend(legend), layout.WithMeasurer(m))
}
