package pipeline

import (
	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/layout"
	"github.com/matzehuels/boreholelog/pkg/render/sink"
)

// RenderOptions are the backend settings shared by every page of a run.
type RenderOptions struct {
	Fonts    *sink.Fonts
	Family   string
	DPI      float64
	Borehole string
	Preset   string
	RunID    string
}

func (o RenderOptions) canvas() []sink.Option {
	return []sink.Option{sink.WithFonts(o.Fonts), sink.WithFamily(o.Family), sink.WithDPI(o.DPI)}
}

// RenderPage draws one page in a per-page format (png or svg).
func RenderPage(p *layout.Page, format string, opts RenderOptions) ([]byte, error) {
	switch format {
	case FormatPNG:
		return sink.RenderPNG(p, opts.canvas()...)
	case FormatSVG:
		return sink.RenderSVG(p, opts.canvas()...)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "format %s is not rendered per page", format)
}

// RenderDocument draws all pages into one document (pdf or json).
func RenderDocument(pages []*layout.Page, format string, opts RenderOptions) ([]byte, error) {
	switch format {
	case FormatPDF:
		return sink.RenderPDF(pages, opts.canvas()...)
	case FormatJSON:
		return sink.RenderJSON(pages,
			sink.WithJSONBorehole(opts.Borehole),
			sink.WithJSONPreset(opts.Preset),
			sink.WithJSONRunID(opts.RunID))
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "format %s is rendered per page", format)
}
