// Package render replays laid-out log pages on a drawing backend.
//
// # Overview
//
// [layout.Engine] produces pages of primitives in region-normalized
// coordinates. This package maps each region onto its box on the sheet and
// issues the primitives, lowest layer first, to a [Backend]:
//
//	pages, _ := engine.Layout(borehole, meta)
//	for _, p := range pages {
//	    render.Draw(backend, p, cfg.Fonts.Family)
//	}
//
// Backends work in millimetres with the origin at the lower-left corner of
// the sheet. Line widths arrive in millimetres, font sizes in points.
//
// # Backends
//
// The [sink] subpackage holds the tdewolff/canvas backend and the PNG, SVG,
// PDF and JSON writers. [Recorder] keeps every call in memory and is what
// the tests use.
//
// [sink]: github.com/matzehuels/boreholelog/pkg/render/sink
package render
