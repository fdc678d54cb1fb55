// Package pkg provides the core libraries for boreholelog, which turns
// borehole stratigraphy into paged geotechnical log sheets.
//
// # Overview
//
// A log sheet is a header block of project metadata above a depth-scaled
// body: depth and level labels, a lithology bar, geology codes and wrapped
// descriptions against a ruled depth scale. Deep boreholes are split over
// several pages of a fixed depth span; intervals crossing a page boundary
// are clipped and their cut edges are drawn without labels.
//
// # Architecture
//
// The data flow through boreholelog:
//
//	AGS4 / CSV / JSON / MongoDB
//	         ↓
//	    [ingest] package (parse, normalize, validate intervals)
//	         ↓
//	    [layout] package (paginate, clip, map depths, rule, place text)
//	         ↓
//	    [render] package (replay primitives on a drawing backend)
//	         ↓
//	    PNG/SVG/PDF/JSON output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/boreholelog/pkg/header"
//	    "github.com/matzehuels/boreholelog/pkg/ingest"
//	    "github.com/matzehuels/boreholelog/pkg/layout"
//	    "github.com/matzehuels/boreholelog/pkg/render/sink"
//	)
//
//	boreholes, _ := ingest.LoadFile("site.ags")
//	b, _ := ingest.Select(boreholes, "BH01")
//
//	cfg, _ := layout.Preset("openground")
//	engine, _ := layout.NewEngine(cfg)
//	pages, _ := engine.Layout(b, header.Metadata{})
//
//	pdf, _ := sink.RenderPDF(pages)
//
// # Main Packages
//
// [strata] - Depth intervals and boreholes, with the ordering and
// contiguity checks every source goes through.
//
// [layout] - The layout and pagination engine: styles and presets, column
// geometry, the depth-to-page mapper, interval clipping, label placement,
// ruler ticks and the header block.
//
// [textwrap] - Greedy word wrapping by character budget or measured width.
//
// [header] - Header metadata fields and their placement on the sheet.
//
// [render] and [render/sink] - Drawing backends and the file writers.
//
// [ingest] - AGS4, CSV, JSON and MongoDB sources plus legend files.
//
// [io] - The JSON borehole document format.
//
// [pipeline] - Ingest, layout and render with caching, shared by the CLI
// and the HTTP server.
//
// [cache] - File, Redis and null caches for rendered artifacts.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// [errors] - Coded errors and per-page failures.
//
// # Testing
//
//	go test ./...
//
// [strata]: https://pkg.go.dev/github.com/matzehuels/boreholelog/pkg/strata
// [layout]: https://pkg.go.dev/github.com/matzehuels/boreholelog/pkg/layout
// [textwrap]: https://pkg.go.dev/github.com/matzehuels/boreholelog/pkg/textwrap
// [header]: https://pkg.go.dev/github.com/matzehuels/boreholelog/pkg/header
// [render]: https://pkg.go.dev/github.com/matzehuels/boreholelog/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/boreholelog/pkg/render/sink
// [ingest]: https://pkg.go.dev/github.com/matzehuels/boreholelog/pkg/ingest
// [io]: https://pkg.go.dev/github.com/matzehuels/boreholelog/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/boreholelog/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/boreholelog/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/boreholelog/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/boreholelog/pkg/errors
package pkg
