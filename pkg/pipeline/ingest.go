package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/header"
	"github.com/matzehuels/boreholelog/pkg/ingest"
	bio "github.com/matzehuels/boreholelog/pkg/io"
	"github.com/matzehuels/boreholelog/pkg/observability"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

// Ingest resolves the borehole and header for opts. A borehole passed in
// Options.Borehole is validated the same way as one read from a file.
// JSON documents may carry their own header, which HeaderPath and
// Options.Header override field by field.
func Ingest(ctx context.Context, opts Options) (bio.Document, error) {
	if err := opts.ValidateForIngest(); err != nil {
		return bio.Document{}, err
	}
	source := opts.Input
	if source == "" {
		source = "request"
	}
	hooks := observability.Pipeline()
	hooks.OnIngestStart(ctx, source)
	start := time.Now()

	doc, err := ingestDocument(opts)
	n := 0
	if doc.Borehole != nil {
		n = len(doc.Borehole.Intervals)
	}
	hooks.OnIngestComplete(ctx, source, n, time.Since(start), err)
	return doc, err
}

func ingestDocument(opts Options) (bio.Document, error) {
	var doc bio.Document
	switch {
	case opts.Borehole != nil:
		b := cloneBorehole(opts.Borehole)
		if err := ingest.Finish(b); err != nil {
			return bio.Document{}, err
		}
		doc.Borehole = b
	case ingest.IsJSON(opts.Input):
		d, err := bio.ImportJSON(opts.Input)
		if err != nil {
			return bio.Document{}, err
		}
		if opts.ID != "" && d.Borehole.ID != opts.ID {
			return bio.Document{}, errors.New(errors.ErrCodeNotFound, "borehole %q not found", opts.ID)
		}
		if err := ingest.Finish(d.Borehole); err != nil {
			return bio.Document{}, err
		}
		doc = d
	default:
		bs, err := ingest.LoadFile(opts.Input)
		if err != nil {
			return bio.Document{}, err
		}
		b, err := ingest.Select(bs, opts.ID)
		if err != nil {
			return bio.Document{}, err
		}
		doc.Borehole = b
	}

	if opts.HeaderPath != "" {
		h, err := header.Load(opts.HeaderPath)
		if err != nil {
			return bio.Document{}, err
		}
		doc.Header = doc.Header.Merge(h)
	}
	doc.Header = doc.Header.Merge(opts.Header)
	return doc, nil
}

// cloneBorehole copies b so that Finish never mutates caller data.
func cloneBorehole(b *strata.Borehole) *strata.Borehole {
	c := *b
	c.Intervals = append([]strata.Interval(nil), b.Intervals...)
	return &c
}
