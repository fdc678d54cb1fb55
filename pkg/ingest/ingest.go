// Package ingest reads borehole stratigraphy from external sources.
//
// Supported sources are AGS4 files (GEOL and LOCA groups), simple CSV
// tables, the JSON document format of pkg/io, and a MongoDB collection.
// Every source hands its boreholes through [Finish], which normalizes text,
// sorts intervals and validates them, so the layout engine only ever sees
// well-formed data.
//
// Legend files mapping geology codes to bar colours and hatch patterns are
// read with [LoadLegend].
package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/boreholelog/pkg/errors"
	bio "github.com/matzehuels/boreholelog/pkg/io"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

// Format names an input format.
type Format string

const (
	FormatAGS  Format = "ags"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// DetectFormat picks the input format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ags":
		return FormatAGS, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unrecognized input file %q (want .ags, .csv or .json)", filepath.Base(path))
}

// IsJSON reports whether path names a JSON document.
func IsJSON(path string) bool {
	f, err := DetectFormat(path)
	return err == nil && f == FormatJSON
}

// LoadFile reads every borehole in the file at path. A CSV table holds a
// single borehole named after the file.
func LoadFile(path string) ([]*strata.Borehole, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "input file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	switch format {
	case FormatAGS:
		return ParseAGS(f)
	case FormatCSV:
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		b, err := ParseCSV(f, id)
		if err != nil {
			return nil, err
		}
		return []*strata.Borehole{b}, nil
	default:
		b, err := bio.ReadBorehole(f)
		if err != nil {
			return nil, err
		}
		if err := Finish(b); err != nil {
			return nil, err
		}
		return []*strata.Borehole{b}, nil
	}
}

// Select returns the borehole with the given ID. An empty id selects the
// only borehole of a single-borehole source.
func Select(boreholes []*strata.Borehole, id string) (*strata.Borehole, error) {
	if id == "" {
		if len(boreholes) == 1 {
			return boreholes[0], nil
		}
		ids := make([]string, len(boreholes))
		for i, b := range boreholes {
			ids[i] = b.ID
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "input holds %d boreholes, choose one of: %s", len(boreholes), strings.Join(ids, ", "))
	}
	for _, b := range boreholes {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "borehole %q not found", id)
}

// Finish normalizes and validates b in place.
func Finish(b *strata.Borehole) error {
	if err := errors.ValidateBoreholeID(b.ID); err != nil {
		return err
	}
	for i := range b.Intervals {
		iv := &b.Intervals[i]
		iv.Code = norm.NFC.String(iv.Code)
		iv.Description = norm.NFC.String(iv.Description)
	}
	b.Clean()
	b.Sort()
	return b.Validate()
}
