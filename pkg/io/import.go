package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/header"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

// Document is a borehole plus the header printed above its log.
type Document struct {
	Borehole *strata.Borehole
	Header   header.Metadata
}

// ReadJSON decodes a document from r. Unknown fields are rejected so that
// misspelled keys do not silently drop data. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var data document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode borehole json")
	}
	if data.ID == "" {
		return Document{}, errors.New(errors.ErrCodeInvalidInput, "borehole json has no id")
	}

	b := &strata.Borehole{ID: data.ID, GroundLevel: data.GroundLevel}
	b.Intervals = make([]strata.Interval, len(data.Intervals))
	for i, iv := range data.Intervals {
		b.Intervals[i] = strata.Interval{Top: iv.Top, Base: iv.Base, Code: iv.Code, Description: iv.Description}
	}
	doc := Document{Borehole: b}
	if data.Header != nil {
		doc.Header = *data.Header
	}
	return doc, nil
}

// ReadBorehole decodes a document from r and returns only its borehole.
func ReadBorehole(r io.Reader) (*strata.Borehole, error) {
	doc, err := ReadJSON(r)
	if err != nil {
		return nil, err
	}
	return doc.Borehole, nil
}

// ImportJSON reads the document at path.
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.New(errors.ErrCodeFileNotFound, "borehole file not found: %s", path)
		}
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
