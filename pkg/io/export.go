package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/boreholelog/pkg/header"
)

type document struct {
	ID          string           `json:"id"`
	GroundLevel float64          `json:"ground_level"`
	Intervals   []interval       `json:"intervals"`
	Header      *header.Metadata `json:"header,omitempty"`
}

type interval struct {
	Top         float64 `json:"top"`
	Base        float64 `json:"base"`
	Code        string  `json:"code,omitempty"`
	Description string  `json:"description,omitempty"`
}

// WriteJSON encodes doc as indented JSON and writes it to w. An all-empty
// header is omitted.
func WriteJSON(doc Document, w io.Writer) error {
	if doc.Borehole == nil {
		return fmt.Errorf("encode: nil borehole")
	}
	b := doc.Borehole
	out := document{
		ID:          b.ID,
		GroundLevel: b.GroundLevel,
		Intervals:   make([]interval, len(b.Intervals)),
	}
	for i, iv := range b.Intervals {
		out.Intervals[i] = interval{Top: iv.Top, Base: iv.Base, Code: iv.Code, Description: iv.Description}
	}
	if doc.Header != (header.Metadata{}) {
		h := doc.Header
		out.Header = &h
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes doc to a new file at path.
func ExportJSON(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
