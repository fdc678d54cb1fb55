package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

// csvColumns are the accepted header names for each interval field.
var csvColumns = map[string][]string{
	"top":         {"top", "depth_top", "geol_top", "from"},
	"base":        {"base", "depth_base", "geol_base", "to", "bottom"},
	"code":        {"code", "geology_code", "geol_leg", "legend"},
	"description": {"description", "desc", "geol_desc"},
}

// ParseCSV reads a table of intervals for borehole id. The first row is a
// header naming at least the top and base columns; code and description are
// optional.
func ParseCSV(r io.Reader, id string) (*strata.Borehole, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeNoData, "csv for %s is empty", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv header")
	}
	idx := csvIndex(head)
	for _, required := range []string{"top", "base"} {
		if _, ok := idx[required]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "csv header has no %s column", required)
		}
	}

	b := &strata.Borehole{ID: id}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv")
		}
		if blank(rec) {
			continue
		}
		field := func(name string) string {
			if i, ok := idx[name]; ok && i < len(rec) {
				return rec[i]
			}
			return ""
		}
		top, err := parseDepth(field("top"))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d: top", line)
		}
		base, err := parseDepth(field("base"))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d: base", line)
		}
		b.Intervals = append(b.Intervals, strata.Interval{
			Top: top, Base: base, Code: field("code"), Description: field("description"),
		})
	}
	if err := Finish(b); err != nil {
		return nil, err
	}
	return b, nil
}

func csvIndex(head []string) map[string]int {
	idx := map[string]int{}
	for i, h := range head {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for field, names := range csvColumns {
			for _, n := range names {
				if h == n {
					if _, seen := idx[field]; !seen {
						idx[field] = i
					}
				}
			}
		}
	}
	return idx
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
