package ingest

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

// AGS4 is a line-oriented CSV dialect: every field is double-quoted and
// every line starts with a descriptor (GROUP, HEADING, UNIT, TYPE, DATA).
var (
	agsLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(?:""|[^"])*"`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Newline", Pattern: `\r?\n`},
		{Name: "Whitespace", Pattern: `[ \t]+`},
	})

	agsParser = participle.MustBuild[agsFile](
		participle.Lexer(agsLexer),
		participle.Elide("Whitespace"),
	)
)

type agsFile struct {
	Rows []*agsRow `parser:"Newline* ( @@ Newline* )*"`
}

type agsRow struct {
	Pos    lexer.Position
	Fields []string `parser:"@String ( Comma @String )*"`
}

// agsTable is one GROUP with its headings and data rows.
type agsTable struct {
	name     string
	headings map[string]int
	rows     [][]string
}

func (t *agsTable) get(row []string, heading string) string {
	i, ok := t.headings[heading]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// ParseAGS reads the GEOL and LOCA groups of an AGS4 file and returns one
// borehole per LOCA_ID, in order of first appearance.
func ParseAGS(r io.Reader) ([]*strata.Borehole, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read ags")
	}
	src = bytes.TrimPrefix(src, []byte("\ufeff"))

	file, err := agsParser.ParseBytes("", src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse ags")
	}
	tables, err := agsTables(file)
	if err != nil {
		return nil, err
	}
	geol, ok := tables["GEOL"]
	if !ok {
		return nil, errors.New(errors.ErrCodeNoData, "ags file has no GEOL group")
	}
	for _, h := range []string{"LOCA_ID", "GEOL_TOP", "GEOL_BASE"} {
		if _, ok := geol.headings[h]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "GEOL group has no %s heading", h)
		}
	}

	var order []string
	byID := map[string]*strata.Borehole{}
	for _, row := range geol.rows {
		id := strings.TrimSpace(geol.get(row, "LOCA_ID"))
		top, err := parseDepth(geol.get(row, "GEOL_TOP"))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: GEOL_TOP", id)
		}
		base, err := parseDepth(geol.get(row, "GEOL_BASE"))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: GEOL_BASE", id)
		}
		b, ok := byID[id]
		if !ok {
			b = &strata.Borehole{ID: id}
			byID[id] = b
			order = append(order, id)
		}
		b.Intervals = append(b.Intervals, strata.Interval{
			Top:         top,
			Base:        base,
			Code:        geol.get(row, "GEOL_LEG"),
			Description: geol.get(row, "GEOL_DESC"),
		})
	}

	if loca, ok := tables["LOCA"]; ok {
		for _, row := range loca.rows {
			b, ok := byID[strings.TrimSpace(loca.get(row, "LOCA_ID"))]
			if !ok {
				continue
			}
			if gl := loca.get(row, "LOCA_GL"); gl != "" {
				v, err := strconv.ParseFloat(strings.TrimSpace(gl), 64)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: LOCA_GL", b.ID)
				}
				b.GroundLevel = v
			}
		}
	}

	out := make([]*strata.Borehole, 0, len(order))
	for _, id := range order {
		b := byID[id]
		if err := Finish(b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// agsTables groups parsed rows by GROUP. UNIT and TYPE rows are skipped.
func agsTables(f *agsFile) (map[string]*agsTable, error) {
	tables := map[string]*agsTable{}
	var cur *agsTable
	for _, row := range f.Rows {
		fields := make([]string, len(row.Fields))
		for i, s := range row.Fields {
			fields[i] = unquoteAGS(s)
		}
		switch fields[0] {
		case "GROUP":
			if len(fields) < 2 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: GROUP without a name", row.Pos.Line)
			}
			cur = &agsTable{name: fields[1], headings: map[string]int{}}
			tables[cur.name] = cur
		case "HEADING":
			if cur == nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: HEADING before GROUP", row.Pos.Line)
			}
			for i, h := range fields[1:] {
				cur.headings[h] = i + 1
			}
		case "DATA":
			if cur == nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: DATA before GROUP", row.Pos.Line)
			}
			cur.rows = append(cur.rows, fields)
		case "UNIT", "TYPE":
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: unknown descriptor %q", row.Pos.Line, fields[0])
		}
	}
	return tables, nil
}

func unquoteAGS(s string) string {
	s = strings.TrimPrefix(strings.TrimSuffix(s, `"`), `"`)
	return strings.ReplaceAll(s, `""`, `"`)
}

func parseDepth(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
