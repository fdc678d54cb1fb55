package layout

// The header block has five rows of equal height: three rows of project
// fields, one row of borehole fields, and the column-title row that shares
// the body's column geometry.
const headerRow = 0.2

// columnTitles are the title-row captions. Multi-line captions are split
// into separate lines.
var columnTitles = map[Role][]string{
	Well:         {"Well"},
	SampleDepth:  {"Depth (m)"},
	SampleType:   {"Type"},
	Results:      {"Results"},
	Depth:        {"Depth", "(m)"},
	Level:        {"Level", "(m)"},
	LegendColumn: {"Legend"},
	Description:  {"Stratum Description"},
}

// sampleCaption spans the sample depth, type and results columns.
const sampleCaption = "Sample and In Situ Testing"

func (e *Engine) buildHeader(pc PageContext) *Region {
	cfg := e.cfg
	r := &Region{Name: RegionHeader, Box: cfg.Page.HeaderBox()}
	bold := Font{Family: cfg.Fonts.Family, Size: cfg.Fonts.Header, Bold: true}
	plain := Font{Family: cfg.Fonts.Family, Size: cfg.Fonts.Header}
	cell := func(x, y, w, h float64) Rect {
		return Rect{X: x, Y: y, W: w, H: h, Edge: cfg.Colors.Line, EdgeWidth: lineWidth, Z: ZFrame}
	}

	// Project grid.
	const gridW = 1.0 / 3
	for row, fields := range pc.Header.Grid() {
		yTop := 1 - float64(row)*headerRow
		for col, f := range fields {
			x := float64(col) * gridW
			r.Add(cell(x, yTop-headerRow, gridW, headerRow))
			avail := gridW * 0.9 * r.Box.W
			r.Add(Text{
				X: x + gridW*0.05, Y: yTop - headerRow*0.2,
				Lines: []string{f.Label}, Size: bold.Size, Bold: true,
				HAlign: AlignLeft, VAlign: AlignTop, Z: ZText,
			})
			if v := truncate(e.measure, f.Value, plain, avail); v != "" {
				r.Add(Text{
					X: x + gridW*0.05, Y: yTop - headerRow*0.6,
					Lines: []string{v}, Size: plain.Size,
					HAlign: AlignLeft, VAlign: AlignTop, Z: ZText,
				})
			}
		}
	}

	// Borehole row.
	const rowW = 1.0 / 6
	y0 := headerRow
	for i, f := range pc.Header.Row(pc.Spec.Number, pc.Count) {
		x := float64(i) * rowW
		avail := rowW * 0.9 * r.Box.W
		r.Add(cell(x, y0, rowW, headerRow))
		r.Add(Text{
			X: x + rowW/2, Y: y0 + headerRow*0.85,
			Lines: []string{truncate(e.measure, f.Label, bold, avail)}, Size: bold.Size, Bold: true,
			HAlign: AlignCenter, VAlign: AlignTop, Z: ZText,
		})
		if v := truncate(e.measure, f.Value, plain, avail); v != "" {
			r.Add(Text{
				X: x + rowW/2, Y: y0 + headerRow*0.35,
				Lines: []string{v}, Size: plain.Size,
				HAlign: AlignCenter, VAlign: AlignTop, Z: ZText,
			})
		}
	}

	// Column titles.
	cols := cfg.Columns
	for _, role := range Roles() {
		if !cols.Visible(role) {
			continue
		}
		x, w := cols.Left(role), cols.Width(role)
		r.Add(cell(x, 0, w, headerRow))
		title := columnTitles[role]
		if len(title) == 0 {
			continue
		}
		if isSampleColumn(role) {
			r.Add(Text{
				X: x + w/2, Y: headerRow * 0.4, Lines: title,
				Size: cfg.Fonts.HeaderSmall, Bold: true,
				HAlign: AlignCenter, VAlign: AlignTop, Z: ZText,
			})
			continue
		}
		r.Add(Text{
			X: x + w/2, Y: headerRow / 2, Lines: title,
			Size: bold.Size, Bold: true,
			HAlign: AlignCenter, VAlign: AlignMiddle, Z: ZText,
		})
	}
	if left, right, ok := sampleSpan(cols); ok {
		r.Add(Text{
			X: (left + right) / 2, Y: headerRow * 0.9, Lines: []string{sampleCaption},
			Size: bold.Size, Bold: true,
			HAlign: AlignCenter, VAlign: AlignTop, Z: ZText,
		})
		r.Add(hline(left, right, headerRow*0.6, lineWidth, ZGrid))
	}
	return r
}

func isSampleColumn(r Role) bool {
	return r == SampleDepth || r == SampleType || r == Results
}

// sampleSpan returns the extent of the visible sample columns.
func sampleSpan(cols Columns) (left, right float64, ok bool) {
	for _, role := range []Role{SampleDepth, SampleType, Results} {
		if !cols.Visible(role) {
			continue
		}
		if !ok {
			left = cols.Left(role)
			ok = true
		}
		right = cols.Right(role)
	}
	return left, right, ok
}
