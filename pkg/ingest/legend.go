package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/layout"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// LoadLegend reads a legend file from path.
func LoadLegend(path string) (layout.Legend, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "legend file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ParseLegend(f)
}

// ParseLegend reads rows of code,color[,hatch[,name]]. A first row whose
// colour column is not a colour is taken as a header and skipped. Colours
// without a leading # get one.
func ParseLegend(r io.Reader) (layout.Legend, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	legend := layout.Legend{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read legend")
		}
		if blank(rec) {
			continue
		}
		if len(rec) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "legend line %d: want code,color[,hatch[,name]]", line)
		}
		code := strings.TrimSpace(rec[0])
		fill := strings.TrimSpace(rec[1])
		if fill != "" && !strings.HasPrefix(fill, "#") {
			fill = "#" + fill
		}
		if !hexColor.MatchString(fill) {
			if line == 1 {
				continue
			}
			return nil, errors.New(errors.ErrCodeInvalidFormat, "legend line %d: %q is not a hex colour", line, rec[1])
		}
		style := layout.BarStyle{Fill: fill}
		if len(rec) > 2 {
			style.Hatch = strings.TrimSpace(rec[2])
			if err := layout.ValidateHatch(style.Hatch); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "legend line %d", line)
			}
		}
		if len(rec) > 3 {
			style.Name = strings.TrimSpace(rec[3])
		}
		legend[code] = style
	}
	return legend, nil
}
