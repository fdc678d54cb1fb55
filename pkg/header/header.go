// Package header holds the project metadata printed above every log page.
//
// The header is a fixed set of labelled fields. They are usually read from a
// small YAML file kept next to the borehole data:
//
//	project_name: SESRO
//	client: Thames Water
//	location: Abingdon, Oxfordshire
//	coords: E443012.50 N195881.00
//	project_no: 303568-00
//	hole_type: CP+RC
//	scale: "1:50"
//
// Fields that are left empty print as blank cells. Borehole number and level
// default to values derived from the borehole itself; see Resolve.
package header

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

// DefaultScale is printed when no scale is configured.
const DefaultScale = "1:50"

// Metadata is the header field set.
type Metadata struct {
	ProjectName       string `yaml:"project_name" json:"project_name,omitempty"`
	Client            string `yaml:"client" json:"client,omitempty"`
	Date              string `yaml:"date" json:"date,omitempty"`
	Location          string `yaml:"location" json:"location,omitempty"`
	Contractor        string `yaml:"contractor" json:"contractor,omitempty"`
	Coords            string `yaml:"coords" json:"coords,omitempty"`
	ProjectNo         string `yaml:"project_no" json:"project_no,omitempty"`
	CrewName          string `yaml:"crew_name" json:"crew_name,omitempty"`
	DrillingEquipment string `yaml:"drilling_equipment" json:"drilling_equipment,omitempty"`

	BoreholeNumber string `yaml:"borehole_number" json:"borehole_number,omitempty"`
	HoleType       string `yaml:"hole_type" json:"hole_type,omitempty"`
	Level          string `yaml:"level" json:"level,omitempty"`
	LoggedBy       string `yaml:"logged_by" json:"logged_by,omitempty"`
	Scale          string `yaml:"scale" json:"scale,omitempty"`
}

// Field is one labelled header cell.
type Field struct {
	Label string
	Value string
}

// Load reads metadata from a YAML file.
func Load(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Metadata{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "header file %s", path)
		}
		return Metadata{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads metadata from YAML. Unknown keys are rejected so a typo does
// not silently leave a cell blank.
func Decode(r io.Reader) (Metadata, error) {
	var m Metadata
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && err != io.EOF {
		return Metadata{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse header")
	}
	return m, nil
}

// Encode writes metadata as YAML.
func (m Metadata) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

// Resolve fills derived defaults: the borehole number from id, the level
// from the ground level, and the scale.
func (m Metadata) Resolve(id string, groundLevel float64) Metadata {
	if m.BoreholeNumber == "" {
		m.BoreholeNumber = id
	}
	if m.Level == "" && groundLevel != 0 {
		m.Level = fmt.Sprintf("%.2fm AoD", groundLevel)
	}
	if m.Scale == "" {
		m.Scale = DefaultScale
	}
	return m
}

// Grid returns the 3x3 project block, row by row.
func (m Metadata) Grid() [3][3]Field {
	return [3][3]Field{
		{{"Project Name:", m.ProjectName}, {"Client:", m.Client}, {"Date:", m.Date}},
		{{"Location:", m.Location}, {"Contractor:", m.Contractor}, {"Co-ords:", m.Coords}},
		{{"Project No.:", m.ProjectNo}, {"Crew Name:", m.CrewName}, {"Drilling Equipment:", m.DrillingEquipment}},
	}
}

// Row returns the six-cell borehole row for page n of count.
func (m Metadata) Row(n, count int) [6]Field {
	return [6]Field{
		{"Borehole Number", m.BoreholeNumber},
		{"Hole Type", m.HoleType},
		{"Level", m.Level},
		{"Logged By", m.LoggedBy},
		{"Scale", m.Scale},
		{"Page Number", Sheet(n, count)},
	}
}

// Sheet formats a page number as "Sheet n of count".
func Sheet(n, count int) string {
	return fmt.Sprintf("Sheet %d of %d", n, count)
}

// Merge returns m with every non-empty field of over applied on top.
func (m Metadata) Merge(over Metadata) Metadata {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&m.ProjectName, over.ProjectName)
	set(&m.Client, over.Client)
	set(&m.Date, over.Date)
	set(&m.Location, over.Location)
	set(&m.Contractor, over.Contractor)
	set(&m.Coords, over.Coords)
	set(&m.ProjectNo, over.ProjectNo)
	set(&m.CrewName, over.CrewName)
	set(&m.DrillingEquipment, over.DrillingEquipment)
	set(&m.BoreholeNumber, over.BoreholeNumber)
	set(&m.HoleType, over.HoleType)
	set(&m.Level, over.Level)
	set(&m.LoggedBy, over.LoggedBy)
	set(&m.Scale, over.Scale)
	return m
}

// IsZero reports whether no field is set.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}
