package layout

// Primitives are positioned in the normalized coordinates of the region that
// holds them: x runs 0..1 left to right, y runs 0..1 bottom to top. A
// backend maps each region onto its physical box on the sheet.

// Z-order layers. Higher layers are drawn later, on top.
const (
	ZBar       = 2
	ZText      = 3
	ZFrame     = 10
	ZDivider   = 15
	ZClosing   = 16
	ZGrid      = 20
	ZRuler     = 30
	ZRulerTick = 31
	ZRulerText = 32
)

// HAlign is horizontal text alignment relative to the anchor.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign is vertical text alignment relative to the anchor.
type VAlign int

const (
	AlignMiddle VAlign = iota
	AlignTop           // anchor at the top of the text block
	AlignBottom        // anchor at the bottom of the text block
)

// Point is a position in region coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Primitive is one drawable item.
type Primitive interface {
	Layer() int
}

// Rect is a filled and/or stroked rectangle anchored at its lower-left corner.
// An empty Fill or Edge disables that part.
type Rect struct {
	X, Y, W, H float64
	Fill       string  // hex colour
	Edge       string  // hex colour
	EdgeWidth  float64 // points
	Z          int
}

// Line is an open polyline.
type Line struct {
	Points []Point
	Width  float64 // points
	Color  string
	Z      int
}

// Text is a block of one or more lines.
type Text struct {
	X, Y   float64
	Lines  []string
	Size   float64 // points
	Bold   bool
	HAlign HAlign
	VAlign VAlign
	Z      int
}

func (r Rect) Layer() int { return r.Z }
func (l Line) Layer() int { return l.Z }
func (t Text) Layer() int { return t.Z }

// hline is a horizontal line from x0 to x1 at y.
func hline(x0, x1, y, width float64, z int) Line {
	return Line{Points: []Point{{x0, y}, {x1, y}}, Width: width, Color: "#000000", Z: z}
}

// vline is a vertical line from y0 to y1 at x.
func vline(x, y0, y1, width float64, z int) Line {
	return Line{Points: []Point{{x, y0}, {x, y1}}, Width: width, Color: "#000000", Z: z}
}

// Box is a physical rectangle on the sheet in millimetres, origin at the
// lower-left corner of the sheet.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Region is a box on the sheet plus the primitives drawn inside it.
type Region struct {
	Name  string      `json:"name"`
	Box   Box         `json:"box"`
	Items []Primitive `json:"-"`
}

// Add appends primitives to the region.
func (r *Region) Add(items ...Primitive) {
	r.Items = append(r.Items, items...)
}

// Page is one finished sheet of the log.
type Page struct {
	Spec     PageSpec  `json:"page"`
	Count    int       `json:"count"`
	Width    float64   `json:"width_mm"`
	Height   float64   `json:"height_mm"`
	Regions  []*Region `json:"regions"`
	Segments []Segment `json:"segments"`
	Ticks    []Tick    `json:"-"`
}

// Region returns the region called name, or nil.
func (p *Page) Region(name string) *Region {
	for _, r := range p.Regions {
		if r.Name == name {
			return r
		}
	}
	return nil
}
