package render

// Verb identifies one path segment.
type Verb uint8

const (
	VerbMoveTo Verb = iota
	VerbLineTo
	VerbQuadTo
	VerbArc
	VerbClose
)

// Segment is one recorded path operation. Fields unused by a verb are zero.
//
//	MoveTo, LineTo: X, Y
//	QuadTo:         CX, CY control point, X, Y end point
//	Arc:            X, Y centre, Radius, Start..End angle in radians (clockwise)
type Segment struct {
	Verb       Verb
	X, Y       float64
	CX, CY     float64
	Radius     float64
	Start, End float64
}

// Path is a reusable list of segments. Reset keeps the backing array so a
// path can be rebuilt every frame without allocating.
type Path struct {
	segs []Segment
}

func (p *Path) Reset() { p.segs = p.segs[:0] }

func (p *Path) MoveTo(x, y float64) {
	p.segs = append(p.segs, Segment{Verb: VerbMoveTo, X: x, Y: y})
}

func (p *Path) LineTo(x, y float64) {
	p.segs = append(p.segs, Segment{Verb: VerbLineTo, X: x, Y: y})
}

func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.segs = append(p.segs, Segment{Verb: VerbQuadTo, CX: cx, CY: cy, X: x, Y: y})
}

func (p *Path) Arc(x, y, radius, start, end float64) {
	p.segs = append(p.segs, Segment{Verb: VerbArc, X: x, Y: y, Radius: radius, Start: start, End: end})
}

func (p *Path) Close() {
	p.segs = append(p.segs, Segment{Verb: VerbClose})
}

// Segments returns the recorded segments. The slice is only valid until the
// next Reset.
func (p *Path) Segments() []Segment { return p.segs }

// Clone returns an independent copy.
func (p *Path) Clone() *Path {
	return &Path{segs: append([]Segment(nil), p.segs...)}
}
