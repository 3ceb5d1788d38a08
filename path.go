package lines

// Path is the active contour. Its slots are a logical range of the shared
// vertex stream starting at Offset. The builder owns a single Path and
// resets it in place on every BeginPath.
type Path struct {
	Offset      int
	Count       int // points added by MoveTo/LineTo, closing duplicate included
	TotalLength float32
	IsClosed    bool

	points []Vec3
}

// Points returns the transformed points of the path in call order.
// The slice is reused by the next BeginPath.
func (p *Path) Points() []Vec3 {
	return p.points[:p.Count]
}

// fillCount is the number of points Fill triangulates: the closing
// duplicate is left out.
func (p *Path) fillCount() int {
	if p.IsClosed {
		return p.Count - 1
	}
	return p.Count
}

func (p *Path) begin(offset int) {
	p.Offset = offset
	p.Count = 0
	p.TotalLength = 0
	p.IsClosed = false
}

// addPoint records pt, reusing slots from earlier paths.
func (p *Path) addPoint(pt Vec3) {
	if p.Count < len(p.points) {
		p.points[p.Count] = pt
	} else {
		p.points = append(p.points, pt)
	}
	p.Count++
}

// PathRecord is the retained summary of a stroked or filled path.
type PathRecord struct {
	Offset      int
	Count       int
	TotalLength float32
	IsClosed    bool
	Stroked     bool
	Filled      bool
}
