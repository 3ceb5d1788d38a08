package lines

// Cursor holds the write positions into the geometry buffers. It is the
// only record of how much of each buffer is live.
type Cursor struct {
	Vertex     int // next free slot in the per-vertex line buffers
	Element    int // base vertex copy of the next emitted quad
	Quad       int // quads emitted; the line draw count is Quad*6
	FillVertex int // next free slot in the fill buffers
	FillTri    int // triangles emitted; the fill draw count is FillTri*3
	Dimensions int // 2 or 3
	Max        int // capacity in slots
}

// LineIndexCount returns the number of line element indices to draw.
func (c Cursor) LineIndexCount() int { return c.Quad * 6 }

// FillIndexCount returns the number of fill element indices to draw.
func (c Cursor) FillIndexCount() int { return c.FillTri * 3 }

func (c *Cursor) reset() {
	c.Vertex = 0
	c.Element = 0
	c.Quad = 0
	c.FillVertex = 0
	c.FillTri = 0
}

// watermark records the cursor state at the last upload.
type watermark struct {
	vertex     int
	fillVertex int
}

func (w watermark) dirty(c Cursor) bool {
	return w.vertex != c.Vertex || w.fillVertex != c.FillVertex
}
