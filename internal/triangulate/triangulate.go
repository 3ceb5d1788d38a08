// Package triangulate splits simple polygons into triangles.
//
// Input is a flat x,y coordinate list describing one closed contour without
// holes; output is a list of vertex indices into that list, three per
// triangle. Convex polygons take an O(n) fan path, everything else goes
// through O(n²) ear clipping.
package triangulate

// epsilon is the tolerance for cross product comparisons. Values below it
// are treated as zero (collinear edges).
const epsilon = 1e-10

// Polygon triangulates the contour in coords (x0, y0, x1, y1, ...) and
// appends the triangle indices to dst. Fewer than three points produce no
// triangles. A contour that is not simple still yields len-2 triangles, but
// they may overlap.
func Polygon(dst []uint32, coords []float32) []uint32 {
	n := len(coords) / 2
	if n < 3 {
		return dst
	}
	winding := Winding(coords)
	if winding == 0 {
		return dst
	}
	if isConvex(coords, winding) {
		return fan(dst, n)
	}
	return earClip(dst, coords, winding)
}

// Winding returns +1 for a counter-clockwise contour (in a y-up frame), -1
// for clockwise and 0 when the signed area vanishes.
func Winding(coords []float32) int {
	a := signedArea(coords)
	switch {
	case a > epsilon:
		return 1
	case a < -epsilon:
		return -1
	}
	return 0
}

// Area returns the absolute area enclosed by the contour.
func Area(coords []float32) float64 {
	a := signedArea(coords)
	if a < 0 {
		return -a
	}
	return a
}

func signedArea(coords []float32) float64 {
	n := len(coords) / 2
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		x0, y0 := float64(coords[2*i]), float64(coords[2*i+1])
		x1, y1 := float64(coords[2*j]), float64(coords[2*j+1])
		sum += x0*y1 - x1*y0
	}
	return sum / 2
}

// cross returns the z component of (b-a) x (c-b) for points a, b, c.
func cross(coords []float32, a, b, c uint32) float64 {
	ax, ay := float64(coords[2*a]), float64(coords[2*a+1])
	bx, by := float64(coords[2*b]), float64(coords[2*b+1])
	cx, cy := float64(coords[2*c]), float64(coords[2*c+1])
	return (bx-ax)*(cy-by) - (by-ay)*(cx-bx)
}

// isConvex reports whether every turn agrees with winding. Collinear
// vertices are allowed.
func isConvex(coords []float32, winding int) bool {
	n := uint32(len(coords) / 2)
	for i := uint32(0); i < n; i++ {
		c := cross(coords, i, (i+1)%n, (i+2)%n) * float64(winding)
		if c < -epsilon {
			return false
		}
	}
	return true
}

func fan(dst []uint32, n int) []uint32 {
	for i := 1; i < n-1; i++ {
		dst = append(dst, 0, uint32(i), uint32(i+1))
	}
	return dst
}

// earClip removes one convex, empty ear at a time from a linked ring of
// vertices.
func earClip(dst []uint32, coords []float32, winding int) []uint32 {
	n := len(coords) / 2
	next := make([]uint32, n)
	prev := make([]uint32, n)
	for i := 0; i < n; i++ {
		next[i] = uint32((i + 1) % n)
		prev[i] = uint32((i + n - 1) % n)
	}

	w := float64(winding)
	remaining := n
	cur := uint32(0)
	stalled := 0
	for remaining > 3 {
		p, q := prev[cur], next[cur]
		turn := cross(coords, p, cur, q) * w

		switch {
		case turn > epsilon && !containsAny(coords, next, p, cur, q, w):
			dst = append(dst, p, cur, q)
		case stalled >= remaining && turn <= epsilon && turn >= -epsilon:
			// collinear vertex: drop it without emitting a triangle
		case stalled >= 2*remaining:
			// no ear left (self-intersecting input): force one
			dst = append(dst, p, cur, q)
		default:
			cur = q
			stalled++
			continue
		}

		next[p] = q
		prev[q] = p
		remaining--
		stalled = 0
		cur = q
	}
	return append(dst, prev[cur], cur, next[cur])
}

// containsAny reports whether a vertex of the ring other than the ear's
// corners lies inside or on the triangle (a, b, c).
func containsAny(coords []float32, next []uint32, a, b, c uint32, w float64) bool {
	for v := next[c]; v != a; v = next[v] {
		if samePoint(coords, v, a) || samePoint(coords, v, b) || samePoint(coords, v, c) {
			continue
		}
		if cross(coords, a, b, v)*w >= 0 && cross(coords, b, c, v)*w >= 0 && cross(coords, c, a, v)*w >= 0 {
			return true
		}
	}
	return false
}

func samePoint(coords []float32, i, j uint32) bool {
	return coords[2*i] == coords[2*j] && coords[2*i+1] == coords[2*j+1]
}
