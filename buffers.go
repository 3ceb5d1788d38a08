package lines

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/lines/internal/gpu"
)

// maxNarrowIndexBytes is the largest element buffer 16-bit indices may
// address.
const maxNarrowIndexBytes = 65536

// Indices is an element buffer holding either uint16 or uint32 values.
type Indices struct {
	format gputypes.IndexFormat
	u16    []uint16
	u32    []uint32
}

func newIndices(n int, wide bool) Indices {
	if wide {
		return Indices{format: gputypes.IndexFormatUint32, u32: make([]uint32, n)}
	}
	return Indices{format: gputypes.IndexFormatUint16, u16: make([]uint16, n)}
}

// Format returns the GPU index format.
func (ix *Indices) Format() gputypes.IndexFormat { return ix.format }

// Len returns the number of index slots.
func (ix *Indices) Len() int {
	if ix.format == gputypes.IndexFormatUint32 {
		return len(ix.u32)
	}
	return len(ix.u16)
}

// At returns the index stored at i.
func (ix *Indices) At(i int) uint32 {
	if ix.format == gputypes.IndexFormatUint32 {
		return ix.u32[i]
	}
	return uint32(ix.u16[i])
}

func (ix *Indices) set(i int, v uint32) {
	if ix.format == gputypes.IndexFormatUint32 {
		ix.u32[i] = v
		return
	}
	ix.u16[i] = uint16(v)
}

// bytes returns the first n indices as bytes, padded to a 4-byte multiple
// when the buffer has room.
func (ix *Indices) bytes(n int) []byte {
	if n == 0 {
		return nil
	}
	if ix.format == gputypes.IndexFormatUint32 {
		return unsafe.Slice((*byte)(unsafe.Pointer(&ix.u32[0])), n*4) //nolint:gosec // reinterpret for upload
	}
	if n%2 == 1 && n < len(ix.u16) {
		n++
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&ix.u16[0])), n*2) //nolint:gosec // reinterpret for upload
}

func (ix *Indices) byteSize() uint64 {
	if ix.format == gputypes.IndexFormatUint32 {
		return uint64(len(ix.u32)) * 4
	}
	return uint64(len(ix.u16)) * 2
}

// Buffers are the geometry arenas of a builder. Every per-vertex slice is a
// view into one of two contiguous arenas; the views are read-only for
// callers and stay valid until the next Resize.
type Buffers struct {
	dimensions int
	size       int

	lines []float32
	fills []float32

	Position []float32 // size*2*dimensions: two copies per slot
	Offset   []float32 // size*2
	Color    []float32 // size*2*4
	UD       []float32 // size*2*2: (side, cumulative length)

	FillPosition []float32 // size*dimensions
	FillColor    []float32 // size*4

	Elements     Indices // size*4
	FillElements Indices // size*3, rounded up to even
}

// needsWideIndices reports whether a capacity of size slots needs uint32
// element indices.
func needsWideIndices(size int) bool {
	return size*4*2 > maxNarrowIndexBytes
}

// newBuffers allocates zeroed buffers for size slots. wideAvailable says
// whether uint32 indices may be used.
func newBuffers(size, dimensions int, wideAvailable bool) (*Buffers, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, size)
	}
	wide := needsWideIndices(size)
	if wide && !wideAvailable {
		return nil, fmt.Errorf("%w: capacity %d", ErrIndexWidth, size)
	}

	b := &Buffers{dimensions: dimensions, size: size}

	posLen := size * 2 * dimensions
	offLen := size * 2
	colLen := size * 2 * 4
	udLen := size * 2 * 2
	b.lines = make([]float32, posLen+offLen+colLen+udLen)
	at := 0
	b.Position, at = b.lines[at:at+posLen:at+posLen], at+posLen
	b.Offset, at = b.lines[at:at+offLen:at+offLen], at+offLen
	b.Color, at = b.lines[at:at+colLen:at+colLen], at+colLen
	b.UD = b.lines[at : at+udLen : at+udLen]

	fillPosLen := size * dimensions
	fillColLen := size * 4
	b.fills = make([]float32, fillPosLen+fillColLen)
	b.FillPosition = b.fills[:fillPosLen:fillPosLen]
	b.FillColor = b.fills[fillPosLen:]

	fillIdx := size * 3
	if fillIdx%2 == 1 {
		fillIdx++
	}
	b.Elements = newIndices(size*4, wide)
	b.FillElements = newIndices(fillIdx, wide)
	return b, nil
}

// Dimensions returns 2 or 3.
func (b *Buffers) Dimensions() int { return b.dimensions }

// Size returns the capacity in slots.
func (b *Buffers) Size() int { return b.size }

// layout describes the arenas for the GPU renderer.
func (b *Buffers) layout() gpu.Layout {
	const f32 = 4
	pos := uint64(len(b.Position)) * f32
	off := uint64(len(b.Offset)) * f32
	col := uint64(len(b.Color)) * f32
	return gpu.Layout{
		Dimensions:       b.dimensions,
		LinesSize:        uint64(len(b.lines)) * f32,
		Position:         0,
		Offset:           pos,
		Color:            pos + off,
		UD:               pos + off + col,
		FillsSize:        uint64(len(b.fills)) * f32,
		FillPosition:     0,
		FillColor:        uint64(len(b.FillPosition)) * f32,
		ElementsSize:     b.Elements.byteSize(),
		FillElementsSize: b.FillElements.byteSize(),
		IndexFormat:      b.Elements.Format(),
	}
}

// upload collects the live prefix of every region for cursor c.
func (b *Buffers) upload(c Cursor) *gpu.Upload {
	l := b.layout()
	copies := c.Vertex * 2
	return &gpu.Upload{
		Lines: []gpu.Range{
			{Offset: l.Position, Data: floatBytes(b.Position[:copies*b.dimensions])},
			{Offset: l.Offset, Data: floatBytes(b.Offset[:copies])},
			{Offset: l.Color, Data: floatBytes(b.Color[:copies*4])},
			{Offset: l.UD, Data: floatBytes(b.UD[:copies*2])},
		},
		Fills: []gpu.Range{
			{Offset: l.FillPosition, Data: floatBytes(b.FillPosition[:c.FillVertex*b.dimensions])},
			{Offset: l.FillColor, Data: floatBytes(b.FillColor[:c.FillVertex*4])},
		},
		Elements:     b.Elements.bytes(c.LineIndexCount()),
		FillElements: b.FillElements.bytes(c.FillIndexCount()),
	}
}

// floatBytes reinterprets f as its in-memory bytes without copying. GPU
// hosts are little-endian, matching the vertex formats.
func floatBytes(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*4) //nolint:gosec // reinterpret for upload
}
