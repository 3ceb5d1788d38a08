package lines

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the builder. Callers match them with errors.Is.
var (
	// ErrCapacityExceeded is returned when a write would pass the end of a
	// geometry buffer. The failing call leaves the builder unchanged.
	ErrCapacityExceeded = errors.New("lines: capacity exceeded")

	// ErrIndexWidth is returned when the requested capacity needs 32-bit
	// element indices but wide indices are disabled.
	ErrIndexWidth = errors.New("lines: capacity requires 32-bit indices")

	// ErrNoActivePath is returned by path operations issued before BeginPath.
	ErrNoActivePath = errors.New("lines: no active path")

	// ErrEmptyPath is returned by LineTo, ClosePath and Stroke when the
	// active path has no starting point.
	ErrEmptyPath = errors.New("lines: path has no points")

	// ErrPathStroked is returned by LineTo and ClosePath on a path whose
	// end has already been written by Stroke.
	ErrPathStroked = errors.New("lines: path already stroked")

	// ErrEmptySaveStack is returned by Restore without a matching Save.
	ErrEmptySaveStack = errors.New("lines: restore without save")

	// ErrInvalidColor is returned for style strings that are not #rrggbb.
	ErrInvalidColor = errors.New("lines: invalid color")

	ErrInvalidCapacity   = errors.New("lines: invalid capacity")
	ErrInvalidDimensions = errors.New("lines: dimensions must be 2 or 3")

	// ErrDestroyed is returned by every operation after Destroy.
	ErrDestroyed = errors.New("lines: builder destroyed")

	// ErrNoDevice is returned by Draw on a builder without a GPU device.
	ErrNoDevice = errors.New("lines: no GPU device attached")
)

// CapacityError reports which buffer ran out of room.
// It matches ErrCapacityExceeded under errors.Is.
type CapacityError struct {
	Resource string // "vertex", "element", "fill vertex" or "fill element"
	Need     int
	Max      int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("lines: capacity exceeded: %s needs %d, max %d", e.Resource, e.Need, e.Max)
}

// Unwrap returns ErrCapacityExceeded.
func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

func checkCapacity(resource string, need, limit int) error {
	if need > limit {
		return &CapacityError{Resource: resource, Need: need, Max: limit}
	}
	return nil
}
