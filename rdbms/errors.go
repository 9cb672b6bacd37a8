package rdbms

import (
	"errors"
	"fmt"
)

var (
	// ErrGeneration is returned before any statement is emitted.
	ErrGeneration = errors.New("generation error")
	// ErrAmbiguousRegistry means more than one simple_rasters table is visible.
	ErrAmbiguousRegistry = errors.New("ambiguous simple_rasters error")
	ErrRaster            = errors.New("raster error")
	ErrMBR               = errors.New("mbr error")
)

func errGeneration(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrGeneration, fmt.Sprintf(format, args...))
}
