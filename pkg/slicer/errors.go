package slicer

import (
	"errors"
	"fmt"
)

// Fatal error taxonomy. The pipeline short-circuits on any of these;
// partial results are never returned.
var (
	// ErrInvalidMesh marks an empty, zero-volume, or non-finite mesh.
	ErrInvalidMesh = errors.New("invalid mesh")

	// ErrEmptyJob marks a job that produced no sliceable layers.
	ErrEmptyJob = errors.New("no layers could be produced")

	// ErrCancelled marks a cooperatively cancelled job.
	ErrCancelled = errors.New("job cancelled")
)

// OutOfVolumeError reports object bounds exceeding the printer bed
// after centering.
type OutOfVolumeError struct {
	Axis   string
	Extent float64
	Limit  float64
}

func (e *OutOfVolumeError) Error() string {
	return fmt.Sprintf("object exceeds build volume: %s extent %.2f mm > %.2f mm",
		e.Axis, e.Extent, e.Limit)
}

// GeometryError reports a non-recoverable offset or boolean failure.
type GeometryError struct {
	Layer int
	Stage string
	Err   error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry failure at layer %d (%s): %v", e.Layer, e.Stage, e.Err)
}

func (e *GeometryError) Unwrap() error {
	return e.Err
}
