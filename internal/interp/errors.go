package interp

import "errors"

var (
	// ErrEmptyDataset is returned when no usable samples are available.
	ErrEmptyDataset = errors.New("interp: empty dataset")

	// ErrInvalidGeometry is returned for non-positive viewport or cell-size
	// inputs, or a padding that consumes the whole viewport.
	ErrInvalidGeometry = errors.New("interp: invalid geometry")
)
