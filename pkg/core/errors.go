package core

import "errors"

var (
	// ErrSingularMatrix is returned when a matrix has no inverse
	ErrSingularMatrix = errors.New("matrix is not invertible")

	// ErrDegenerateGeometry is returned when a computation needs a direction
	// but was handed a zero-length vector
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrShape is returned or panicked with when matrix dimensions do not agree
	ErrShape = errors.New("matrix dimension mismatch")
)
