package core

import (
	"fmt"
	"math"
	"strings"
)

// InversionEpsilon is the smallest pivot magnitude accepted by Inverse
const InversionEpsilon = 1e-5

// Matrix is a dense real matrix stored row-major. The zero value is an
// empty 0x0 matrix. Matrices are values: every operation returns a new one.
type Matrix struct {
	rows, cols int
	values     []float64
}

// NewMatrix creates a matrix from a slice of equal-length rows
func NewMatrix(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, nil
	}
	cols := len(rows[0])
	m := Matrix{rows: len(rows), cols: cols, values: make([]float64, 0, len(rows)*cols)}
	for i, row := range rows {
		if len(row) != cols {
			return Matrix{}, fmt.Errorf("row %d has %d columns, expected %d: %w", i, len(row), cols, ErrShape)
		}
		m.values = append(m.values, row...)
	}
	return m, nil
}

// MustMatrix is NewMatrix for literal input known to be rectangular
func MustMatrix(rows [][]float64) Matrix {
	m, err := NewMatrix(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// Zeros returns a rows x cols matrix of zeros
func Zeros(rows, cols int) Matrix {
	return Matrix{rows: rows, cols: cols, values: make([]float64, rows*cols)}
}

// Identity returns the n x n identity matrix
func Identity(n int) Matrix {
	m := Zeros(n, n)
	for i := 0; i < n; i++ {
		m.values[i*n+i] = 1
	}
	return m
}

// Rows returns the number of rows
func (m Matrix) Rows() int { return m.rows }

// Cols returns the number of columns
func (m Matrix) Cols() int { return m.cols }

// At returns the entry at row i, column j
func (m Matrix) At(i, j int) float64 {
	return m.values[i*m.cols+j]
}

func (m Matrix) set(i, j int, v float64) {
	m.values[i*m.cols+j] = v
}

func (m Matrix) clone() Matrix {
	values := make([]float64, len(m.values))
	copy(values, m.values)
	return Matrix{rows: m.rows, cols: m.cols, values: values}
}

// Times returns m·other. It panics with ErrShape if m.Cols() != other.Rows().
func (m Matrix) Times(other Matrix) Matrix {
	if m.cols != other.rows {
		panic(fmt.Errorf("%dx%d times %dx%d: %w", m.rows, m.cols, other.rows, other.cols, ErrShape))
	}
	result := Zeros(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < other.cols; j++ {
			sum := 0.0
			for k := 0; k < m.cols; k++ {
				sum += m.At(i, k) * other.At(k, j)
			}
			result.set(i, j, sum)
		}
	}
	return result
}

// Inverse returns the inverse of a square matrix using Gauss-Jordan
// elimination with partial pivoting. It returns ErrSingularMatrix when no
// pivot of magnitude at least InversionEpsilon can be found for a column.
func (m Matrix) Inverse() (Matrix, error) {
	if m.rows != m.cols {
		return Matrix{}, fmt.Errorf("inverse of %dx%d matrix: %w", m.rows, m.cols, ErrShape)
	}
	n := m.rows
	working := m.clone()
	inverse := Identity(n)

	for p := 0; p < n; p++ {
		// Pick the largest remaining entry in column p as the pivot
		pivotRow := p
		for r := p + 1; r < n; r++ {
			if math.Abs(working.At(r, p)) > math.Abs(working.At(pivotRow, p)) {
				pivotRow = r
			}
		}
		if math.Abs(working.At(pivotRow, p)) < InversionEpsilon {
			return Matrix{}, ErrSingularMatrix
		}
		if pivotRow != p {
			working.swapRows(p, pivotRow)
			inverse.swapRows(p, pivotRow)
		}

		pivot := working.At(p, p)
		for c := 0; c < n; c++ {
			working.set(p, c, working.At(p, c)/pivot)
			inverse.set(p, c, inverse.At(p, c)/pivot)
		}

		for r := 0; r < n; r++ {
			if r == p {
				continue
			}
			factor := working.At(r, p)
			if factor == 0 {
				continue
			}
			for c := 0; c < n; c++ {
				working.set(r, c, working.At(r, c)-factor*working.At(p, c))
				inverse.set(r, c, inverse.At(r, c)-factor*inverse.At(p, c))
			}
		}
	}

	return inverse, nil
}

func (m Matrix) swapRows(a, b int) {
	ra := m.values[a*m.cols : (a+1)*m.cols]
	rb := m.values[b*m.cols : (b+1)*m.cols]
	for i := range ra {
		ra[i], rb[i] = rb[i], ra[i]
	}
}

// NearlyEqual reports whether both matrices have the same shape and every
// entry differs by at most tolerance
func (m Matrix) NearlyEqual(other Matrix, tolerance float64) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i, v := range m.values {
		if math.Abs(v-other.values[i]) > tolerance {
			return false
		}
	}
	return true
}

// String formats the matrix one row per line
func (m Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		fmt.Fprintln(&sb, m.values[i*m.cols:(i+1)*m.cols])
	}
	return sb.String()
}
