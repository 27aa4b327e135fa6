package prediction

import (
	"fmt"

	"github.com/xh3b4sd/tracer"
	"gonum.org/v1/gonum/mat"
)

// Raw is the backend's raw prediction matrix in column-major layout. Raw[c][r]
// is the value of output column c for row r.
type Raw [][]float64

func (r Raw) Cols() int {
	return len(r)
}

func (r Raw) Rows() int {
	if len(r) == 0 {
		return 0
	}

	return len(r[0])
}

// Validate checks that the matrix has at least one row and column and that
// all columns are equally long.
func (r Raw) Validate() error {
	if r.Cols() == 0 || r.Rows() == 0 {
		return tracer.Mask(fmt.Errorf("%w: empty matrix", invalidPredictionError))
	}

	for c := range r {
		if len(r[c]) != r.Rows() {
			return tracer.Mask(fmt.Errorf("%w: column %d has %d rows, want %d", invalidPredictionError, c, len(r[c]), r.Rows()))
		}
	}

	return nil
}

// Dense returns the matrix as a gonum matrix of shape cols x rows, which is
// the backend layout. The receiver must be valid.
func (r Raw) Dense() *mat.Dense {
	dat := make([]float64, 0, r.Cols()*r.Rows())
	for c := range r {
		dat = append(dat, r[c]...)
	}

	return mat.NewDense(r.Cols(), r.Rows(), dat)
}

// FromRows converts a row-major rows x cols matrix, as written by the backend
// process, into column-major layout.
func FromRows(m mat.Matrix) Raw {
	row, col := m.Dims()

	raw := make(Raw, col)
	for c := range raw {
		raw[c] = make([]float64, row)
		mat.Col(raw[c], c, m)
	}

	return raw
}
