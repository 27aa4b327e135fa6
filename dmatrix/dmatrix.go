// Package dmatrix holds the encoded matrix exchanged with the backend.
package dmatrix

import "gonum.org/v1/gonum/mat"

// DMatrix is the flat numeric representation of a frame as the backend sees
// it. Labels and Weights are parallel to the rows of Features and may be
// empty. Names, if set, labels the columns of Features.
type DMatrix struct {
	Features *mat.Dense
	Labels   []float64
	Weights  []float64
	Names    []string
}

// Rows returns the number of examples.
func (d *DMatrix) Rows() int {
	if d.Features == nil {
		return len(d.Labels)
	}

	r, _ := d.Features.Dims()
	return r
}

// Cols returns the width of the flat feature vector.
func (d *DMatrix) Cols() int {
	if d.Features == nil {
		return 0
	}

	_, c := d.Features.Dims()
	return c
}

// Uniform reports whether every observation weight equals 1. If not, the
// index of the first offending row is returned. Empty weights are uniform.
func (d *DMatrix) Uniform() (int, bool) {
	return Uniform(d.Weights)
}

// Uniform reports whether every weight equals 1, returning the index of the
// first one that does not.
func Uniform(wei []float64) (int, bool) {
	for i, w := range wei {
		if w != 1.0 {
			return i, false
		}
	}

	return -1, true
}
