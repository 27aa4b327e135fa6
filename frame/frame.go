// Package frame provides the columnar data container scored by the bridge
// and the partition-parallel map used to transform it.
package frame

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultSize is the number of rows per chunk when Frame.Size is not set.
const DefaultSize = 1024

// Vec is a named column. A Vec with a non-nil Domain is categorical and its
// values are level indices into Domain. NaN marks a missing value.
type Vec struct {
	Name   string
	Domain []string
	Data   []float64
}

// IsCategorical reports whether the column carries a level domain.
func (v *Vec) IsCategorical() bool {
	return v.Domain != nil
}

// Len returns the number of rows in the column.
func (v *Vec) Len() int {
	return len(v.Data)
}

// Frame is an ordered set of equally long columns.
type Frame struct {
	Vecs []*Vec
	// Size is the number of rows per chunk. DefaultSize applies when zero.
	Size int
}

// New creates a frame from the given columns.
func New(vec ...*Vec) *Frame {
	return &Frame{Vecs: vec}
}

// Rows returns the row count of the frame.
func (f *Frame) Rows() int {
	if len(f.Vecs) == 0 {
		return 0
	}

	return f.Vecs[0].Len()
}

// Vec returns the column with the given name, or nil.
func (f *Frame) Vec(nam string) *Vec {
	for _, v := range f.Vecs {
		if v.Name == nam {
			return v
		}
	}

	return nil
}

// Names returns the column names in frame order.
func (f *Frame) Names() []string {
	var nam []string
	for _, v := range f.Vecs {
		nam = append(nam, v.Name)
	}

	return nam
}

// Matrix lays the frame out row-major, one matrix column per frame column.
// Categorical columns keep their level indices. Empty frames give nil.
func (f *Frame) Matrix() *mat.Dense {
	if f.Rows() == 0 {
		return nil
	}

	den := mat.NewDense(f.Rows(), len(f.Vecs), nil)
	for c, v := range f.Vecs {
		den.SetCol(c, v.Data)
	}

	return den
}

// Chunks partitions the rows of the frame.
func (f *Frame) Chunks() []Chunk {
	siz := f.Size
	if siz <= 0 {
		siz = DefaultSize
	}

	return Chunks(f.Rows(), siz)
}

// Stats summarizes the non-missing values of a column.
type Stats struct {
	Rows int
	Min  float64
	Max  float64
	Mean float64
}

// Summarize computes Stats over the non-NaN values of the given data.
func Summarize(dat []float64) Stats {
	var val []float64
	for _, v := range dat {
		if !math.IsNaN(v) {
			val = append(val, v)
		}
	}

	if len(val) == 0 {
		return Stats{}
	}

	sta := Stats{
		Rows: len(val),
		Min:  floats.Min(val),
		Max:  floats.Max(val),
		Mean: stat.Mean(val, nil),
	}

	return sta
}
