package backend

import (
	"fmt"
	"os"

	"github.com/sbinet/npyio"
	"github.com/xh3b4sd/tracer"
	"gonum.org/v1/gonum/mat"

	"github.com/xh3b4sd/xgbridge/frame"
	"github.com/xh3b4sd/xgbridge/prediction"
)

// ReadRaw reads a prediction matrix of shape rows x classes, or a vector of
// single column predictions, and converts it into column-major layout.
func ReadRaw(pat string) (prediction.Raw, error) {
	fil, err := os.Open(pat)
	if err != nil {
		return nil, tracer.Mask(err)
	}
	defer fil.Close()

	r, err := npyio.NewReader(fil)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	if len(r.Header.Descr.Shape) == 1 {
		var vec []float64

		err := r.Read(&vec)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		return prediction.Raw{vec}, nil
	}

	var den mat.Dense
	{
		err := r.Read(&den)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	return prediction.FromRows(&den), nil
}

// ReadMatrix reads a two dimensional NumPy array.
func ReadMatrix(pat string) (*mat.Dense, error) {
	var den mat.Dense

	err := readNpy(pat, &den)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return &den, nil
}

// ReadVector reads a one dimensional NumPy array.
func ReadVector(pat string) ([]float64, error) {
	var vec []float64

	err := readNpy(pat, &vec)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return vec, nil
}

// WriteFrame persists the columns of fr as NumPy array of shape rows x
// columns, e.g. the output frame of a scoring pass.
func WriteFrame(pat string, fr *frame.Frame) error {
	den := fr.Matrix()
	if den == nil {
		return tracer.Mask(fmt.Errorf("%w: empty frame", executionFailedError))
	}

	err := writeNpy(pat, den)
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}

// writeNpy persists val, a *mat.Dense or a slice, in the NumPy file format.
func writeNpy(pat string, val interface{}) error {
	fil, err := os.Create(pat)
	if err != nil {
		return tracer.Mask(err)
	}

	err = npyio.Write(fil, val)
	if err != nil {
		_ = fil.Close()
		return tracer.Mask(err)
	}

	err = fil.Close()
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}

// readNpy decodes the NumPy file at pat into ptr, e.g. a *mat.Dense.
func readNpy(pat string, ptr interface{}) error {
	fil, err := os.Open(pat)
	if err != nil {
		return tracer.Mask(err)
	}
	defer fil.Close()

	r, err := npyio.NewReader(fil)
	if err != nil {
		return tracer.Mask(err)
	}

	err = r.Read(ptr)
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}
