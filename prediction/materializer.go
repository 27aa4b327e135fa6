// Package prediction turns the backend's raw column-major output into
// per-row predictions, branching on the output cardinality of the model.
package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xh3b4sd/tracer"
	"gonum.org/v1/gonum/mat"

	"github.com/xh3b4sd/xgbridge/dmatrix"
	"github.com/xh3b4sd/xgbridge/frame"
	"github.com/xh3b4sd/xgbridge/observer"
)

type Materializer struct {
	// Cla is the required output cardinality. 1 means regression, 2 binary
	// classification and anything above multinomial classification.
	Cla int
	// Pri is the optional prior class distribution used to break ties
	// between equally probable classes.
	Pri []float64
	// Thr is the optional binary decision threshold. DefaultThreshold
	// applies when nil. Zero is a valid threshold labelling every row as
	// class 1.
	Thr *float64
	// Siz is the number of rows per partition. frame.DefaultSize applies
	// when zero.
	Siz int
	// Wor is the maximum number of partitions processed concurrently.
	Wor int
	Obs *observer.Observer
}

// Materialize converts raw into a Prediction. wei are the observation
// weights of the scored rows and must all be 1 for regression and binary
// models, otherwise Materialize panics. Cancellation of ctx is observed
// between partitions.
func (m *Materializer) Materialize(ctx context.Context, raw Raw, wei []float64) (Prediction, error) {
	{
		m.configs()
	}

	if m.Cla <= 2 {
		i, ok := dmatrix.Uniform(wei)
		if !ok {
			panic(tracer.Mask(fmt.Errorf("%w: observation weight at row %d is %v, want 1", contractViolationError, i, wei[i])))
		}
	}

	{
		err := raw.Validate()
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	{
		want := m.Cla
		if m.Cla <= 2 {
			want = 1
		}

		if raw.Cols() != want {
			return nil, tracer.Mask(fmt.Errorf("%w: %d columns for cardinality %d", invalidPredictionError, raw.Cols(), m.Cla))
		}
	}

	var pre Prediction
	var err error
	sta := time.Now()

	switch {
	case m.Cla == 1:
		pre, err = m.regression(ctx, raw)
	case m.Cla == 2:
		pre, err = m.binomial(ctx, raw)
	default:
		pre, err = m.multinomial(ctx, raw)
	}

	if err != nil {
		return nil, tracer.Mask(err)
	}

	{
		m.Obs.Since(string(pre.Kind()), sta)
	}

	log.Debug().
		Str("kind", string(pre.Kind())).
		Int("rows", pre.Rows()).
		Dur("took", time.Since(sta)).
		Msg("materialized predictions")

	return pre, nil
}

func (m *Materializer) regression(ctx context.Context, raw Raw) (Prediction, error) {
	val := make([]float64, raw.Rows())

	err := frame.Map(ctx, frame.Chunks(raw.Rows(), m.Siz), m.Wor, func(c frame.Chunk) error {
		copy(val[c.Start:c.End], raw[0][c.Start:c.End])
		return nil
	})
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return &Regression{Value: val}, nil
}

func (m *Materializer) binomial(ctx context.Context, raw Raw) (Prediction, error) {
	p1 := raw[0]
	p0 := make([]float64, raw.Rows())
	lab := make([]int, raw.Rows())
	thr := m.threshold()

	err := frame.Map(ctx, frame.Chunks(raw.Rows(), m.Siz), m.Wor, func(c frame.Chunk) error {
		row := make([]float64, 2)

		for r := c.Start; r < c.End; r++ {
			p0[r] = 1 - p1[r]

			row[0], row[1] = p0[r], p1[r]
			lab[r] = Decide(row, m.Pri, thr)
		}

		return nil
	})
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return &Binomial{Label: lab, P0: p0, P1: append([]float64(nil), p1...)}, nil
}

func (m *Materializer) multinomial(ctx context.Context, raw Raw) (Prediction, error) {
	// The transpose needs the complete matrix and must finish before any
	// partition assigns labels.
	pro := mat.DenseCopyOf(raw.Dense().T())
	lab := make([]int, raw.Rows())

	err := frame.Map(ctx, frame.Chunks(raw.Rows(), m.Siz), m.Wor, func(c frame.Chunk) error {
		for r := c.Start; r < c.End; r++ {
			lab[r] = Decide(pro.RawRowView(r), m.Pri, 0)
		}

		return nil
	})
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return &Multinomial{Label: lab, Prob: pro}, nil
}

func (m *Materializer) threshold() float64 {
	if m.Thr == nil {
		return DefaultThreshold
	}

	return *m.Thr
}

func (m *Materializer) configs() {
	if m.Cla < 1 {
		panic(tracer.Mask(fmt.Errorf("%w: Materializer.Cla must be at least 1", contractViolationError)))
	}
}
