package prediction

import (
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/xh3b4sd/xgbridge/frame"
)

type Kind string

const (
	KindRegression  Kind = "regression"
	KindBinomial    Kind = "binomial"
	KindMultinomial Kind = "multinomial"
)

// Prediction is the materialized output of one scoring pass. It is one of
// Regression, Binomial or Multinomial.
type Prediction interface {
	Kind() Kind
	Rows() int
	// Frame renders the prediction as output frame. The first column is
	// named predict. Class probability columns follow, named after the
	// response domain if it matches the class count.
	Frame(dom []string) *frame.Frame
}

type Regression struct {
	Value []float64
}

func (p *Regression) Kind() Kind { return KindRegression }

func (p *Regression) Rows() int { return len(p.Value) }

func (p *Regression) Frame(_ []string) *frame.Frame {
	return frame.New(&frame.Vec{Name: "predict", Data: p.Value})
}

type Binomial struct {
	Label []int
	P0    []float64
	P1    []float64
}

func (p *Binomial) Kind() Kind { return KindBinomial }

func (p *Binomial) Rows() int { return len(p.Label) }

func (p *Binomial) Frame(dom []string) *frame.Frame {
	nam := columns(dom, 2)

	return frame.New(
		&frame.Vec{Name: "predict", Domain: nam, Data: labels(p.Label)},
		&frame.Vec{Name: nam[0], Data: p.P0},
		&frame.Vec{Name: nam[1], Data: p.P1},
	)
}

// Multinomial holds one row of class probabilities per example. Prob has
// shape rows x classes.
type Multinomial struct {
	Label []int
	Prob  *mat.Dense
}

func (p *Multinomial) Kind() Kind { return KindMultinomial }

func (p *Multinomial) Rows() int { return len(p.Label) }

// Classes returns the number of class probability columns.
func (p *Multinomial) Classes() int {
	_, c := p.Prob.Dims()
	return c
}

func (p *Multinomial) Frame(dom []string) *frame.Frame {
	nam := columns(dom, p.Classes())

	fr := frame.New(&frame.Vec{Name: "predict", Domain: nam, Data: labels(p.Label)})
	for c := range nam {
		fr.Vecs = append(fr.Vecs, &frame.Vec{Name: nam[c], Data: mat.Col(nil, c, p.Prob)})
	}

	return fr
}

func columns(dom []string, cla int) []string {
	if len(dom) == cla {
		return dom
	}

	nam := make([]string, cla)
	for c := range nam {
		nam[c] = "p" + strconv.Itoa(c)
	}

	return nam
}

func labels(lab []int) []float64 {
	out := make([]float64, len(lab))
	for i, l := range lab {
		out[i] = float64(l)
	}

	return out
}
