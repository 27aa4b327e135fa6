package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/xh3b4sd/xgbridge/config"
	"github.com/xh3b4sd/xgbridge/prediction"
)

type Regression struct {
	Summary
	MAE                  float64
	RMSLE                float64
	MeanResidualDeviance float64
	R2                   float64
}

func (m *Regression) Kind() prediction.Kind { return prediction.KindRegression }

func regression(pre *prediction.Regression, act []float64, fam config.Family, pow float64) *Regression {
	var y, f []float64
	for r, a := range act {
		if math.IsNaN(a) {
			continue
		}

		y = append(y, a)
		f = append(f, pre.Value[r])
	}

	m := &Regression{Summary: Summary{Rows: len(y)}}
	if len(y) == 0 {
		m.MSE, m.RMSE, m.MAE, m.RMSLE, m.MeanResidualDeviance, m.R2 = nan(), nan(), nan(), nan(), nan(), nan()
		return m
	}

	var sse, sae, sle, dev float64
	for i := range y {
		e := y[i] - f[i]

		sse += e * e
		sae += math.Abs(e)
		// NaN for values below -1, which then propagates into RMSLE.
		sle += math.Pow(math.Log1p(f[i])-math.Log1p(y[i]), 2)
		dev += deviance(fam, pow, y[i], f[i])
	}

	n := float64(len(y))

	{
		m.MSE = sse / n
		m.RMSE = math.Sqrt(m.MSE)
		m.MAE = sae / n
		m.RMSLE = math.Sqrt(sle / n)
		m.MeanResidualDeviance = dev / n
	}

	{
		_, v := stat.MeanVariance(y, nil)
		v = v * (n - 1) / n

		m.R2 = 1 - m.MSE/v
		if len(y) < 2 || v == 0 {
			m.R2 = nan()
		}
	}

	return m
}

// deviance returns the unit deviance of prediction f for response y.
// Families without a dedicated deviance use the squared error.
func deviance(fam config.Family, pow float64, y float64, f float64) float64 {
	switch fam {
	case config.Poisson:
		return poisson(y, f)
	case config.Gamma:
		return 2 * (-math.Log(y/f) + (y-f)/f)
	case config.Tweedie:
		if pow == 1 {
			return poisson(y, f)
		}

		return 2 * (math.Pow(y, 2-pow)/((1-pow)*(2-pow)) - y*math.Pow(f, 1-pow)/(1-pow) + math.Pow(f, 2-pow)/(2-pow))
	}

	return (y - f) * (y - f)
}

func poisson(y float64, f float64) float64 {
	if y == 0 {
		return 2 * f
	}

	return 2 * (y*math.Log(y/f) - (y - f))
}

func nan() float64 {
	return math.NaN()
}
