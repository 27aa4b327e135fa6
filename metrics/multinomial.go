package metrics

import (
	"fmt"
	"math"

	"github.com/xh3b4sd/tracer"

	"github.com/xh3b4sd/xgbridge/prediction"
)

// maxHitRatios bounds the number of top-k hit ratios reported.
const maxHitRatios = 10

// Multinomial holds the metrics of a model with more than two classes.
// HitRatios[k] is the fraction of rows whose actual class is among the k+1
// most probable classes.
type Multinomial struct {
	Summary
	LogLoss           float64
	Error             float64
	MeanPerClassError float64
	Confusion         [][]int
	HitRatios         []float64
	Domain            []string
}

func (m *Multinomial) Kind() prediction.Kind { return prediction.KindMultinomial }

func multinomial(pre *prediction.Multinomial, act []float64, dom []string) (*Multinomial, error) {
	cla := pre.Classes()

	if len(dom) != cla {
		return nil, tracer.Mask(fmt.Errorf("%w: response domain has %d levels for %d classes", invalidResponseError, len(dom), cla))
	}

	m := &Multinomial{
		Confusion: make([][]int, cla),
		HitRatios: make([]float64, min(cla, maxHitRatios)),
		Domain:    dom,
	}

	for c := range m.Confusion {
		m.Confusion[c] = make([]int, cla)
	}

	var sse, los, mis float64
	for r, a := range act {
		if math.IsNaN(a) {
			continue
		}

		l, err := level(a, cla, r)
		if err != nil {
			return nil, err
		}

		row := pre.Prob.RawRowView(r)

		{
			e := 1 - row[l]
			sse += e * e
			los -= math.Log(clamp(row[l]))
		}

		if pre.Label[r] != l {
			mis++
		}

		m.Confusion[l][pre.Label[r]]++

		// Rank of the actual class among all classes, 0 being the most
		// probable.
		var ran int
		for c := range row {
			if row[c] > row[l] {
				ran++
			}
		}
		for k := ran; k < len(m.HitRatios); k++ {
			m.HitRatios[k]++
		}

		m.Rows++
	}

	if m.Rows == 0 {
		m.MSE, m.RMSE, m.LogLoss, m.Error, m.MeanPerClassError = nan(), nan(), nan(), nan(), nan()
		for k := range m.HitRatios {
			m.HitRatios[k] = nan()
		}
		return m, nil
	}

	n := float64(m.Rows)

	{
		m.MSE = sse / n
		m.RMSE = math.Sqrt(m.MSE)
		m.LogLoss = los / n
		m.Error = mis / n
	}

	for k := range m.HitRatios {
		m.HitRatios[k] /= n
	}

	{
		var sum float64
		var sup int
		for c := range m.Confusion {
			var tot int
			for _, v := range m.Confusion[c] {
				tot += v
			}
			if tot == 0 {
				continue
			}

			sum += 1 - float64(m.Confusion[c][c])/float64(tot)
			sup++
		}

		m.MeanPerClassError = sum / float64(sup)
	}

	return m, nil
}
