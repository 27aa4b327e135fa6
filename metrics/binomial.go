package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/xh3b4sd/tracer"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/xh3b4sd/xgbridge/prediction"
)

// eps bounds probabilities away from 0 and 1 for the log loss.
const eps = 1e-15

// Binomial holds the metrics of a two class model. Confusion is indexed by
// actual then predicted class.
type Binomial struct {
	Summary
	LogLoss        float64
	AUC            float64
	Gini           float64
	MaxF1          float64
	MaxF1Threshold float64
	Confusion      [2][2]int
	Domain         []string
}

func (m *Binomial) Kind() prediction.Kind { return prediction.KindBinomial }

func binomial(pre *prediction.Binomial, act []float64, dom []string) (*Binomial, error) {
	if len(dom) != 2 {
		return nil, tracer.Mask(fmt.Errorf("%w: %d response levels for a binomial prediction", invalidResponseError, len(dom)))
	}

	var y []bool
	var p []float64

	m := &Binomial{Domain: dom}

	var sse, los float64
	for r, a := range act {
		if math.IsNaN(a) {
			continue
		}

		l, err := level(a, 2, r)
		if err != nil {
			return nil, err
		}

		y = append(y, l == 1)
		p = append(p, pre.P1[r])

		{
			e := float64(l) - pre.P1[r]
			sse += e * e
		}

		{
			q := clamp(pre.P1[r])
			if l == 0 {
				q = 1 - q
			}
			los -= math.Log(q)
		}

		m.Confusion[l][pre.Label[r]]++
	}

	m.Rows = len(y)
	if m.Rows == 0 {
		m.MSE, m.RMSE, m.LogLoss, m.AUC, m.Gini, m.MaxF1, m.MaxF1Threshold = nan(), nan(), nan(), nan(), nan(), nan(), nan()
		return m, nil
	}

	n := float64(m.Rows)

	{
		m.MSE = sse / n
		m.RMSE = math.Sqrt(m.MSE)
		m.LogLoss = los / n
	}

	{
		m.AUC = auc(p, y)
		m.Gini = 2*m.AUC - 1
		m.MaxF1, m.MaxF1Threshold = maxF1(p, y)
	}

	return m, nil
}

// auc integrates the ROC curve of the scores p. It is NaN unless both classes
// are present.
func auc(p []float64, y []bool) float64 {
	pos, neg := count(y)
	if pos == 0 || neg == 0 {
		return nan()
	}

	sco := append([]float64(nil), p...)
	cla := append([]bool(nil), y...)
	stat.SortWeightedLabeled(sco, cla, nil)

	tpr, fpr, _ := stat.ROC(nil, sco, cla, nil)

	return integrate.Trapezoidal(fpr, tpr)
}

// maxF1 sweeps all cutoffs from the highest score down, predicting class 1
// for scores at or above the cutoff, and returns the best F1 together with
// its cutoff.
func maxF1(p []float64, y []bool) (float64, float64) {
	pos, _ := count(y)
	if pos == 0 {
		return nan(), nan()
	}

	idx := make([]int, len(p))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return p[idx[i]] > p[idx[j]] })

	var bes, thr float64
	var tp, fp float64
	for i, j := range idx {
		if y[j] {
			tp++
		} else {
			fp++
		}

		if i+1 < len(idx) && p[idx[i+1]] == p[j] {
			continue
		}

		fn := float64(pos) - tp
		f1 := 2 * tp / (2*tp + fp + fn)
		if f1 > bes {
			bes, thr = f1, p[j]
		}
	}

	return bes, thr
}

func count(y []bool) (int, int) {
	var pos, neg int
	for _, v := range y {
		if v {
			pos++
		} else {
			neg++
		}
	}

	return pos, neg
}

func clamp(p float64) float64 {
	return math.Max(eps, math.Min(1-eps, p))
}
