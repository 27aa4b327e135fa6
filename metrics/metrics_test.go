package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/xh3b4sd/xgbridge/config"
	"github.com/xh3b4sd/xgbridge/prediction"
)

func TestRegression(t *testing.T) {
	pre := &prediction.Regression{Value: []float64{1.5, 2, 2.5}}

	met, err := Build("Metrics reported on training frame", pre, []float64{1, 2, 3}, nil, config.Gaussian, 0)
	require.NoError(t, err)

	reg := met.(*Regression)
	assert.Equal(t, prediction.KindRegression, reg.Kind())
	assert.Equal(t, "Metrics reported on training frame", reg.Description)
	assert.Equal(t, 3, reg.Rows)
	assert.InDelta(t, 0.5/3, reg.MSE, 1e-12)
	assert.InDelta(t, math.Sqrt(0.5/3), reg.RMSE, 1e-12)
	assert.InDelta(t, 1.0/3, reg.MAE, 1e-12)
	assert.InDelta(t, reg.MSE, reg.MeanResidualDeviance, 1e-12)
	assert.InDelta(t, 0.75, reg.R2, 1e-12)
	assert.False(t, math.IsNaN(reg.RMSLE))
}

func TestRegressionDeviance(t *testing.T) {
	testCases := []struct {
		fam config.Family
		pow float64
		act []float64
		pre []float64
		dev float64
	}{
		{fam: config.Auto, act: []float64{1, 3}, pre: []float64{2, 1}, dev: 2.5},
		{fam: config.Poisson, act: []float64{0, 2}, pre: []float64{1, 2}, dev: 1},
		{fam: config.Gamma, act: []float64{2}, pre: []float64{2}, dev: 0},
		{fam: config.Tweedie, pow: 1.5, act: []float64{2}, pre: []float64{2}, dev: 0},
		{fam: config.Tweedie, pow: 1, act: []float64{0}, pre: []float64{1}, dev: 2},
	}

	for i, tc := range testCases {
		met, err := Build("", &prediction.Regression{Value: tc.pre}, tc.act, nil, tc.fam, tc.pow)
		require.NoError(t, err, "case %d", i)
		assert.InDelta(t, tc.dev, met.(*Regression).MeanResidualDeviance, 1e-9, "case %d", i)
	}
}

func TestRegressionSkipsMissingResponse(t *testing.T) {
	met, err := Build("", &prediction.Regression{Value: []float64{1, 100, -2}}, []float64{1, math.NaN(), 1}, nil, config.Gaussian, 0)
	require.NoError(t, err)

	reg := met.(*Regression)
	assert.Equal(t, 2, reg.Rows)
	assert.InDelta(t, 4.5, reg.MSE, 1e-12)
	assert.True(t, math.IsNaN(reg.RMSLE))
}

func TestBinomial(t *testing.T) {
	pre := &prediction.Binomial{
		Label: []int{0, 0, 0, 1},
		P0:    []float64{0.9, 0.6, 0.65, 0.2},
		P1:    []float64{0.1, 0.4, 0.35, 0.8},
	}

	met, err := Build("", pre, []float64{0, 0, 1, 1}, []string{"no", "yes"}, config.Bernoulli, 0)
	require.NoError(t, err)

	bin := met.(*Binomial)
	assert.Equal(t, 4, bin.Rows)
	assert.InDelta(t, 0.75, bin.AUC, 1e-12)
	assert.InDelta(t, 0.5, bin.Gini, 1e-12)
	assert.InDelta(t, 0.8, bin.MaxF1, 1e-12)
	assert.Equal(t, 0.35, bin.MaxF1Threshold)
	assert.Equal(t, [2][2]int{{2, 0}, {1, 1}}, bin.Confusion)
	assert.Equal(t, []string{"no", "yes"}, bin.Domain)

	los := -(math.Log(0.9) + math.Log(0.6) + math.Log(0.35) + math.Log(0.8)) / 4
	assert.InDelta(t, los, bin.LogLoss, 1e-12)

	mse := (0.01 + 0.16 + 0.4225 + 0.04) / 4
	assert.InDelta(t, mse, bin.MSE, 1e-12)
}

func TestBinomialSingleClass(t *testing.T) {
	pre := &prediction.Binomial{Label: []int{1, 1}, P0: []float64{0.3, 0.4}, P1: []float64{0.7, 0.6}}

	met, err := Build("", pre, []float64{1, 1}, nil, config.Bernoulli, 0)
	require.NoError(t, err)

	bin := met.(*Binomial)
	assert.True(t, math.IsNaN(bin.AUC))
	assert.Equal(t, []string{"0", "1"}, bin.Domain)
	assert.InDelta(t, 1.0, bin.MaxF1, 1e-12)
}

func TestBinomialInvalidLevel(t *testing.T) {
	pre := &prediction.Binomial{Label: []int{1}, P0: []float64{0.3}, P1: []float64{0.7}}

	_, err := Build("", pre, []float64{2}, nil, config.Bernoulli, 0)
	assert.True(t, IsInvalidResponse(err))
}

func TestBinomialDomain(t *testing.T) {
	pre := &prediction.Binomial{Label: []int{1}, P0: []float64{0.3}, P1: []float64{0.7}}

	_, err := Build("", pre, []float64{1}, []string{"a", "b", "c"}, config.Bernoulli, 0)
	assert.True(t, IsInvalidResponse(err))

	_, err = Build("", pre, []float64{1}, []string{"a"}, config.Bernoulli, 0)
	assert.True(t, IsInvalidResponse(err))
}

func multinomialPrediction() *prediction.Multinomial {
	return &prediction.Multinomial{
		Label: []int{0, 1, 2},
		Prob: mat.NewDense(3, 3, []float64{
			0.7, 0.2, 0.1,
			0.1, 0.6, 0.3,
			0.2, 0.3, 0.5,
		}),
	}
}

func TestMultinomial(t *testing.T) {
	met, err := Build("", multinomialPrediction(), []float64{0, 2, 2}, []string{"a", "b", "c"}, config.Multinomial, 0)
	require.NoError(t, err)

	mul := met.(*Multinomial)
	assert.Equal(t, 3, mul.Rows)
	assert.InDelta(t, 1.0/3, mul.Error, 1e-12)
	assert.InDelta(t, 0.25, mul.MeanPerClassError, 1e-12)
	assert.Equal(t, [][]int{{1, 0, 0}, {0, 0, 0}, {0, 1, 1}}, mul.Confusion)
	assert.InDeltaSlice(t, []float64{2.0 / 3, 1, 1}, mul.HitRatios, 1e-12)
	assert.InDelta(t, 0.83/3, mul.MSE, 1e-12)

	los := -(math.Log(0.7) + math.Log(0.3) + math.Log(0.5)) / 3
	assert.InDelta(t, los, mul.LogLoss, 1e-12)
}

func TestMultinomialClosedDomain(t *testing.T) {
	_, err := Build("", multinomialPrediction(), []float64{0, 2, 2}, []string{"a", "b"}, config.Multinomial, 0)
	assert.True(t, IsInvalidResponse(err))

	_, err = Build("", multinomialPrediction(), []float64{0, 2, 2}, nil, config.Multinomial, 0)
	assert.True(t, IsInvalidResponse(err))
}

func TestResponseLength(t *testing.T) {
	_, err := Build("", &prediction.Regression{Value: []float64{1, 2}}, []float64{1}, nil, config.Gaussian, 0)
	assert.True(t, IsInvalidResponse(err))
}

func TestReport(t *testing.T) {
	met, err := Build("valid", &prediction.Regression{Value: []float64{-2}}, []float64{1}, nil, config.Gaussian, 0)
	require.NoError(t, err)

	rep := Report(met)
	assert.Equal(t, prediction.KindRegression, rep["Kind"])
	assert.Equal(t, "valid", rep["Description"])
	assert.Equal(t, 9.0, rep["MSE"])
	assert.Nil(t, rep["RMSLE"])

	_, err = json.Marshal(rep)
	require.NoError(t, err)
}
