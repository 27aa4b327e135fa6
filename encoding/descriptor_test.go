package encoding

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xh3b4sd/xgbridge/frame"
	"github.com/xh3b4sd/xgbridge/observer"
	"github.com/xh3b4sd/xgbridge/store"
)

func trainFrame() *frame.Frame {
	return frame.New(
		&frame.Vec{Name: "color", Domain: []string{"red", "green", "blue"}, Data: []float64{0, 1, 2}},
		&frame.Vec{Name: "size", Data: []float64{1.5, 2.5, 3.5}},
		&frame.Vec{Name: "shape", Domain: []string{"round", "square"}, Data: []float64{0, 1, 0}},
		&frame.Vec{Name: "label", Domain: []string{"no", "yes"}, Data: []float64{0, 1, 1}},
		&frame.Vec{Name: "w", Data: []float64{1, 1, 1}},
	)
}

func TestBuildAllLevels(t *testing.T) {
	d := Build(trainFrame(), "label", "w", true, false)

	assert.NotEmpty(t, d.Key)
	assert.Equal(t, []string{"color", "shape", "size"}, d.Names)
	assert.Equal(t, 2, d.CategoricalCount())
	assert.Equal(t, 1, d.NumericCount())
	assert.True(t, d.AllLevelsKept())
	assert.Equal(t, []int{0, 3, 5}, d.CatOffsets)
	assert.Equal(t, 6, d.Width())
	assert.Equal(t, []string{"no", "yes"}, d.ResponseDomain)

	assert.Equal(t, 0, d.OffsetFor(0))
	assert.Equal(t, 3, d.OffsetFor(1))
	assert.Equal(t, 5, d.OffsetFor(2))
	assert.Equal(t, -1, d.OffsetFor(3))
	assert.Equal(t, -1, d.OffsetFor(-1))

	assert.Equal(t, []string{"color.red", "color.green", "color.blue", "shape.round", "shape.square", "size"}, d.FeatureNames())
	assert.Equal(t, []float64{0, 0, 1, 1, 0, 1.5}, d.Encode([]float64{2, 0, 1.5}))
}

func TestBuildDropFirstLevel(t *testing.T) {
	d := Build(trainFrame(), "label", "w", false, false)

	assert.False(t, d.AllLevelsKept())
	assert.Equal(t, []int{0, 2, 3}, d.CatOffsets)
	assert.Equal(t, 4, d.Width())
	assert.Equal(t, 3, d.OffsetFor(2))

	assert.Equal(t, []string{"color.green", "color.blue", "shape.square", "size"}, d.FeatureNames())
	assert.Equal(t, []float64{0, 1, 0, 1.5}, d.Encode([]float64{2, 0, 1.5}))
	assert.Equal(t, []float64{1, 0, 1, 2}, d.Encode([]float64{1, 1, 2}))
}

func TestBuildDistinctKeys(t *testing.T) {
	a := Build(trainFrame(), "label", "w", true, false)
	b := Build(trainFrame(), "label", "w", true, false)
	assert.NotEqual(t, a.Key, b.Key)
}

func TestEncodeMissing(t *testing.T) {
	dense := Build(trainFrame(), "label", "w", true, false)
	row := dense.Encode([]float64{math.NaN(), Unseen, math.NaN()})
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, row[:5])
	assert.True(t, math.IsNaN(row[5]))

	sparse := Build(trainFrame(), "label", "w", true, true)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, sparse.Encode([]float64{math.NaN(), Unseen, math.NaN()}))
}

func TestLevel(t *testing.T) {
	d := Build(trainFrame(), "label", "w", true, false)
	assert.Equal(t, 2, d.Level(0, "blue"))
	assert.Equal(t, Unseen, d.Level(0, "purple"))
	assert.Equal(t, Unseen, d.Level(5, "blue"))
}

func TestDMatrixUnseenLevel(t *testing.T) {
	d := Build(trainFrame(), "label", "w", true, false)
	obs := observer.MustNew(prometheus.NewRegistry())

	test := frame.New(
		&frame.Vec{Name: "size", Data: []float64{4, math.NaN(), 6}},
		&frame.Vec{Name: "color", Domain: []string{"blue", "purple"}, Data: []float64{0, 1, 1}},
		&frame.Vec{Name: "label", Domain: []string{"yes", "no", "maybe"}, Data: []float64{0, 1, 2}},
	)

	dm := d.DMatrix(test, obs)

	require.NotNil(t, dm.Features)
	assert.Equal(t, 3, dm.Rows())
	assert.Equal(t, 6, dm.Cols())
	assert.Len(t, dm.Names, 6)

	assert.Equal(t, []float64{0, 0, 1}, dm.Features.RawRowView(0)[:3])
	assert.Equal(t, []float64{0, 0, 0}, dm.Features.RawRowView(1)[:3])
	assert.Equal(t, []float64{0, 0, 0}, dm.Features.RawRowView(2)[:3])

	// shape is absent from the scoring frame.
	assert.Equal(t, []float64{0, 0}, dm.Features.RawRowView(0)[3:5])

	assert.Equal(t, 4.0, dm.Features.At(0, 5))
	assert.True(t, math.IsNaN(dm.Features.At(1, 5)))

	assert.Equal(t, 1.0, dm.Labels[0])
	assert.Equal(t, 0.0, dm.Labels[1])
	assert.True(t, math.IsNaN(dm.Labels[2]))
	assert.Nil(t, dm.Weights)

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.UnseenLevels.WithLabelValues("color")))
}

func TestDMatrixWeights(t *testing.T) {
	d := Build(trainFrame(), "label", "w", false, false)

	dm := d.DMatrix(trainFrame(), nil)
	assert.Equal(t, []float64{1, 1, 1}, dm.Weights)
	assert.Equal(t, []float64{0, 1, 1}, dm.Labels)

	_, ok := dm.Uniform()
	assert.True(t, ok)
}

func TestPublish(t *testing.T) {
	sto := store.NewMemory()
	d := Build(trainFrame(), "label", "w", true, false)

	require.NoError(t, sto.Put(d.Key, d))

	var got Descriptor
	require.NoError(t, sto.Get(d.Key, &got))
	assert.Equal(t, *d, got)
}
