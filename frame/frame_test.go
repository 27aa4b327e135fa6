package frame

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunks(t *testing.T) {
	chu := Chunks(10, 4)
	require.Len(t, chu, 3)
	assert.Equal(t, Chunk{Idx: 0, Start: 0, End: 4}, chu[0])
	assert.Equal(t, Chunk{Idx: 1, Start: 4, End: 8}, chu[1])
	assert.Equal(t, Chunk{Idx: 2, Start: 8, End: 10}, chu[2])
	assert.Equal(t, 2, chu[2].Len())

	assert.Empty(t, Chunks(0, 4))
	assert.Len(t, Chunks(DefaultSize+1, 0), 2)
}

func TestFrame(t *testing.T) {
	fr := New(
		&Vec{Name: "color", Domain: []string{"red", "blue"}, Data: []float64{0, 1, 1}},
		&Vec{Name: "size", Data: []float64{1.5, 2.5, math.NaN()}},
	)
	fr.Size = 2

	assert.Equal(t, 3, fr.Rows())
	assert.Equal(t, []string{"color", "size"}, fr.Names())
	assert.True(t, fr.Vec("color").IsCategorical())
	assert.False(t, fr.Vec("size").IsCategorical())
	assert.Nil(t, fr.Vec("weight"))
	assert.Len(t, fr.Chunks(), 2)
	assert.Equal(t, 0, New().Rows())
}

func TestMatrix(t *testing.T) {
	fr := New(
		&Vec{Name: "predict", Domain: []string{"no", "yes"}, Data: []float64{1, 0}},
		&Vec{Name: "p1", Data: []float64{0.9, 0.2}},
	)

	den := fr.Matrix()
	assert.Equal(t, []float64{1, 0.9}, den.RawRowView(0))
	assert.Equal(t, []float64{0, 0.2}, den.RawRowView(1))

	assert.Nil(t, New().Matrix())
}

func TestSummarize(t *testing.T) {
	sta := Summarize([]float64{3, math.NaN(), -1, 4})
	assert.Equal(t, 3, sta.Rows)
	assert.Equal(t, -1.0, sta.Min)
	assert.Equal(t, 4.0, sta.Max)
	assert.InDelta(t, 2.0, sta.Mean, 1e-12)

	assert.Equal(t, Stats{}, Summarize([]float64{math.NaN()}))
}

func TestMapVisitsEveryChunkOnce(t *testing.T) {
	chu := Chunks(1000, 7)
	out := make([]float64, 1000)

	var mut sync.Mutex
	vis := map[int]int{}

	err := Map(context.Background(), chu, 4, func(c Chunk) error {
		for i := c.Start; i < c.End; i++ {
			out[i] = float64(i) * 2
		}

		mut.Lock()
		vis[c.Idx]++
		mut.Unlock()

		return nil
	})
	require.NoError(t, err)

	assert.Len(t, vis, len(chu))
	for _, n := range vis {
		assert.Equal(t, 1, n)
	}
	for i, v := range out {
		assert.Equal(t, float64(i)*2, v)
	}
}

func TestMapReturnsFirstError(t *testing.T) {
	fai := errors.New("chunk failed")

	err := Map(context.Background(), Chunks(100, 10), 1, func(c Chunk) error {
		if c.Idx == 3 {
			return fai
		}
		return nil
	})
	assert.Error(t, err)
}

func TestMapStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var cnt int64
	err := Map(ctx, Chunks(100, 10), 2, func(c Chunk) error {
		atomic.AddInt64(&cnt, 1)
		return nil
	})
	assert.Error(t, err)
	assert.Equal(t, int64(0), atomic.LoadInt64(&cnt))
}
