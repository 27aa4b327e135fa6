// Package encoding describes how the columns of a frame map onto the flat
// numeric feature vector of the backend.
package encoding

import (
	"math"

	"github.com/google/uuid"

	"github.com/xh3b4sd/xgbridge/frame"
)

// Unseen is the level code of a categorical value that did not occur in the
// training domain.
const Unseen = -1

// Descriptor is the categorical encoding descriptor. It is built once from
// the training frame and never modified afterwards. Categorical columns come
// first, numeric columns follow, both in training frame order.
//
//     flat vector
//     ├── cat 0 one-hot block   [CatOffsets[0], CatOffsets[1])
//     ├── cat 1 one-hot block   [CatOffsets[1], CatOffsets[2])
//     ├── ...
//     └── numeric columns       [CatOffsets[Cats], CatOffsets[Cats]+Nums)
//
type Descriptor struct {
	// Key is the identity under which the descriptor is published.
	Key   string
	Names []string
	// Domains holds the training levels per categorical column.
	Domains    [][]string
	Nums       int
	Cats       int
	CatOffsets []int
	// UseAllFactorLevels keeps level 0 of every categorical column. If false
	// level 0 is the reference level and encodes as an all zero block.
	UseAllFactorLevels bool
	// Sparse encodes missing numeric values as 0 instead of NaN.
	Sparse bool

	Response       string
	ResponseDomain []string
	Weights        string
}

// Build derives a descriptor from the training frame. The response and
// weights columns are not features.
func Build(fr *frame.Frame, res string, wei string, all bool, spa bool) *Descriptor {
	d := &Descriptor{
		Key:                uuid.New().String(),
		UseAllFactorLevels: all,
		Sparse:             spa,
		Response:           res,
		Weights:            wei,
	}

	if v := fr.Vec(res); v != nil {
		d.ResponseDomain = v.Domain
	}

	var num []string
	{
		off := 0
		for _, v := range fr.Vecs {
			if v.Name == res || v.Name == wei {
				continue
			}

			if !v.IsCategorical() {
				num = append(num, v.Name)
				continue
			}

			d.Names = append(d.Names, v.Name)
			d.Domains = append(d.Domains, v.Domain)
			d.CatOffsets = append(d.CatOffsets, off)
			off += blockWidth(len(v.Domain), all)
		}

		d.CatOffsets = append(d.CatOffsets, off)
	}

	{
		d.Cats = len(d.Domains)
		d.Nums = len(num)
		d.Names = append(d.Names, num...)
	}

	return d
}

func blockWidth(lev int, all bool) int {
	if all || lev == 0 {
		return lev
	}

	return lev - 1
}

// OffsetFor returns the position of the given descriptor column in the flat
// feature vector. For categorical columns this is the start of the one-hot
// block. Out of range columns return -1.
func (d *Descriptor) OffsetFor(col int) int {
	switch {
	case col < 0:
		return -1
	case col < d.Cats:
		return d.CatOffsets[col]
	case col < d.Cats+d.Nums:
		return d.CatOffsets[d.Cats] + col - d.Cats
	}

	return -1
}

func (d *Descriptor) AllLevelsKept() bool {
	return d.UseAllFactorLevels
}

func (d *Descriptor) NumericCount() int {
	return d.Nums
}

func (d *Descriptor) CategoricalCount() int {
	return d.Cats
}

// Width is the length of the flat feature vector.
func (d *Descriptor) Width() int {
	return d.CatOffsets[d.Cats] + d.Nums
}

// FeatureNames names every position of the flat feature vector. One-hot
// positions are named column.level.
func (d *Descriptor) FeatureNames() []string {
	nam := make([]string, 0, d.Width())

	for i := 0; i < d.Cats; i++ {
		lev := d.Domains[i]
		if !d.UseAllFactorLevels && len(lev) != 0 {
			lev = lev[1:]
		}

		for _, l := range lev {
			nam = append(nam, d.Names[i]+"."+l)
		}
	}

	return append(nam, d.Names[d.Cats:]...)
}

// Level maps a level name of categorical column col to its training index.
// Names absent from the training domain map to Unseen.
func (d *Descriptor) Level(col int, nam string) int {
	if col < 0 || col >= d.Cats {
		return Unseen
	}

	for i, l := range d.Domains[col] {
		if l == nam {
			return i
		}
	}

	return Unseen
}

// Encode flattens one row given in descriptor column order. Categorical
// values are training level indices. Missing or unseen levels leave their
// block zero. Missing numeric values stay NaN unless the layout is sparse.
func (d *Descriptor) Encode(row []float64) []float64 {
	out := make([]float64, d.Width())
	d.encode(row, out)
	return out
}

func (d *Descriptor) encode(row []float64, out []float64) {
	for i := 0; i < d.Cats; i++ {
		v := row[i]
		if math.IsNaN(v) {
			continue
		}

		l := int(v)
		if l < 0 || l >= len(d.Domains[i]) {
			continue
		}

		if !d.UseAllFactorLevels {
			if l == 0 {
				continue
			}
			l--
		}

		out[d.CatOffsets[i]+l] = 1
	}

	for j := 0; j < d.Nums; j++ {
		v := row[d.Cats+j]
		if math.IsNaN(v) && d.Sparse {
			v = 0
		}

		out[d.CatOffsets[d.Cats]+j] = v
	}
}
