package encoding

import (
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"github.com/xh3b4sd/xgbridge/dmatrix"
	"github.com/xh3b4sd/xgbridge/frame"
	"github.com/xh3b4sd/xgbridge/observer"
)

// DMatrix encodes the given frame into the backend matrix. Columns are
// matched by name and categorical levels by level name, so the frame may
// order its columns and domains differently than the training frame did.
// Feature columns absent from the frame are all missing. Levels unknown to
// the training domain degrade to Unseen and are reported once per column and
// level.
func (d *Descriptor) DMatrix(fr *frame.Frame, obs *observer.Observer) *dmatrix.DMatrix {
	row := fr.Rows()

	var col [][]float64
	for i, nam := range d.Names {
		v := fr.Vec(nam)

		switch {
		case v == nil:
			col = append(col, missing(row))
		case i < d.Cats && v.IsCategorical():
			col = append(col, d.levels(i, v, obs))
		default:
			col = append(col, v.Data)
		}
	}

	dm := &dmatrix.DMatrix{
		Names: d.FeatureNames(),
	}

	if row != 0 && d.Width() != 0 {
		dat := make([]float64, row*d.Width())
		buf := make([]float64, len(d.Names))

		for r := 0; r < row; r++ {
			for c := range col {
				buf[c] = col[c][r]
			}

			d.encode(buf, dat[r*d.Width():(r+1)*d.Width()])
		}

		dm.Features = mat.NewDense(row, d.Width(), dat)
	}

	if v := fr.Vec(d.Response); v != nil {
		dm.Labels = d.labels(v)
	}

	if v := fr.Vec(d.Weights); v != nil && d.Weights != "" {
		dm.Weights = v.Data
	}

	return dm
}

// levels translates the level indices of v into training level indices.
func (d *Descriptor) levels(col int, v *frame.Vec, obs *observer.Observer) []float64 {
	lev := make([]int, len(v.Domain))
	for i, nam := range v.Domain {
		lev[i] = d.Level(col, nam)
	}

	war := map[int]bool{}
	out := make([]float64, v.Len())

	for r, x := range v.Data {
		if math.IsNaN(x) || int(x) < 0 || int(x) >= len(lev) {
			out[r] = math.NaN()
			continue
		}

		l := lev[int(x)]
		if l == Unseen && !war[int(x)] {
			war[int(x)] = true

			log.Warn().
				Str("column", v.Name).
				Str("level", v.Domain[int(x)]).
				Msg("unseen categorical level, encoding as missing")

			obs.Unseen(v.Name)
		}

		out[r] = float64(l)
	}

	return out
}

// labels maps a categorical response onto the training response domain.
// Numeric responses pass through.
func (d *Descriptor) labels(v *frame.Vec) []float64 {
	if !v.IsCategorical() || d.ResponseDomain == nil {
		return v.Data
	}

	lev := make([]float64, len(v.Domain))
	for i, nam := range v.Domain {
		lev[i] = math.NaN()
		for j, l := range d.ResponseDomain {
			if l == nam {
				lev[i] = float64(j)
				break
			}
		}
	}

	out := make([]float64, v.Len())
	for r, x := range v.Data {
		if math.IsNaN(x) || int(x) < 0 || int(x) >= len(lev) {
			out[r] = math.NaN()
			continue
		}

		out[r] = lev[int(x)]
	}

	return out
}

func missing(row int) []float64 {
	out := make([]float64, row)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}
