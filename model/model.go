// Package model ties translation, training, scoring and importance together
// into one model record.
package model

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/xh3b4sd/tracer"
	"gonum.org/v1/gonum/mat"

	"github.com/xh3b4sd/xgbridge"
	"github.com/xh3b4sd/xgbridge/config"
	"github.com/xh3b4sd/xgbridge/dmatrix"
	"github.com/xh3b4sd/xgbridge/encoding"
	"github.com/xh3b4sd/xgbridge/frame"
	"github.com/xh3b4sd/xgbridge/handle"
	"github.com/xh3b4sd/xgbridge/metrics"
	"github.com/xh3b4sd/xgbridge/observer"
	"github.com/xh3b4sd/xgbridge/param"
	"github.com/xh3b4sd/xgbridge/prediction"
	"github.com/xh3b4sd/xgbridge/store"
	"github.com/xh3b4sd/xgbridge/varimp"
)

const (
	DescTraining   = "Metrics reported on training frame"
	DescValidation = "Metrics reported on validation frame"
	DescScoring    = "Metrics reported on scoring frame"
)

type Config struct {
	// Bac is the required backend training and scoring boosters.
	Bac xgbridge.Backend
	// Cfg is the unified model configuration.
	Cfg config.Config
	Obs *observer.Observer
	// Res is the required name of the response column.
	Res string
	// Sto is the required store the encoding descriptor gets published to.
	Sto store.Store
	// Wei is the optional name of the observation weights column.
	Wei string
}

type Model struct {
	bac xgbridge.Backend
	cfg config.Config
	obs *observer.Observer
	sto store.Store

	mut sync.RWMutex
	gua *handle.Guard
	out *Output
}

// New derives the output record from the training frame and publishes the
// encoding descriptor of the model.
func New(c Config, trn *frame.Frame) (*Model, error) {
	if c.Bac == nil {
		panic("Config.Bac must not be empty")
	}
	if c.Res == "" {
		panic("Config.Res must not be empty")
	}
	if c.Sto == nil {
		panic("Config.Sto must not be empty")
	}

	res := trn.Vec(c.Res)
	if res == nil {
		return nil, tracer.Mask(fmt.Errorf("%w: %s", missingResponseError, c.Res))
	}

	out := &Output{
		Response:     c.Res,
		Weights:      c.Wei,
		Domain:       res.Domain,
		Classes:      1,
		Threshold:    prediction.DefaultThreshold,
		TweediePower: c.Cfg.TweediePower,
	}

	if res.IsCategorical() {
		out.Classes = len(res.Domain)
		out.PriorClassDist = prior(res)
	} else {
		out.ResponseStats = frame.Summarize(res.Data)
	}

	{
		out.Family = family(c.Cfg, out.Classes)
	}

	des := encoding.Build(trn, c.Res, c.Wei, c.Cfg.UseAllFactorLevels, c.Cfg.DMatrixType == config.DMatrixSparse)

	{
		err := c.Sto.Put(des.Key, des)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	{
		out.DescriptorKey = des.Key
	}

	m := &Model{
		bac: c.Bac,
		cfg: c.Cfg,
		obs: c.Obs,
		sto: c.Sto,
		out: out,
	}

	return m, nil
}

// Output returns a snapshot of the output record.
func (m *Model) Output() Output {
	m.mut.RLock()
	defer m.mut.RUnlock()

	return *m.out
}

// Params translates the model configuration into backend parameters.
func (m *Model) Params() (param.Params, error) {
	m.mut.RLock()
	cla, sta := m.out.Classes, m.out.ResponseStats
	m.mut.RUnlock()

	par, err := param.Translate(m.cfg, cla, sta)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	if obj, ok := par.Get("objective"); ok {
		m.obs.Translated(obj.(string))
	}

	return par, nil
}

// Train fits a booster on trn, scores it on trn and, if given, on val and
// computes the variable importance. A previously trained booster is
// released once it is not in use anymore.
func (m *Model) Train(ctx context.Context, trn *frame.Frame, val *frame.Frame) error {
	par, err := m.Params()
	if err != nil {
		return tracer.Mask(err)
	}

	des, err := m.descriptor()
	if err != nil {
		return tracer.Mask(err)
	}

	han, err := m.bac.Train(ctx, par, des.DMatrix(trn, m.obs))
	if err != nil {
		return tracer.Mask(err)
	}

	var old *handle.Guard
	{
		m.mut.Lock()
		old = m.gua
		m.gua = handle.New(han, func() error { return m.bac.Release(han) })
		if n, ok := par.Get("nround"); ok {
			m.out.Ntrees = n.(int)
		}
		m.mut.Unlock()
	}

	if old != nil {
		err := old.Close()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err := m.DoScoring(ctx, trn, val)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	var sco []varimp.Score
	{
		sco, err = m.bac.Importance(ctx, han)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		m.ComputeVarImp(sco)
	}

	return nil
}

// DoScoring scores the current booster on trn and, if given, on val. The
// resulting metrics replace the current metrics and are appended to the
// scoring history.
func (m *Model) DoScoring(ctx context.Context, trn *frame.Frame, val *frame.Frame) error {
	var tmt, vmt metrics.Metrics
	{
		_, met, err := m.score(ctx, trn, DescTraining, "train")
		if err != nil {
			return tracer.Mask(err)
		}

		tmt = met
	}

	if val != nil {
		_, met, err := m.score(ctx, val, DescValidation, "valid")
		if err != nil {
			return tracer.Mask(err)
		}

		vmt = met
	}

	m.mut.Lock()
	defer m.mut.Unlock()

	if tmt != nil {
		m.out.TrainingMetrics = tmt
		m.out.ScoredTrain = append(m.out.ScoredTrain, Scored{Trees: m.out.Ntrees, Metrics: tmt})
	}

	if vmt != nil {
		m.out.ValidationMetrics = vmt
		m.out.ScoredValid = append(m.out.ScoredValid, Scored{Trees: m.out.Ntrees, Metrics: vmt})
	}

	for _, met := range []metrics.Metrics{vmt, tmt} {
		bin, ok := met.(*metrics.Binomial)
		if ok && !math.IsNaN(bin.MaxF1Threshold) {
			m.out.Threshold = bin.MaxF1Threshold
			break
		}
	}

	return nil
}

// ComputeVarImp replaces the stored variable importance. Empty scores leave
// it untouched.
func (m *Model) ComputeVarImp(sco []varimp.Score) {
	m.mut.Lock()
	defer m.mut.Unlock()

	m.out.VarImp = varimp.Compute(m.out.VarImp, sco)
}

// Score predicts fr with the current booster and returns the output frame.
// Its predict column carries the response domain, followed by one
// probability column per class. Metrics are only computed if fr carries the
// response column, otherwise the returned metrics are nil.
func (m *Model) Score(ctx context.Context, fr *frame.Frame) (*frame.Frame, metrics.Metrics, error) {
	pre, met, err := m.score(ctx, fr, DescScoring, "score")
	if err != nil {
		return nil, nil, tracer.Mask(err)
	}

	m.mut.RLock()
	dom := m.out.Domain
	m.mut.RUnlock()

	return pre.Frame(dom), met, nil
}

// Score0 scores a single row given in descriptor column order, categorical
// values as training level indices. The result is the predicted value of
// regression models, otherwise the predicted label followed by one
// probability per class.
func (m *Model) Score0(ctx context.Context, row []float64) ([]float64, error) {
	m.mut.RLock()
	gua, out := m.gua, *m.out
	m.mut.RUnlock()

	if gua == nil {
		return nil, tracer.Mask(notTrainedError)
	}

	han, don, err := gua.Acquire()
	if err != nil {
		return nil, tracer.Mask(err)
	}
	defer don()

	des, err := m.descriptor()
	if err != nil {
		return nil, tracer.Mask(err)
	}

	{
		col := des.CategoricalCount() + des.NumericCount()
		if len(row) != col || des.Width() == 0 {
			return nil, tracer.Mask(fmt.Errorf("%w: %d values for %d columns", invalidRowError, len(row), col))
		}
	}

	dm := &dmatrix.DMatrix{
		Features: mat.NewDense(1, des.Width(), des.Encode(row)),
		Names:    des.FeatureNames(),
	}

	raw, err := m.bac.Predict(ctx, han, dm)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	pre, err := m.materializer(out, 1).Materialize(ctx, raw, nil)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	var res []float64
	for _, v := range pre.Frame(nil).Vecs {
		res = append(res, v.Data[0])
	}

	return res, nil
}

func (m *Model) score(ctx context.Context, fr *frame.Frame, desc string, rol string) (prediction.Prediction, metrics.Metrics, error) {
	m.mut.RLock()
	gua, out := m.gua, *m.out
	m.mut.RUnlock()

	if gua == nil {
		return nil, nil, tracer.Mask(notTrainedError)
	}

	han, don, err := gua.Acquire()
	if err != nil {
		return nil, nil, tracer.Mask(err)
	}
	defer don()

	des, err := m.descriptor()
	if err != nil {
		return nil, nil, tracer.Mask(err)
	}

	dm := des.DMatrix(fr, m.obs)

	raw, err := m.bac.Predict(ctx, han, dm)
	if err != nil {
		return nil, nil, tracer.Mask(err)
	}

	pre, err := m.materializer(out, fr.Size).Materialize(ctx, raw, dm.Weights)
	if err != nil {
		return nil, nil, tracer.Mask(err)
	}

	if dm.Labels == nil {
		return pre, nil, nil
	}

	met, err := metrics.Build(desc, pre, dm.Labels, out.Domain, out.Family, out.TweediePower)
	if err != nil {
		return nil, nil, tracer.Mask(err)
	}

	{
		m.obs.Scored(string(pre.Kind()), rol)
	}

	return pre, met, nil
}

// Remove releases the booster once all running scoring calls returned and
// deletes the encoding descriptor.
func (m *Model) Remove() error {
	m.mut.RLock()
	gua, key := m.gua, m.out.DescriptorKey
	m.mut.RUnlock()

	if gua != nil {
		err := gua.Close()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err := m.sto.Delete(key)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	log.Debug().Str("descriptor", key).Msg("removed model")

	return nil
}

func (m *Model) materializer(out Output, siz int) *prediction.Materializer {
	return &prediction.Materializer{
		Cla: out.Classes,
		Pri: out.PriorClassDist,
		Thr: &out.Threshold,
		Siz: siz,
		Obs: m.obs,
	}
}

func (m *Model) descriptor() (*encoding.Descriptor, error) {
	m.mut.RLock()
	key := m.out.DescriptorKey
	m.mut.RUnlock()

	var des encoding.Descriptor

	err := m.sto.Get(key, &des)
	if store.IsNotFound(err) {
		return nil, tracer.Mask(fmt.Errorf("%w: %s", missingEncodingDescriptorError, key))
	} else if err != nil {
		return nil, tracer.Mask(err)
	}

	return &des, nil
}
