// Package param translates the unified configuration into the canonical
// parameter set of the XGBoost backend.
package param

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/xh3b4sd/tracer"

	"github.com/xh3b4sd/xgbridge/config"
	"github.com/xh3b4sd/xgbridge/frame"
)

const (
	ObjectiveBinary      = "binary:logistic"
	ObjectiveGamma       = "reg:gamma"
	ObjectiveMultinomial = "multi:softprob"
	ObjectivePoisson     = "count:poisson"
	ObjectiveSquared     = "reg:squarederror"
	ObjectiveTweedie     = "reg:tweedie"
)

// UpdaterGPU is the updater selected when the caller signals a GPU.
const UpdaterGPU = "grow_gpu_hist"

// Translate maps the configuration to the canonical backend parameters. cla
// is the response cardinality, 1 for regression, 2 for binary and more for
// multinomial classification. sta describes the response column and is used
// to validate the distribution family. Translate depends on nothing but its
// inputs.
func Translate(cfg config.Config, cla int, sta frame.Stats) (Params, error) {
	var obj Params
	{
		var err error

		obj, err = objective(cfg, cla, sta)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	var par Params

	{
		par.put("nround", int(resolve(cfg, "nround")))
		par.put("eta", resolve(cfg, "eta"))
		par.put("max_depth", cfg.MaxDepth)
		par.put("silent", cfg.QuietMode)
		par.put("subsample", resolve(cfg, "subsample"))
		par.put("colsample_bytree", resolve(cfg, "colsample_bytree"))
		par.put("colsample_bylevel", resolve(cfg, "colsample_bylevel"))
		par.put("max_delta_step", resolve(cfg, "max_delta_step"))
		par.put("seed", Seed(cfg.Seed))
	}

	{
		par.put("tree_method", string(cfg.TreeMethod))
		par.put("grow_policy", string(cfg.GrowPolicy))
	}

	if cfg.GrowPolicy == config.Lossguide {
		par.put("max_bin", cfg.MaxBin)
		par.put("num_leaves", cfg.NumLeaves)
		par.put("min_sum_hessian_in_leaf", cfg.MinSumHessianInLeaf)
		par.put("min_data_in_leaf", cfg.MinDataInLeaf)
	}

	{
		par.put("booster", string(cfg.Booster))
	}

	if cfg.Booster == config.Dart {
		par.put("sample_type", string(cfg.SampleType))
		par.put("normalize_type", string(cfg.NormalizeType))
		par.put("rate_drop", cfg.RateDrop)
		par.put("one_drop", flag(cfg.OneDrop))
		par.put("skip_drop", cfg.SkipDrop)
	}

	if cfg.GPU {
		par.put("updater", UpdaterGPU)
	}

	{
		par.put("min_child_weight", resolve(cfg, "min_child_weight"))
		par.put("gamma", resolve(cfg, "gamma"))
		par.put("lambda", cfg.RegLambda)
		par.put("alpha", cfg.RegAlpha)
	}

	{
		par = append(par, obj...)
	}

	for _, p := range par {
		log.Debug().Str("key", p.Key).Interface("value", p.Val).Msg("xgboost parameter")
	}

	return par, nil
}

// Seed narrows the 64 bit configuration seed into the 32 bit range of the
// backend. Distinct seeds may collide.
func Seed(see int64) int {
	return int(see % math.MaxInt32)
}

func flag(b bool) string {
	if b {
		return "1"
	}

	return "0"
}

func objective(cfg config.Config, cla int, sta frame.Stats) (Params, error) {
	var par Params

	switch {
	case cla == 2:
		par.put("objective", ObjectiveBinary)

	case cla == 1:
		err := validate(cfg, sta)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		switch cfg.Distribution {
		case config.Auto, config.Gaussian:
			par.put("objective", ObjectiveSquared)
		case config.Gamma:
			par.put("objective", ObjectiveGamma)
		case config.Tweedie:
			par.put("objective", ObjectiveTweedie)
			par.put("tweedie_variance_power", cfg.TweediePower)
		case config.Poisson:
			par.put("objective", ObjectivePoisson)
		default:
			return nil, tracer.Mask(fmt.Errorf("%w: no support for distribution=%s", unsupportedConfigurationError, cfg.Distribution))
		}

	case cla > 2:
		par.put("objective", ObjectiveMultinomial)
		par.put("num_class", cla)

	default:
		return nil, tracer.Mask(fmt.Errorf("%w: response cardinality %d", unsupportedConfigurationError, cla))
	}

	return par, nil
}

func resolve(cfg config.Config, key string) float64 {
	a, ok := cfg.Alias(key)
	if !ok {
		panic(fmt.Sprintf("alias %s must exist", key))
	}

	val, src := config.Resolve(a)
	if src == config.Native {
		log.Info().Str("native", a.Native).Str("unified", a.Unified).Msg("using user-provided native parameter instead of unified one")
	}

	return val
}

// validate checks the response statistics against the distribution family.
// Empty statistics are not validated.
func validate(cfg config.Config, sta frame.Stats) error {
	if cfg.Distribution == config.Tweedie && (cfg.TweediePower < 1 || cfg.TweediePower >= 2) {
		return tracer.Mask(fmt.Errorf("%w: tweedie_power=%v must be in [1, 2)", invalidConfigurationError, cfg.TweediePower))
	}

	if sta.Rows == 0 {
		return nil
	}

	switch cfg.Distribution {
	case config.Poisson, config.Tweedie:
		if sta.Min < 0 {
			return tracer.Mask(fmt.Errorf("%w: distribution=%s requires a non-negative response, min=%v", invalidConfigurationError, cfg.Distribution, sta.Min))
		}
	case config.Gamma:
		if sta.Min <= 0 {
			return tracer.Mask(fmt.Errorf("%w: distribution=%s requires a positive response, min=%v", invalidConfigurationError, cfg.Distribution, sta.Min))
		}
	}

	return nil
}
