// Package config provides the unified hyperparameter configuration and its
// TOML representation.
package config

import "math"

// Config is the unified hyperparameter record. Most tree parameters exist
// twice, once under the unified name and once under the name the backend
// uses natively. See Aliases for how the pairs resolve.
type Config struct {
	QuietMode bool `toml:"quiet_mode"`

	Ntrees      int `toml:"ntrees"`
	NEstimators int `toml:"n_estimators"`

	MaxDepth int `toml:"max_depth"`

	MinRows        float64 `toml:"min_rows"`
	MinChildWeight float64 `toml:"min_child_weight"`

	LearnRate float64 `toml:"learn_rate"`
	Eta       float64 `toml:"eta"`

	SampleRate float64 `toml:"sample_rate"`
	Subsample  float64 `toml:"subsample"`

	ColSampleRate    float64 `toml:"col_sample_rate"`
	ColsampleBylevel float64 `toml:"colsample_bylevel"`

	ColSampleRatePerTree float64 `toml:"col_sample_rate_per_tree"`
	ColsampleBytree      float64 `toml:"colsample_bytree"`

	MaxAbsLeafnodePred float64 `toml:"max_abs_leafnode_pred"`
	MaxDeltaStep       float64 `toml:"max_delta_step"`

	MinSplitImprovement float64 `toml:"min_split_improvement"`
	Gamma               float64 `toml:"gamma"`

	// Only used with the lossguide grow policy.
	MaxBin              int     `toml:"max_bin"`
	NumLeaves           int     `toml:"num_leaves"`
	MinSumHessianInLeaf float64 `toml:"min_sum_hessian_in_leaf"`
	MinDataInLeaf       float64 `toml:"min_data_in_leaf"`

	TreeMethod  TreeMethod  `toml:"tree_method"`
	GrowPolicy  GrowPolicy  `toml:"grow_policy"`
	Booster     Booster     `toml:"booster"`
	DMatrixType DMatrixType `toml:"dmatrix_type"`
	RegLambda   float64     `toml:"reg_lambda"`
	RegAlpha    float64     `toml:"reg_alpha"`

	// Only used with the dart booster.
	SampleType    SampleType    `toml:"sample_type"`
	NormalizeType NormalizeType `toml:"normalize_type"`
	RateDrop      float64       `toml:"rate_drop"`
	OneDrop       bool          `toml:"one_drop"`
	SkipDrop      float64       `toml:"skip_drop"`

	Distribution Family  `toml:"distribution"`
	TweediePower float64 `toml:"tweedie_power"`
	Seed         int64   `toml:"seed"`

	// UseAllFactorLevels keeps every categorical level in the one-hot
	// layout instead of dropping the first one.
	UseAllFactorLevels bool `toml:"use_all_factor_levels"`

	// GPU selects the GPU updater. It is never read from the environment by
	// the translator. Callers inject it, usually from GPUAvailable.
	GPU bool `toml:"-"`
}

// Default returns the configuration every unset field falls back to.
func Default() Config {
	return Config{
		QuietMode:            true,
		Ntrees:               50,
		MaxDepth:             5,
		MinRows:              10,
		LearnRate:            0.1,
		SampleRate:           1.0,
		ColSampleRate:        1.0,
		ColSampleRatePerTree: 1.0,
		MaxAbsLeafnodePred:   math.MaxFloat32,
		MaxBin:               255,
		NumLeaves:            255,
		MinSumHessianInLeaf:  100,
		TreeMethod:           TreeMethodAuto,
		GrowPolicy:           Depthwise,
		Booster:              Gbtree,
		DMatrixType:          DMatrixAuto,
		RegLambda:            1,
		SampleType:           Uniform,
		NormalizeType:        NormalizeTree,
		Distribution:         Auto,
		TweediePower:         1.5,
		Seed:                 -1,
	}
}
