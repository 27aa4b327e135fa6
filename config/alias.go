package config

// Source tells which side of an aliased pair produced the effective value.
type Source int

const (
	Unified Source = iota
	Native
)

func (s Source) String() string {
	if s == Native {
		return "native"
	}

	return "unified"
}

// Alias is one unified/native parameter pair. Key is the canonical backend
// name, Unified and Native are the configuration names. Sen is the sentinel
// of the native field, meaning the native field was never set.
type Alias struct {
	Key     string
	Unified string
	Native  string
	Uni     float64
	Nat     float64
	Sen     float64
}

// Aliases returns every aliased pair of the configuration in canonical
// emission order.
func (c Config) Aliases() []Alias {
	return []Alias{
		{Key: "nround", Unified: "ntrees", Native: "n_estimators", Uni: float64(c.Ntrees), Nat: float64(c.NEstimators)},
		{Key: "eta", Unified: "learn_rate", Native: "eta", Uni: c.LearnRate, Nat: c.Eta},
		{Key: "subsample", Unified: "sample_rate", Native: "subsample", Uni: c.SampleRate, Nat: c.Subsample},
		{Key: "colsample_bytree", Unified: "col_sample_rate_per_tree", Native: "colsample_bytree", Uni: c.ColSampleRatePerTree, Nat: c.ColsampleBytree},
		{Key: "colsample_bylevel", Unified: "col_sample_rate", Native: "colsample_bylevel", Uni: c.ColSampleRate, Nat: c.ColsampleBylevel},
		{Key: "max_delta_step", Unified: "max_abs_leafnode_pred", Native: "max_delta_step", Uni: c.MaxAbsLeafnodePred, Nat: c.MaxDeltaStep},
		{Key: "min_child_weight", Unified: "min_rows", Native: "min_child_weight", Uni: c.MinRows, Nat: c.MinChildWeight},
		{Key: "gamma", Unified: "min_split_improvement", Native: "gamma", Uni: c.MinSplitImprovement, Nat: c.Gamma},
	}
}

// Alias returns the pair emitted under the given canonical key.
func (c Config) Alias(key string) (Alias, bool) {
	for _, a := range c.Aliases() {
		if a.Key == key {
			return a, true
		}
	}

	return Alias{}, false
}

// Resolve applies the precedence law of aliased pairs. The native value wins
// whenever it differs from its sentinel, otherwise the unified value is used.
// Setting both is not an error.
func Resolve(a Alias) (float64, Source) {
	if a.Nat != a.Sen {
		return a.Nat, Native
	}

	return a.Uni, Unified
}
