package model

import (
	"math"

	"github.com/xh3b4sd/xgbridge/config"
	"github.com/xh3b4sd/xgbridge/frame"
	"github.com/xh3b4sd/xgbridge/metrics"
	"github.com/xh3b4sd/xgbridge/varimp"
)

// Output is the stored record of a model.
type Output struct {
	Response string
	Weights  string
	// Domain is the response domain. It is nil for regression.
	Domain []string
	// Classes is the output cardinality, 1 for regression.
	Classes        int
	PriorClassDist []float64
	// Threshold is the binary decision threshold. It starts at
	// prediction.DefaultThreshold and follows the max F1 threshold of the
	// most recent validation or training metrics.
	Threshold     float64
	Ntrees        int
	DescriptorKey string
	Family        config.Family
	TweediePower  float64
	ResponseStats frame.Stats

	TrainingMetrics   metrics.Metrics
	ValidationMetrics metrics.Metrics
	// ScoredTrain and ScoredValid hold one entry per scoring pass.
	ScoredTrain []Scored
	ScoredValid []Scored

	VarImp *varimp.VarImp
}

// Scored are the metrics of one scoring pass at the given number of trees.
type Scored struct {
	Trees   int
	Metrics metrics.Metrics
}

// family returns the distribution family used for regression deviance.
func family(cfg config.Config, cla int) config.Family {
	switch {
	case cla == 2:
		return config.Bernoulli
	case cla > 2:
		return config.Multinomial
	}

	return cfg.Distribution
}

// prior computes the relative class frequencies of a categorical response.
func prior(v *frame.Vec) []float64 {
	cnt := make([]float64, len(v.Domain))

	var tot float64
	for _, x := range v.Data {
		l := int(x)
		if math.IsNaN(x) || l < 0 || l >= len(cnt) {
			continue
		}

		cnt[l]++
		tot++
	}

	if tot == 0 {
		return cnt
	}

	for i := range cnt {
		cnt[i] /= tot
	}

	return cnt
}
