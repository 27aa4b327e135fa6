// Package observer exposes Prometheus telemetry for parameter translation
// and scoring. A nil *Observer is valid and records nothing.
package observer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xh3b4sd/tracer"
)

const namespace = "xgbridge"

type Observer struct {
	Translations *prometheus.CounterVec
	Scorings     *prometheus.CounterVec
	UnseenLevels *prometheus.CounterVec
	Materialize  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		Translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Parameter translations by selected objective.",
		}, []string{"objective"}),
		Scorings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scorings_total",
			Help:      "Scoring passes by prediction kind and dataset role.",
		}, []string{"kind", "role"}),
		UnseenLevels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unseen_levels_total",
			Help:      "Categorical levels seen at scoring time but not during training.",
		}, []string{"column"}),
		Materialize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "materialize_seconds",
			Help:      "Time spent turning raw backend output into predictions.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{o.Translations, o.Scorings, o.UnseenLevels, o.Materialize} {
		err := reg.Register(c)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	return o, nil
}

// MustNew is like New but panics on registration errors.
func MustNew(reg prometheus.Registerer) *Observer {
	o, err := New(reg)
	if err != nil {
		panic(err)
	}

	return o
}

func (o *Observer) Translated(obj string) {
	if o == nil {
		return
	}

	o.Translations.WithLabelValues(obj).Inc()
}

func (o *Observer) Scored(kin string, rol string) {
	if o == nil {
		return
	}

	o.Scorings.WithLabelValues(kin, rol).Inc()
}

func (o *Observer) Unseen(col string) {
	if o == nil {
		return
	}

	o.UnseenLevels.WithLabelValues(col).Inc()
}

// Since records the time elapsed since sta for the given prediction kind.
func (o *Observer) Since(kin string, sta time.Time) {
	if o == nil {
		return
	}

	o.Materialize.WithLabelValues(kin).Observe(time.Since(sta).Seconds())
}
