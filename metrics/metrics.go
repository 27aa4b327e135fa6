// Package metrics computes model quality metrics from materialized
// predictions and the actual response.
package metrics

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/xh3b4sd/tracer"

	"github.com/xh3b4sd/xgbridge/config"
	"github.com/xh3b4sd/xgbridge/prediction"
)

// Metrics is one of Regression, Binomial or Multinomial.
type Metrics interface {
	Kind() prediction.Kind
	Common() *Summary
}

// Summary is carried by every metrics aggregate. Rows counts the rows with a
// non-missing response.
type Summary struct {
	Description string
	Rows        int
	MSE         float64
	RMSE        float64
}

func (s *Summary) Common() *Summary {
	return s
}

// Build computes the metrics matching the kind of pre. act holds the actual
// response per row, as level indices for classification. dom is the response
// domain. fam and pow select the deviance of regression models. Rows with a
// missing response are skipped.
func Build(desc string, pre prediction.Prediction, act []float64, dom []string, fam config.Family, pow float64) (Metrics, error) {
	if len(act) != pre.Rows() {
		return nil, tracer.Mask(fmt.Errorf("%w: %d responses for %d predictions", invalidResponseError, len(act), pre.Rows()))
	}

	var met Metrics
	var err error

	switch p := pre.(type) {
	case *prediction.Regression:
		met = regression(p, act, fam, pow)
	case *prediction.Binomial:
		met, err = binomial(p, act, domain(dom, 2))
	case *prediction.Multinomial:
		met, err = multinomial(p, act, dom)
	default:
		return nil, tracer.Mask(fmt.Errorf("%w: unknown prediction %T", invalidResponseError, pre))
	}

	if err != nil {
		return nil, tracer.Mask(err)
	}

	met.Common().Description = desc

	return met, nil
}

func domain(dom []string, cla int) []string {
	if dom != nil {
		return dom
	}

	dom = make([]string, cla)
	for i := range dom {
		dom[i] = strconv.Itoa(i)
	}

	return dom
}

// level validates a classification response value.
func level(v float64, cla int, r int) (int, error) {
	l := int(v)
	if float64(l) != v || l < 0 || l >= cla {
		return 0, tracer.Mask(fmt.Errorf("%w: response %v at row %d is not a level in [0, %d)", invalidResponseError, v, r, cla))
	}

	return l, nil
}

// Report flattens the given metrics into a JSON friendly map. Non finite
// values, which JSON cannot represent, become nil.
func Report(met Metrics) map[string]interface{} {
	out := map[string]interface{}{
		"Kind": met.Kind(),
	}

	report(reflect.ValueOf(met).Elem(), out)

	return out
}

func report(val reflect.Value, out map[string]interface{}) {
	for i := 0; i < val.NumField(); i++ {
		fie := val.Type().Field(i)
		v := val.Field(i)

		if fie.Anonymous && v.Kind() == reflect.Struct {
			report(v, out)
			continue
		}

		switch v.Kind() {
		case reflect.Float64:
			out[fie.Name] = finite(v.Float())
		case reflect.Slice:
			if v.Type().Elem().Kind() != reflect.Float64 {
				out[fie.Name] = v.Interface()
				continue
			}

			lis := make([]interface{}, v.Len())
			for j := range lis {
				lis[j] = finite(v.Index(j).Float())
			}
			out[fie.Name] = lis
		default:
			out[fie.Name] = v.Interface()
		}
	}
}

func finite(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	return f
}
