package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xh3b4sd/xgbridge/backend"
	"github.com/xh3b4sd/xgbridge/config"
	"github.com/xh3b4sd/xgbridge/metrics"
	"github.com/xh3b4sd/xgbridge/prediction"
)

var (
	metricsPred         string
	metricsLabel        string
	metricsClasses      int
	metricsThreshold    float64
	metricsDomain       string
	metricsDistribution string
	metricsTweedie      float64
	metricsPredOut      string
)

func newMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Materialize raw backend predictions and print their metrics",
		Args:  cobra.NoArgs,
		RunE:  runMetricsCmd,
	}

	cmd.Flags().StringVar(&metricsPred, "pred", "", "raw predictions, .npy of shape rows or rows x classes")
	cmd.Flags().StringVar(&metricsLabel, "label", "", "actual response, .npy of shape rows")
	cmd.Flags().IntVar(&metricsClasses, "classes", 1, "response cardinality, 1 for regression")
	cmd.Flags().Float64Var(&metricsThreshold, "threshold", prediction.DefaultThreshold, "binary decision threshold")
	cmd.Flags().StringVar(&metricsDomain, "domain", "", "comma separated response levels")
	cmd.Flags().StringVar(&metricsDistribution, "distribution", string(config.Auto), "distribution family for regression deviance")
	cmd.Flags().Float64Var(&metricsTweedie, "tweedie-power", 1.5, "tweedie variance power")
	cmd.Flags().StringVar(&metricsPredOut, "pred-out", "", "write the output frame as .npy of shape rows x columns")

	_ = cmd.MarkFlagRequired("pred")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}

func runMetricsCmd(cmd *cobra.Command, _ []string) error {
	raw, err := backend.ReadRaw(metricsPred)
	if err != nil {
		return fmt.Errorf("failed to read predictions: %w", err)
	}

	act, err := backend.ReadVector(metricsLabel)
	if err != nil {
		return fmt.Errorf("failed to read labels: %w", err)
	}

	if metricsClasses < 1 {
		return fmt.Errorf("classes must be at least 1, got %d", metricsClasses)
	}

	mat := &prediction.Materializer{
		Cla: metricsClasses,
		Thr: &metricsThreshold,
	}

	pre, err := mat.Materialize(cmd.Context(), raw, nil)
	if err != nil {
		return fmt.Errorf("failed to materialize predictions: %w", err)
	}

	dom := parseDomain(metricsDomain)
	if dom == nil && metricsClasses > 1 {
		dom = levels(metricsClasses)
	}

	met, err := metrics.Build("Metrics reported on scoring frame", pre, act, dom, config.Family(metricsDistribution), metricsTweedie)
	if err != nil {
		return fmt.Errorf("failed to build metrics: %w", err)
	}

	rep := metrics.Report(met)

	if metricsPredOut != "" {
		out, err := writePredictions(metricsPredOut, pre.Frame(dom))
		if err != nil {
			return err
		}

		rep["Predictions"] = out
	}

	return printJSON(cmd.OutOrStdout(), rep)
}
