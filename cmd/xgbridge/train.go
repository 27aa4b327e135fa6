package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/xh3b4sd/xgbridge/backend"
	"github.com/xh3b4sd/xgbridge/config"
	"github.com/xh3b4sd/xgbridge/frame"
	"github.com/xh3b4sd/xgbridge/metrics"
	"github.com/xh3b4sd/xgbridge/model"
	"github.com/xh3b4sd/xgbridge/observer"
	"github.com/xh3b4sd/xgbridge/store"
)

const responseName = "response"

var (
	trainConfig   string
	trainFeatures string
	trainLabel    string
	trainValidX   string
	trainValidY   string
	trainClasses  int
	trainDir      string
	trainPython   string
	trainProm     string
	trainPredOut  string
)

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a booster with the Python backend and print its metrics",
		Args:  cobra.NoArgs,
		RunE:  runTrainCmd,
	}

	cmd.Flags().StringVar(&trainConfig, "config", "", "path to the TOML model configuration")
	cmd.Flags().StringVar(&trainFeatures, "features", "", "training features, .npy of shape rows x columns")
	cmd.Flags().StringVar(&trainLabel, "label", "", "training response, .npy of shape rows")
	cmd.Flags().StringVar(&trainValidX, "valid-features", "", "optional validation features")
	cmd.Flags().StringVar(&trainValidY, "valid-label", "", "optional validation response")
	cmd.Flags().IntVar(&trainClasses, "classes", 1, "response cardinality, 1 for regression")
	cmd.Flags().StringVar(&trainDir, "dir", "", "directory for boosters and the descriptor store")
	cmd.Flags().StringVar(&trainPython, "python", "python3", "Python interpreter with xgboost installed")
	cmd.Flags().StringVar(&trainProm, "prom-file", "", "write collected telemetry in Prometheus text format")
	cmd.Flags().StringVar(&trainPredOut, "pred-out", "", "score the validation frame, or the training frame, and write the output frame as .npy")

	_ = cmd.MarkFlagRequired("features")
	_ = cmd.MarkFlagRequired("label")
	_ = cmd.MarkFlagRequired("dir")

	return cmd
}

func runTrainCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(trainConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.GPU = config.GPUAvailable()

	trn, err := loadFrame(trainFeatures, trainLabel, trainClasses)
	if err != nil {
		return fmt.Errorf("failed to load training data: %w", err)
	}

	var val *frame.Frame
	if trainValidX != "" && trainValidY != "" {
		val, err = loadFrame(trainValidX, trainValidY, trainClasses)
		if err != nil {
			return fmt.Errorf("failed to load validation data: %w", err)
		}
	}

	sto, err := store.OpenSQLite(filepath.Join(trainDir, "store.db"))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if cerr := sto.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close store")
		}
	}()

	reg := prometheus.NewRegistry()

	obs, err := observer.New(reg)
	if err != nil {
		return fmt.Errorf("failed to register telemetry: %w", err)
	}

	mod, err := model.New(model.Config{
		Bac: &backend.Backend{Deb: verbose, Pat: filepath.Join(trainDir, "boosters"), Pyt: trainPython},
		Cfg: cfg,
		Obs: obs,
		Res: responseName,
		Sto: sto,
	}, trn)
	if err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}

	{
		err := mod.Train(cmd.Context(), trn, val)
		if err != nil {
			return fmt.Errorf("failed to train model: %w", err)
		}
	}

	var pre map[string]interface{}
	if trainPredOut != "" {
		sco := trn
		if val != nil {
			sco = val
		}

		fr, _, err := mod.Score(cmd.Context(), sco)
		if err != nil {
			return fmt.Errorf("failed to score model: %w", err)
		}

		pre, err = writePredictions(trainPredOut, fr)
		if err != nil {
			return err
		}
	}

	if trainProm != "" {
		err := prometheus.WriteToTextfile(trainProm, reg)
		if err != nil {
			return fmt.Errorf("failed to write telemetry: %w", err)
		}
	}

	out := mod.Output()

	res := map[string]interface{}{
		"descriptor": out.DescriptorKey,
		"ntrees":     out.Ntrees,
		"threshold":  out.Threshold,
	}

	if out.TrainingMetrics != nil {
		res["training_metrics"] = metrics.Report(out.TrainingMetrics)
	}
	if out.ValidationMetrics != nil {
		res["validation_metrics"] = metrics.Report(out.ValidationMetrics)
	}
	if out.VarImp != nil {
		srt := out.VarImp.Sorted()
		res["variable_importance"] = srt
		res["relative_importance"] = srt.Relative()
		res["percentage_importance"] = srt.Percentage()
	}
	if pre != nil {
		res["predictions"] = pre
	}

	return printJSON(cmd.OutOrStdout(), res)
}

// loadFrame builds a frame from a feature matrix and a response vector.
// Features are named C1, C2 and so on. A classification response gets the
// levels 0 to classes-1 as domain.
func loadFrame(fea string, lab string, cla int) (*frame.Frame, error) {
	den, err := backend.ReadMatrix(fea)
	if err != nil {
		return nil, err
	}

	res, err := backend.ReadVector(lab)
	if err != nil {
		return nil, err
	}

	return newFrame(den, res, cla)
}

func newFrame(den *mat.Dense, res []float64, cla int) (*frame.Frame, error) {
	row, col := den.Dims()
	if row != len(res) {
		return nil, fmt.Errorf("%d feature rows but %d responses", row, len(res))
	}

	fr := frame.New()
	for c := 0; c < col; c++ {
		fr.Vecs = append(fr.Vecs, &frame.Vec{Name: "C" + strconv.Itoa(c+1), Data: mat.Col(nil, c, den)})
	}

	rv := &frame.Vec{Name: responseName, Data: res}
	if cla > 1 {
		rv.Domain = levels(cla)
	}

	fr.Vecs = append(fr.Vecs, rv)

	return fr, nil
}

func levels(cla int) []string {
	dom := make([]string, cla)
	for i := range dom {
		dom[i] = strconv.Itoa(i)
	}

	return dom
}
