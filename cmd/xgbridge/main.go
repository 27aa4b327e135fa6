// Package main provides the xgbridge command line interface.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xh3b4sd/xgbridge/backend"
	"github.com/xh3b4sd/xgbridge/frame"
)

var verbose bool

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "xgbridge",
		Short:         "Translate, train and score XGBoost models",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log at debug level")

	rootCmd.AddCommand(newParamsCmd())
	rootCmd.AddCommand(newMetricsCmd())
	rootCmd.AddCommand(newTrainCmd())

	return rootCmd
}

func setupLogging(w io.Writer) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func printJSON(w io.Writer, val interface{}) error {
	byt, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(byt))
	return err
}

// writePredictions writes the output frame to pat and describes the written
// columns.
func writePredictions(pat string, fr *frame.Frame) (map[string]interface{}, error) {
	err := backend.WriteFrame(pat, fr)
	if err != nil {
		return nil, fmt.Errorf("failed to write predictions: %w", err)
	}

	res := map[string]interface{}{
		"path":    pat,
		"rows":    fr.Rows(),
		"columns": fr.Names(),
	}

	if v := fr.Vec("predict"); v != nil && v.Domain != nil {
		res["domain"] = v.Domain
	}

	return res, nil
}

func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var out []float64
	for _, p := range strings.Split(s, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", p, err)
		}
		out = append(out, f)
	}

	return out, nil
}

func parseDomain(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var out []string
	for _, p := range strings.Split(s, ",") {
		out = append(out, strings.TrimSpace(p))
	}

	return out
}
