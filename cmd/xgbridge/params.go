package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xh3b4sd/xgbridge/config"
	"github.com/xh3b4sd/xgbridge/frame"
	"github.com/xh3b4sd/xgbridge/param"
)

var (
	paramsConfig   string
	paramsClasses  int
	paramsResponse string
)

func newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the backend parameters for a configuration",
		Args:  cobra.NoArgs,
		RunE:  runParamsCmd,
	}

	cmd.Flags().StringVar(&paramsConfig, "config", "", "path to the TOML model configuration")
	cmd.Flags().IntVar(&paramsClasses, "classes", 1, "response cardinality, 1 for regression")
	cmd.Flags().StringVar(&paramsResponse, "response-stats", "", "response min,max used to validate the distribution")

	return cmd
}

func runParamsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(paramsConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.GPU = config.GPUAvailable()

	var sta frame.Stats
	{
		rng, err := parseFloats(paramsResponse)
		if err != nil {
			return fmt.Errorf("failed to parse response stats: %w", err)
		}

		if len(rng) != 0 {
			sta = frame.Summarize(rng)
		}
	}

	par, err := param.Translate(cfg, paramsClasses, sta)
	if err != nil {
		return fmt.Errorf("failed to translate parameters: %w", err)
	}

	return printJSON(cmd.OutOrStdout(), par)
}
