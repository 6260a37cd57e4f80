package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/aidj/backend/internal/config"
	"github.com/ewilliams-labs/aidj/backend/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Error().Err(err).Msg("aidj: command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "aidj",
		Short:         "Adaptive song recommender backed by the Spotify catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default: $CONFIG_PATH or ./config.yaml)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})
		return cfg, nil
	}

	rootCmd.AddCommand(
		newServeCmd(load),
		newSearchCmd(load),
		newRecommendCmd(load),
	)
	return rootCmd
}
