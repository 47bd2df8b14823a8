package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/proteinfinder/backend/config"
	"github.com/proteinfinder/backend/internal/infrastructure/logging"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "proteinrank",
	Short: "Rank protein powders from Japanese marketplaces",
	Long:  "Normalizes, filters, dedupes and scores protein powder listings against diagnosis answers, live or from saved listing dumps.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadOffline()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			return eris.Wrap(err, "init logger")
		}
		zap.ReplaceGlobals(logger)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
