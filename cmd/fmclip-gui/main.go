package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/common"
	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/gui"
)

func main() {
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:          "fmclip-gui",
		Short:        "Open the fmclip window",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger, err := common.NewLogger(cfg, common.LoggerOptions{Verbose: verbose})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			logger.Debug("Starting GUI", zap.String("config", cfg.Path))
			return gui.Run(cfg, logger)
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is <user config dir>/fmclip/config.yaml)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
