package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zaidnet/tagihan/internal/app"
	"github.com/zaidnet/tagihan/internal/config"
	"github.com/zaidnet/tagihan/internal/logging"
)

var version = "0.1.0"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "billctl",
		Short: "Manage the ISP billing ledger from the command line",
		Long: `billctl works on the same ledger as the API server.

Configuration is read from the environment (and a .env file), for example
DB_DRIVER, DB_PATH, BILLING_BRAND and GOOGLE_CREDENTIALS_FILE.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newReconcileCmd(),
		newImportCmd(),
		newListCmd(),
		newStatsCmd(),
		newExportCmd(),
		newRemindCmd(),
	)

	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	return cfg, nil
}

func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return app.New(ctx, cfg)
}
