// Package cli implements seoctl, the operator CLI for the SEO score backend.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"example/seo-score-api/app"
	"example/seo-score-api/app/config"
	"example/seo-score-api/app/ledger"
	"example/seo-score-api/app/store"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command for seoctl.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "seoctl",
		Short:         "Operate the SEO score backend",
		Long:          "seoctl runs schema migrations, one-off analyses and manual subscription changes against the configured store.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newSubscriptionCmd())
	root.AddCommand(newVersionCmd(version))

	return root
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the seoctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// loadConfig reads the environment and returns a logger that keeps stdout
// free for command output.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, app.NewLoggerTo(cfg.Logs, cmd.ErrOrStderr()), nil
}

func openLedger(ctx context.Context, cmd *cobra.Command) (*ledger.Ledger, store.Store, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.New(ctx, cfg.DB, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return ledger.New(st, logger), st, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
