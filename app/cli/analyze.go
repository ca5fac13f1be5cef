package cli

import (
	"fmt"
	"io"

	"example/seo-score-api/app/analyzer"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Run one analysis and print it without recording usage",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	cmd.Flags().Bool("fetch", true, "include a snapshot of the live page in the prompt")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	provider, err := analyzer.NewProvider(ctx, cfg.Analysis)
	if err != nil {
		return fmt.Errorf("analysis provider: %w", err)
	}
	if closer, ok := provider.(io.Closer); ok {
		defer closer.Close()
	}

	opts := analyzer.Options{Timeout: cfg.Analysis.Timeout, Logger: logger}
	if fetch, _ := cmd.Flags().GetBool("fetch"); fetch {
		opts.Fetcher = analyzer.NewPageFetcher(nil)
	}
	an := analyzer.New(provider, opts)
	logger.Info("analyzing", "url", args[0], "provider", an.ProviderName())

	return printJSON(cmd, an.Analyze(ctx, args[0]))
}
