// Package analyzer turns a URL into an SEO assessment using an LLM provider.
package analyzer

import (
	"context"
	"log/slog"
	"time"

	"example/seo-score-api/app/models"
)

const defaultTimeout = 60 * time.Second

// Provider sends one system and user prompt pair to a model and returns its text.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type Options struct {
	// Fetcher adds on-page observations to the prompt. Nil disables fetching.
	Fetcher *PageFetcher
	Timeout time.Duration
	Logger  *slog.Logger
}

type Analyzer struct {
	provider Provider
	fetcher  *PageFetcher
	timeout  time.Duration
	logger   *slog.Logger
}

// New returns an Analyzer. A nil provider serves the sample analysis.
func New(provider Provider, opts Options) *Analyzer {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Analyzer{
		provider: provider,
		fetcher:  opts.Fetcher,
		timeout:  opts.Timeout,
		logger:   opts.Logger.With("component", "analyzer"),
	}
}

// ProviderName reports the configured provider, or "not configured".
func (a *Analyzer) ProviderName() string {
	if a.provider == nil {
		return "not configured"
	}
	return a.provider.Name()
}

func (a *Analyzer) Configured() bool {
	return a.provider != nil
}

// Analyze never fails: provider and parse errors produce the degraded result.
func (a *Analyzer) Analyze(ctx context.Context, pageURL string) models.Analysis {
	if a.provider == nil {
		return SampleAnalysis()
	}

	var snap *PageSnapshot
	if a.fetcher != nil {
		s, err := a.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			a.logger.Debug("page snapshot unavailable", "url", pageURL, "err", err)
		} else {
			snap = s
		}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	out, err := a.provider.Complete(ctx, systemPrompt, buildPrompt(pageURL, snap))
	if err != nil {
		a.logger.Warn("analysis provider failed", "provider", a.provider.Name(), "url", pageURL, "err", err)
		return DegradedAnalysis(err)
	}

	analysis, err := parseAnalysis(out)
	if err != nil {
		a.logger.Warn("analysis response unusable", "provider", a.provider.Name(), "url", pageURL, "err", err)
		return DegradedAnalysis(err)
	}

	a.logger.Info("analysis complete", "provider", a.provider.Name(), "url", pageURL,
		"score", analysis.Score, "took", time.Since(start))
	return analysis
}
