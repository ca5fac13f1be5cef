package analyzer

import (
	"context"
	"fmt"

	"example/seo-score-api/app/config"
)

// NewProvider builds the configured provider. It returns nil, nil when no
// provider is configured.
func NewProvider(ctx context.Context, cfg config.AnalysisConfig) (Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case config.ProviderOpenAI:
		p, err := NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderVertex:
		p, err := NewVertexProvider(ctx, cfg.VertexProject, cfg.VertexLocation, cfg.Model, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown analysis provider %q", cfg.Provider)
	}
}
