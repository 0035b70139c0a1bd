package classifier

import (
	"github.com/jonesrussell/toolscout/internal/config"
	"github.com/jonesrussell/toolscout/internal/logger"
)

// FromConfig assembles the provider chain from configuration, skipping
// providers whose API key is absent. With no keys configured the classifier
// runs on the keyword fallback alone.
func FromConfig(cfg config.ClassifierConfig, log logger.Logger) *Classifier {
	var providers []Provider
	if cfg.AnthropicAPIKey != "" {
		providers = append(providers, NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel))
	}
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, nil))
	}
	return New(providers, log)
}
