// Package classifier turns scraped tool data into a canonical catalog record.
//
// Classification tries LLM providers in order (Anthropic, then an
// OpenAI-compatible endpoint) and falls back to a deterministic keyword
// matcher when every provider fails or returns unparseable output.
package classifier

import (
	"context"

	"github.com/jonesrussell/toolscout/internal/logger"
	"github.com/jonesrussell/toolscout/internal/scraper"
)

// Result is a validated classification of one tool.
type Result struct {
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Pricing     string   `json:"pricing"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	SEOSummary  string   `json:"seoSummary"`
	Confidence  int      `json:"confidence"`

	// Source names what produced the result: a provider name or "fallback".
	Source string `json:"-"`
}

// Provider is an LLM completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classifier runs the provider chain with rule-based fallback.
type Classifier struct {
	providers []Provider
	fallback  *RuleClassifier
	logger    logger.Logger
	observer  func(source string)
}

// New creates a classifier. providers may be empty, in which case every
// classification uses the keyword fallback.
func New(providers []Provider, log logger.Logger) *Classifier {
	return &Classifier{
		providers: providers,
		fallback:  NewRuleClassifier(),
		logger:    log,
	}
}

// SetObserver registers a callback invoked with the source of every
// classification, used to feed telemetry.
func (c *Classifier) SetObserver(fn func(source string)) {
	c.observer = fn
}

func (c *Classifier) observe(source string) {
	if c.observer != nil {
		c.observer(source)
	}
}

// Classify produces a validated result for the scraped record. It never
// returns an error: provider failures degrade to the keyword fallback.
func (c *Classifier) Classify(ctx context.Context, data *scraper.ScrapedData) *Result {
	prompt := BuildPrompt(data)

	for _, provider := range c.providers {
		raw, err := provider.Complete(ctx, prompt)
		if err != nil {
			c.logger.Warn("classifier provider failed",
				logger.String("provider", provider.Name()),
				logger.String("url", data.URL),
				logger.Error(err),
			)
			continue
		}

		result, err := parseResult(raw)
		if err != nil {
			c.logger.Warn("classifier returned malformed output",
				logger.String("provider", provider.Name()),
				logger.String("url", data.URL),
				logger.Error(err),
			)
			continue
		}

		validate(result, data)
		result.Source = provider.Name()

		c.logger.Debug("classified tool",
			logger.String("provider", provider.Name()),
			logger.String("name", result.Name),
			logger.Int("confidence", result.Confidence),
		)
		c.observe(result.Source)
		return result
	}

	result := c.fallback.Classify(data)
	c.logger.Info("using fallback classification",
		logger.String("url", data.URL),
		logger.Strings("categories", result.Categories),
	)
	c.observe(result.Source)
	return result
}
