package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/logger"
	"github.com/jonesrussell/toolscout/internal/scraper"
)

type stubProvider struct {
	name   string
	output string
	err    error
	calls  int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Complete(_ context.Context, _ string) (string, error) {
	p.calls++
	return p.output, p.err
}

func sampleScrape() *scraper.ScrapedData {
	return &scraper.ScrapedData{
		URL:         "https://acme.ai",
		Name:        "Acme AI",
		Tagline:     "Code review on autopilot.",
		Description: "Acme reviews your pull requests automatically.",
		Features:    []string{"PR summaries", "Inline comments"},
		Pricing:     domain.Pricing{Model: "subscription"},
		GitHub:      "https://github.com/acme/ai",
		RawText:     "Connect your github repository. $20/month after the free trial.",
	}
}

func TestClassifyUsesPrimaryProvider(t *testing.T) {
	primary := &stubProvider{name: "anthropic", output: `{
		"name": "Acme AI",
		"tagline": "Code review on autopilot.",
		"description": "Reviews pull requests.",
		"features": ["PR summaries"],
		"pricing": "subscription",
		"categories": ["Coding AI", "Productivity"],
		"tags": ["code-review"],
		"seoSummary": "AI code review.",
		"confidence": 88
	}`}
	secondary := &stubProvider{name: "openai", output: "{}"}

	c := New([]Provider{primary, secondary}, logger.NewNop())
	result := c.Classify(context.Background(), sampleScrape())

	assert.Equal(t, "anthropic", result.Source)
	assert.Equal(t, []string{"Coding AI", "Productivity"}, result.Categories)
	assert.Equal(t, 88, result.Confidence)
	assert.Zero(t, secondary.calls)
}

func TestClassifyFallsThroughToSecondary(t *testing.T) {
	primary := &stubProvider{name: "anthropic", err: errors.New("overloaded")}
	secondary := &stubProvider{name: "openai", output: "```json\n" + `{
		"name": "Acme AI",
		"description": "Reviews pull requests.",
		"categories": ["Coding AI"],
		"confidence": 150
	}` + "\n```"}

	c := New([]Provider{primary, secondary}, logger.NewNop())
	result := c.Classify(context.Background(), sampleScrape())

	assert.Equal(t, "openai", result.Source)
	assert.Equal(t, 100, result.Confidence, "confidence clamps to 100")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestClassifyMalformedOutputTriggersFallback(t *testing.T) {
	primary := &stubProvider{name: "anthropic", output: "I cannot help with that."}

	c := New([]Provider{primary}, logger.NewNop())
	result := c.Classify(context.Background(), sampleScrape())

	assert.Equal(t, "fallback", result.Source)
	assert.Equal(t, fallbackConfidence, result.Confidence)
}

func TestClassifyWithoutProvidersUsesKeywordFallback(t *testing.T) {
	c := New(nil, logger.NewNop())
	result := c.Classify(context.Background(), sampleScrape())

	assert.Equal(t, "fallback", result.Source)
	assert.Equal(t, 50, result.Confidence)
	// The raw text mentions github, so the keyword matcher lands on Coding AI.
	assert.Contains(t, result.Categories, "Coding AI")
}

func TestRuleClassifierDefaultsWhenNoKeywordsMatch(t *testing.T) {
	r := NewRuleClassifier()
	result := r.Classify(&scraper.ScrapedData{
		Name:        "Mystery",
		Description: "Nothing matchable here.",
	})

	assert.Equal(t, []string{DefaultCategory}, result.Categories)
	assert.Equal(t, fallbackConfidence, result.Confidence)
}

func TestParseResultStripsCodeFence(t *testing.T) {
	result, err := parseResult("```json\n{\"name\": \"X\", \"description\": \"y\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "X", result.Name)
}

func TestParseResultExtractsEmbeddedObject(t *testing.T) {
	result, err := parseResult("Here is the classification: {\"name\": \"X\", \"description\": \"y\"} Hope that helps!")
	require.NoError(t, err)
	assert.Equal(t, "X", result.Name)
}

func TestValidateClampsEverything(t *testing.T) {
	result := &Result{
		Name:       "X",
		Features:   make([]string, 20),
		Categories: []string{"Nonsense", "coding ai", "CODING AI", "Writing AI", "Chatbots", "Voice AI"},
		Tags:       make([]string, 12),
		Confidence: -5,
	}
	validate(result, &scraper.ScrapedData{})

	assert.Len(t, result.Features, maxResultFeatures)
	assert.Equal(t, []string{"Coding AI", "Writing AI", "Chatbots"}, result.Categories)
	assert.Len(t, result.Tags, maxResultTags)
	assert.Zero(t, result.Confidence)
}

func TestValidateDefaultsCategoriesToVocabularyFallback(t *testing.T) {
	result := &Result{Name: "X", Categories: []string{"Made Up", "Also Fake"}}
	validate(result, &scraper.ScrapedData{})
	assert.Equal(t, []string{DefaultCategory}, result.Categories)
}

func TestBuildPromptListsVocabularyAndTruncatesText(t *testing.T) {
	data := sampleScrape()
	data.RawText = string(make([]byte, maxPromptText+500))

	prompt := BuildPrompt(data)
	for _, category := range AllowedCategories {
		assert.Contains(t, prompt, category)
	}
	assert.Less(t, len(prompt), maxPromptText+3000)
}
