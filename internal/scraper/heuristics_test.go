package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNameFromTitleSeparator(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "pipe", title: "Acme AI | The best assistant", want: "Acme AI"},
		{name: "dash", title: "Acme AI - Home", want: "Acme AI"},
		{name: "em dash", title: "Acme AI — Home", want: "Acme AI"},
		{name: "colon", title: "Acme AI: write faster", want: "Acme AI"},
		{name: "no separator", title: "Acme AI", want: "Acme AI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &Page{Title: tt.title}
			assert.Equal(t, tt.want, extractName(page))
		})
	}
}

func TestExtractNamePrefersSiteNameWhenTitleBare(t *testing.T) {
	page := &Page{Title: "", Meta: map[string]string{"og:site_name": "Acme AI"}}
	assert.Equal(t, "Acme AI", extractName(page))
}

func TestExtractTagline(t *testing.T) {
	page := &Page{Description: "Build apps with natural language."}
	assert.Equal(t, "Build apps with natural language.", extractTagline(page))

	long := &Page{Description: strings.Repeat("x", 300)}
	assert.Len(t, extractTagline(long), maxTaglineLength)

	fromContent := &Page{Content: "# Heading\nA short pitch sentence for the product.\nmore text"}
	assert.Equal(t, "A short pitch sentence for the product.", extractTagline(fromContent))
}

func TestExtractDescriptionTruncates(t *testing.T) {
	para := strings.Repeat("lorem ipsum dolor sit amet ", 10) // ~270 chars
	content := strings.Join([]string{para, para, para, para, para}, "\n\n")

	description := extractDescription(&Page{Content: content})
	assert.LessOrEqual(t, len(description), maxDescriptionLength)
	assert.NotEmpty(t, description)
}

func TestExtractFeaturesUnderHeading(t *testing.T) {
	content := `Intro text

## Features

- Fast inference
- Team workspaces
- API access

## Pricing

- Starter $5/month`

	features := extractFeatures(content)
	require.Len(t, features, 3)
	assert.Equal(t, "Fast inference", features[0])
	assert.Equal(t, "API access", features[2])
}

func TestExtractFeaturesGenericBulletsCapped(t *testing.T) {
	var b strings.Builder
	for range 15 {
		b.WriteString("- a generic bullet item\n")
	}

	features := extractFeatures(b.String())
	assert.Len(t, features, maxFeatures)
}

func TestExtractPricing(t *testing.T) {
	pricing := extractPricing("Start on the free plan, or upgrade for $20/month or $192 / year.")

	assert.Equal(t, "freemium", pricing.Model)
	require.Len(t, pricing.Plans, 2)
	assert.Equal(t, "$20/month", pricing.Plans[0].Price)
	assert.Equal(t, "$192/year", pricing.Plans[1].Price)
}

func TestExtractPricingModelFromAmountsOnly(t *testing.T) {
	pricing := extractPricing("Just $9/month.")
	assert.Equal(t, "subscription", pricing.Model)
}

func TestExtractLogoFallsBackToClearbit(t *testing.T) {
	page := &Page{Images: map[string]string{}, Meta: map[string]string{}}
	assert.Equal(t, "https://logo.clearbit.com/example.ai",
		extractLogo(page, "https://www.example.ai/landing"))
}

func TestExtractLogoPrefersOGImage(t *testing.T) {
	page := &Page{Meta: map[string]string{"og:image": "https://cdn.example.ai/og.png"}}
	assert.Equal(t, "https://cdn.example.ai/og.png", extractLogo(page, "https://example.ai"))
}

func TestExtractScreenshots(t *testing.T) {
	page := &Page{Images: map[string]string{
		"a": "https://cdn.example.ai/screenshot-editor.png",
		"b": "https://cdn.example.ai/logo.svg",
		"c": "https://cdn.example.ai/demo-flow.gif",
	}}

	screenshots := extractScreenshots(page)
	assert.Len(t, screenshots, 2)
}

func TestExtractLinks(t *testing.T) {
	page := &Page{Links: map[string]string{
		"Twitter": "https://twitter.com/acmeai",
		"GitHub":  "https://github.com/acme/ai",
		"Docs":    "https://docs.example.ai/start",
	}}

	twitter, github, docs := extractLinks(page)
	assert.Equal(t, "https://twitter.com/acmeai", twitter)
	assert.Equal(t, "https://github.com/acme/ai", github)
	assert.Equal(t, "https://docs.example.ai/start", docs)
}

func TestExtractFromPageIsDeterministic(t *testing.T) {
	page := &Page{
		Title:       "Acme AI | Assistant",
		Description: "An assistant.",
		Content:     "## Features\n- One\n- Two\n\nPricing from $10/month.",
		Images: map[string]string{
			"x": "https://cdn.example.ai/screenshot-1.png",
			"y": "https://cdn.example.ai/screenshot-2.png",
		},
	}

	first := ExtractFromPage("https://example.ai", page)
	second := ExtractFromPage("https://example.ai", page)
	assert.Equal(t, first, second)
}
