package classifier

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/toolscout/internal/scraper"
)

// AllowedCategories is the closed category vocabulary. Classifier output is
// filtered against it; anything outside the list is dropped.
var AllowedCategories = []string{
	"AI Tools",
	"Chatbots",
	"Coding AI",
	"Image Generation",
	"Video Generation",
	"Audio & Music",
	"Writing AI",
	"Productivity",
	"Marketing AI",
	"SEO Tools",
	"Design Tools",
	"Data & Analytics",
	"Customer Support",
	"Education",
	"Finance AI",
	"Healthcare AI",
	"Legal AI",
	"Research",
	"Sales AI",
	"Translation",
	"Voice AI",
	"Automation",
}

// DefaultCategory is assigned when no classified category survives the
// vocabulary filter.
const DefaultCategory = "AI Tools"

const promptTemplate = `You are cataloguing an AI tool for a directory listing.

Classify the tool described below. Respond with a single JSON object and no
other text, using exactly these fields:

{
  "name": "product name",
  "tagline": "one sentence pitch, max 160 characters",
  "description": "2-3 paragraph description",
  "features": ["up to 10 key features"],
  "pricing": "free | freemium | subscription | one-time | contact | paid",
  "categories": ["1-3 entries, chosen ONLY from the allowed list below"],
  "tags": ["up to 8 short lowercase tags"],
  "seoSummary": "one sentence summary for search engines",
  "confidence": 0-100
}

Allowed categories:
%s

Tool URL: %s
Page title / name: %s
Tagline: %s
Description: %s
Detected features: %s

Page text (truncated):
%s`

const maxPromptText = 6000

// BuildPrompt renders the classification prompt for one scraped record.
func BuildPrompt(data *scraper.ScrapedData) string {
	text := data.RawText
	if len(text) > maxPromptText {
		text = text[:maxPromptText]
	}

	return fmt.Sprintf(promptTemplate,
		"- "+strings.Join(AllowedCategories, "\n- "),
		data.URL,
		data.Name,
		data.Tagline,
		data.Description,
		strings.Join(data.Features, "; "),
		text,
	)
}
