package scraper

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonesrussell/toolscout/internal/domain"
)

const (
	maxTaglineLength     = 160
	maxDescriptionLength = 1000
	maxFeatures          = 10
	maxScreenshots       = 5
	minParagraphLength   = 80
)

// titleSeparators split a page title into "name | rest" style segments.
var titleSeparators = []string{" | ", " - ", " — ", " – ", ": "}

// extractName takes the first title segment before a separator, falling
// back to og:site_name and finally the bare title.
func extractName(page *Page) string {
	title := strings.TrimSpace(page.Title)
	for _, sep := range titleSeparators {
		if idx := strings.Index(title, sep); idx > 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	if siteName := strings.TrimSpace(page.Meta["og:site_name"]); siteName != "" {
		return siteName
	}
	return title
}

// extractTagline prefers the meta description, else the first short sentence.
func extractTagline(page *Page) string {
	if desc := strings.TrimSpace(page.Description); desc != "" {
		return truncate(desc, maxTaglineLength)
	}

	for _, line := range strings.Split(page.Content, "\n") {
		line = strings.TrimSpace(trimBullet(line))
		if len(line) >= 20 && len(line) <= maxTaglineLength && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}

// extractDescription joins the first long paragraphs, truncated to 1000 chars.
func extractDescription(page *Page) string {
	var parts []string
	total := 0
	for _, para := range strings.Split(page.Content, "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) < minParagraphLength || strings.HasPrefix(para, "#") {
			continue
		}
		parts = append(parts, para)
		total += len(para)
		if total >= maxDescriptionLength {
			break
		}
	}

	description := strings.Join(parts, "\n\n")
	if description == "" {
		description = strings.TrimSpace(page.Description)
	}
	return truncate(description, maxDescriptionLength)
}

var bulletPrefixes = []string{"- ", "* ", "• ", "– "}

// featureHeading matches markdown headings that introduce a feature list.
var featureHeading = regexp.MustCompile(`(?i)^#{1,4}\s*.*(feature|what you get|capabilities|why )`)

// extractFeatures collects bullets under a "features"-like heading, else the
// first generic bullets found anywhere.
func extractFeatures(content string) []string {
	lines := strings.Split(content, "\n")

	if features := bulletsUnderHeading(lines); len(features) > 0 {
		return features
	}

	var features []string
	for _, line := range lines {
		if item, ok := bulletItem(line); ok {
			features = append(features, item)
			if len(features) == maxFeatures {
				break
			}
		}
	}
	return features
}

func bulletsUnderHeading(lines []string) []string {
	var features []string
	inSection := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if featureHeading.MatchString(trimmed) {
			inSection = true
			continue
		}
		if inSection {
			if strings.HasPrefix(trimmed, "#") {
				break // next heading ends the section
			}
			if item, ok := bulletItem(trimmed); ok {
				features = append(features, item)
				if len(features) == maxFeatures {
					break
				}
			}
		}
	}
	return features
}

func bulletItem(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			item := strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
			if len(item) >= 3 && len(item) <= 200 {
				return item, true
			}
		}
	}
	return "", false
}

func trimBullet(line string) string {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range bulletPrefixes {
		trimmed = strings.TrimPrefix(trimmed, prefix)
	}
	return trimmed
}

// pricingVocabulary maps keywords to pricing models, checked in order.
var pricingVocabulary = []struct {
	keyword string
	model   string
}{
	{"freemium", "freemium"},
	{"free trial", "freemium"},
	{"free plan", "freemium"},
	{"subscription", "subscription"},
	{"per month", "subscription"},
	{"/month", "subscription"},
	{"/mo", "subscription"},
	{"one-time", "one-time"},
	{"lifetime", "one-time"},
	{"contact us", "contact"},
	{"contact sales", "contact"},
	{"free", "free"},
}

// priceAmount matches "$20/month"-like tokens.
var priceAmount = regexp.MustCompile(`\$\d+(?:\.\d+)?\s*/\s*(?:month|mo|year|yr)`)

// extractPricing matches the pricing model vocabulary and price tokens.
func extractPricing(content string) domain.Pricing {
	lower := strings.ToLower(content)

	pricing := domain.Pricing{}
	for _, entry := range pricingVocabulary {
		if strings.Contains(lower, entry.keyword) {
			pricing.Model = entry.model
			break
		}
	}

	amounts := priceAmount.FindAllString(content, -1)
	seen := make(map[string]bool, len(amounts))
	for _, amount := range amounts {
		normalized := strings.Join(strings.Fields(amount), "")
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		pricing.Plans = append(pricing.Plans, domain.PricingPlan{Price: normalized})
	}

	if pricing.Model == "" && len(pricing.Plans) > 0 {
		pricing.Model = "paid"
	}

	return pricing
}

// extractLogo tries og:image, twitter:image, a logo-named image, then the
// Clearbit logo service keyed by domain.
func extractLogo(page *Page, pageURL string) string {
	if img := page.Meta["og:image"]; img != "" {
		return img
	}
	if img := page.Meta["twitter:image"]; img != "" {
		return img
	}

	for _, src := range sortedValues(page.Images) {
		lower := strings.ToLower(src)
		if strings.Contains(lower, "logo") || strings.Contains(lower, "favicon") {
			return src
		}
	}

	if host := hostOf(pageURL); host != "" {
		return "https://logo.clearbit.com/" + host
	}
	return ""
}

var screenshotKeywords = []string{"screenshot", "demo", "preview", "hero"}

// extractScreenshots picks images whose filenames suggest product shots.
func extractScreenshots(page *Page) []string {
	var screenshots []string
	for _, src := range sortedValues(page.Images) {
		lower := strings.ToLower(src)
		for _, keyword := range screenshotKeywords {
			if strings.Contains(lower, keyword) {
				screenshots = append(screenshots, src)
				break
			}
		}
		if len(screenshots) == maxScreenshots {
			break
		}
	}
	return screenshots
}

var docsPathKeywords = []string{"/docs", "/documentation", "docs.", "/developers"}

// extractLinks finds social and documentation links by substring match.
func extractLinks(page *Page) (twitter, github, docs string) {
	for _, href := range sortedValues(page.Links) {
		lower := strings.ToLower(href)
		switch {
		case twitter == "" && (strings.Contains(lower, "twitter.com/") || strings.Contains(lower, "x.com/")):
			twitter = href
		case github == "" && strings.Contains(lower, "github.com/"):
			github = href
		case docs == "":
			for _, keyword := range docsPathKeywords {
				if strings.Contains(lower, keyword) {
					docs = href
					break
				}
			}
		}
	}
	return twitter, github, docs
}

// sortedValues returns map values in deterministic key order so extraction
// is stable across runs (refresh idempotence depends on it).
func sortedValues(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, m[k])
	}
	return values
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
