package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonesrussell/toolscout/internal/scraper"
)

const (
	maxResultFeatures   = 10
	maxResultCategories = 3
	maxResultTags       = 8
	fallbackConfidence  = 50
)

// parseResult strips code-fence wrapping and decodes the provider output.
func parseResult(raw string) (*Result, error) {
	cleaned := stripCodeFence(raw)

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}
	if result.Name == "" && result.Description == "" {
		return nil, fmt.Errorf("classification missing name and description")
	}
	return &result, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block if present and
// otherwise cuts the text down to the outermost JSON object.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		return strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// validate clamps every field to the catalog's limits, filling gaps from the
// scraped record.
func validate(result *Result, data *scraper.ScrapedData) {
	if result.Name == "" {
		result.Name = data.Name
	}
	if result.Tagline == "" {
		result.Tagline = data.Tagline
	}
	if result.Description == "" {
		result.Description = data.Description
	}
	if len(result.Features) == 0 {
		result.Features = data.Features
	}
	if result.Pricing == "" {
		result.Pricing = data.Pricing.Model
	}

	result.Features = truncateSlice(result.Features, maxResultFeatures)
	result.Categories = filterCategories(result.Categories)
	result.Tags = truncateSlice(result.Tags, maxResultTags)

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 100 {
		result.Confidence = 100
	}
}

// filterCategories keeps only vocabulary entries (case-insensitively),
// truncated to the maximum, defaulting to the fallback category.
func filterCategories(categories []string) []string {
	byLower := make(map[string]string, len(AllowedCategories))
	for _, allowed := range AllowedCategories {
		byLower[strings.ToLower(allowed)] = allowed
	}

	var filtered []string
	seen := make(map[string]bool)
	for _, category := range categories {
		canonical, ok := byLower[strings.ToLower(strings.TrimSpace(category))]
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		filtered = append(filtered, canonical)
		if len(filtered) == maxResultCategories {
			break
		}
	}

	if len(filtered) == 0 {
		return []string{DefaultCategory}
	}
	return filtered
}

func truncateSlice(items []string, maxLen int) []string {
	if len(items) > maxLen {
		return items[:maxLen]
	}
	return items
}
