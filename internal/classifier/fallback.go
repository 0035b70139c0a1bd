package classifier

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/toolscout/internal/scraper"
)

// categoryKeywords drive the deterministic fallback: each keyword hit in the
// scraped text counts one vote for its category.
var categoryKeywords = map[string][]string{
	"Chatbots":         {"chatbot", "chat bot", "conversational", "chat assistant"},
	"Coding AI":        {"github", "code completion", "developer", "coding", "ide", "pull request", "repository"},
	"Image Generation": {"image generation", "text-to-image", "diffusion", "generate images", "art generator"},
	"Video Generation": {"video generation", "text-to-video", "video editing", "video creator"},
	"Audio & Music":    {"music generation", "audio", "podcast", "sound", "song"},
	"Writing AI":       {"copywriting", "blog post", "writing assistant", "grammar", "paraphrase"},
	"Productivity":     {"productivity", "note-taking", "meeting notes", "task management", "calendar"},
	"Marketing AI":     {"marketing", "ad copy", "campaign", "social media post"},
	"SEO Tools":        {"seo", "search engine optimization", "keyword research", "backlink"},
	"Design Tools":     {"design", "ui kit", "mockup", "prototype", "figma"},
	"Data & Analytics": {"analytics", "dashboard", "data pipeline", "business intelligence", "sql"},
	"Customer Support": {"customer support", "help desk", "ticketing", "support agent"},
	"Education":        {"learning", "course", "tutor", "students", "flashcard"},
	"Finance AI":       {"finance", "trading", "accounting", "invoice", "expense"},
	"Healthcare AI":    {"healthcare", "medical", "clinical", "patient"},
	"Legal AI":         {"legal", "contract review", "compliance", "law firm"},
	"Research":         {"research", "papers", "literature review", "citation"},
	"Sales AI":         {"sales", "crm", "lead generation", "outreach", "prospecting"},
	"Translation":      {"translation", "translate", "multilingual", "localization"},
	"Voice AI":         {"text-to-speech", "voice clone", "speech recognition", "transcription", "voice assistant"},
	"Automation":       {"workflow automation", "no-code", "zapier", "automate", "integration"},
}

// RuleClassifier is the deterministic keyword fallback. It always produces a
// result with a fixed confidence of 50.
type RuleClassifier struct {
	matcher    *ahocorasick.Matcher
	categories []string // parallel to the matcher's pattern order
}

// NewRuleClassifier builds the keyword automaton.
func NewRuleClassifier() *RuleClassifier {
	var patterns []string
	var categories []string
	for _, category := range AllowedCategories {
		for _, keyword := range categoryKeywords[category] {
			patterns = append(patterns, keyword)
			categories = append(categories, category)
		}
	}
	return &RuleClassifier{
		matcher:    ahocorasick.NewStringMatcher(patterns),
		categories: categories,
	}
}

// Classify scores categories by keyword hits over the scraped text and keeps
// the top scorers. With no hits at all the default category applies.
func (r *RuleClassifier) Classify(data *scraper.ScrapedData) *Result {
	text := strings.ToLower(strings.Join([]string{
		data.Name, data.Tagline, data.Description,
		strings.Join(data.Features, " "), data.GitHub, data.RawText,
	}, " "))

	votes := make(map[string]int)
	for _, hit := range r.matcher.Match([]byte(text)) {
		votes[r.categories[hit]]++
	}

	result := &Result{
		Name:        data.Name,
		Tagline:     data.Tagline,
		Description: data.Description,
		Features:    data.Features,
		Pricing:     data.Pricing.Model,
		Categories:  topCategories(votes),
		Tags:        tagsFromVotes(votes),
		Confidence:  fallbackConfidence,
		Source:      "fallback",
	}
	validate(result, data)
	return result
}

// topCategories returns up to maxResultCategories categories ordered by vote
// count, with vocabulary order breaking ties so output is deterministic.
func topCategories(votes map[string]int) []string {
	type scored struct {
		category string
		votes    int
		order    int
	}

	var ranked []scored
	for i, category := range AllowedCategories {
		if v := votes[category]; v > 0 {
			ranked = append(ranked, scored{category: category, votes: v, order: i})
		}
	}
	for i := range ranked {
		for j := i + 1; j < len(ranked); j++ {
			if ranked[j].votes > ranked[i].votes ||
				(ranked[j].votes == ranked[i].votes && ranked[j].order < ranked[i].order) {
				ranked[i], ranked[j] = ranked[j], ranked[i]
			}
		}
	}

	var categories []string
	for _, entry := range ranked {
		categories = append(categories, entry.category)
		if len(categories) == maxResultCategories {
			break
		}
	}
	if len(categories) == 0 {
		categories = []string{DefaultCategory}
	}
	return categories
}

func tagsFromVotes(votes map[string]int) []string {
	var tags []string
	for _, category := range AllowedCategories {
		if votes[category] > 0 {
			tags = append(tags, strings.ToLower(category))
		}
		if len(tags) == maxResultTags {
			break
		}
	}
	return tags
}
