package database

import (
	"context"

	"github.com/jonesrussell/toolscout/internal/domain"
)

// NewSampleStore returns a memory store seeded with a small catalog so the
// frontend has data to render when no database is configured.
func NewSampleStore() *Store {
	store := NewMemoryStore()
	ctx := context.Background()

	categories := []*domain.Category{
		{Name: "Chatbots", Icon: "message-circle", Description: "Conversational AI assistants"},
		{Name: "Image Generation", Icon: "image", Description: "Text-to-image and editing models"},
		{Name: "Coding AI", Icon: "code", Description: "Programming assistants and code tools"},
		{Name: "Writing AI", Icon: "pen-tool", Description: "Drafting, editing and copy tools"},
	}
	for _, category := range categories {
		_ = store.Categories.Create(ctx, category)
	}

	tools := []*domain.Tool{
		{
			Name:        "PixelForge",
			Slug:        "pixelforge",
			Tagline:     "Generate production-ready artwork from plain text",
			Description: "PixelForge turns prompts into high-resolution images with style presets, inpainting and batch generation for teams.",
			Website:     "https://pixelforge.example.com",
			CategoryID:  categories[1].ID,
			Status:      domain.ToolStatusApproved,
			Upvotes:     128,
			Views:       5400,
			Pricing:     &domain.Pricing{Model: "freemium", Plans: []domain.PricingPlan{{Name: "Pro", Price: "$12/month"}}},
		},
		{
			Name:        "CodePilot Lite",
			Slug:        "codepilot-lite",
			Tagline:     "Inline code suggestions for any editor",
			Description: "An open-source coding assistant that completes functions, writes tests and explains unfamiliar code across 30 languages.",
			Website:     "https://codepilot-lite.example.com",
			GitHub:      "https://github.com/example/codepilot-lite",
			CategoryID:  categories[2].ID,
			Status:      domain.ToolStatusApproved,
			Upvotes:     96,
			Views:       3100,
			Pricing:     &domain.Pricing{Model: "free"},
		},
		{
			Name:        "DraftGenius",
			Slug:        "draftgenius",
			Tagline:     "Long-form writing that sounds like you",
			Description: "DraftGenius drafts articles, emails and documentation in your voice, with tone controls and citation checking.",
			Website:     "https://draftgenius.example.com",
			CategoryID:  categories[3].ID,
			Status:      domain.ToolStatusApproved,
			Upvotes:     61,
			Views:       1900,
			Pricing:     &domain.Pricing{Model: "subscription", Plans: []domain.PricingPlan{{Name: "Starter", Price: "$8/month"}}},
		},
	}
	for _, tool := range tools {
		_ = store.Tools.Create(ctx, tool)
	}

	return store
}
