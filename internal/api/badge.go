package api

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"
)

const badgeTemplate = `<a href="%s/tools/%s" target="_blank" rel="noopener" style="display:inline-flex;align-items:center;gap:6px;padding:6px 12px;border:1px solid #e2e8f0;border-radius:8px;font-family:system-ui,sans-serif;font-size:13px;color:#1a202c;text-decoration:none;background:#fff">
  <span style="font-weight:600">%s</span>
  <span style="color:#718096">on ToolScout</span>
</a>`

// handleBadge serves an embeddable HTML snippet linking back to the tool's
// listing page.
func (s *Server) handleBadge(c *gin.Context) {
	tool, err := s.store.Tools.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}

	appURL := s.cfg.Service.AppURL
	if appURL == "" {
		appURL = "https://toolscout.app"
	}

	snippet := fmt.Sprintf(badgeTemplate,
		html.EscapeString(appURL),
		html.EscapeString(tool.Slug),
		html.EscapeString(tool.Name),
	)

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(snippet))
}
