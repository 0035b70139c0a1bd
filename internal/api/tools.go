package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/toolscout/internal/database"
	"github.com/jonesrussell/toolscout/internal/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func (s *Server) handleListTools(c *gin.Context) {
	params := database.ListToolsParams{
		Status:     c.Query("status"),
		CategoryID: c.Query("categoryId"),
		Limit:      queryInt(c, "limit", defaultPageSize),
		Offset:     queryInt(c, "offset", 0),
	}
	if params.Status == "" {
		params.Status = domain.ToolStatusApproved
	}
	if params.Limit > maxPageSize {
		params.Limit = maxPageSize
	}

	tools, err := s.store.Tools.List(c.Request.Context(), params)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tools": emptyAsList(tools)})
}

type createToolRequest struct {
	Name        string          `json:"name" binding:"required"`
	Tagline     string          `json:"tagline"`
	Description string          `json:"description"`
	Logo        string          `json:"logo"`
	CategoryID  string          `json:"categoryId"`
	Website     string          `json:"website" binding:"required,url"`
	Twitter     string          `json:"twitter"`
	GitHub      string          `json:"github"`
	Screenshots []string        `json:"screenshots"`
	Pricing     *domain.Pricing `json:"pricing"`
}

func (s *Server) handleCreateTool(c *gin.Context) {
	var req createToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	tool := &domain.Tool{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        domain.Slugify(req.Name),
		Tagline:     req.Tagline,
		Description: req.Description,
		Logo:        req.Logo,
		CategoryID:  req.CategoryID,
		Website:     req.Website,
		Twitter:     req.Twitter,
		GitHub:      req.GitHub,
		Status:      domain.ToolStatusPending,
		Screenshots: req.Screenshots,
		Pricing:     req.Pricing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Tools.Create(c.Request.Context(), tool); err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tool)
}

func (s *Server) handleGetTool(c *gin.Context) {
	tool, err := s.store.Tools.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool)
}

func (s *Server) handleGetToolBySlug(c *gin.Context) {
	tool, err := s.store.Tools.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool)
}

type updateToolRequest struct {
	Name        *string         `json:"name"`
	Tagline     *string         `json:"tagline"`
	Description *string         `json:"description"`
	Logo        *string         `json:"logo"`
	CategoryID  *string         `json:"categoryId"`
	Website     *string         `json:"website"`
	Twitter     *string         `json:"twitter"`
	GitHub      *string         `json:"github"`
	Status      *string         `json:"status"`
	Screenshots []string        `json:"screenshots"`
	Pricing     *domain.Pricing `json:"pricing"`
}

func (s *Server) handleUpdateTool(c *gin.Context) {
	var req updateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	tool, err := s.store.Tools.GetByID(ctx, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&tool.Name, req.Name)
	applyString(&tool.Tagline, req.Tagline)
	applyString(&tool.Description, req.Description)
	applyString(&tool.Logo, req.Logo)
	applyString(&tool.CategoryID, req.CategoryID)
	applyString(&tool.Website, req.Website)
	applyString(&tool.Twitter, req.Twitter)
	applyString(&tool.GitHub, req.GitHub)
	if req.Status != nil {
		if !validToolStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		tool.Status = *req.Status
	}
	if req.Name != nil {
		tool.Slug = domain.Slugify(tool.Name)
	}
	if req.Screenshots != nil {
		tool.Screenshots = req.Screenshots
	}
	if req.Pricing != nil {
		tool.Pricing = req.Pricing
	}

	if err := s.store.Tools.Update(ctx, tool); err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool)
}

func (s *Server) handleDeleteTool(c *gin.Context) {
	if err := s.store.Tools.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleToolMetrics(c *gin.Context) {
	history, err := s.store.Metrics.ListByTool(c.Request.Context(), c.Param("id"),
		queryInt(c, "limit", 30))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": emptyAsList(history)})
}

func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	tools, err := s.store.Tools.Search(c.Request.Context(), query, queryInt(c, "limit", 20))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tools": emptyAsList(tools)})
}

func validToolStatus(status string) bool {
	switch status {
	case domain.ToolStatusPending, domain.ToolStatusApproved, domain.ToolStatusRejected:
		return true
	}
	return false
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// emptyAsList keeps JSON responses as [] instead of null.
func emptyAsList[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
