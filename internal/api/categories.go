package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/toolscout/internal/domain"
)

func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.store.Categories.List(c.Request.Context())
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": emptyAsList(categories)})
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &domain.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        domain.Slugify(req.Name),
		Icon:        req.Icon,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Categories.Create(c.Request.Context(), category); err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	if err := s.store.Categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
