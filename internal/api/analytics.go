package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/toolscout/internal/domain"
)

type upvoteRequest struct {
	ToolID    string `json:"toolId" binding:"required"`
	VisitorID string `json:"visitorId" binding:"required"`
}

func (s *Server) handleUpvote(c *gin.Context) {
	var req upvoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := s.store.Tools.GetByID(ctx, req.ToolID); err != nil {
		s.respondStoreError(c, err)
		return
	}

	created, err := s.store.Upvotes.Create(ctx, req.ToolID, req.VisitorID)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	if created {
		if err := s.store.Tools.IncrementUpvotes(ctx, req.ToolID); err != nil {
			s.respondStoreError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"upvoted": created})
}

type analyticsRequest struct {
	ToolID string `json:"toolId" binding:"required"`
}

// handleAnalyticsEvent records a view or click event. Views also bump the
// tool's denormalized lifetime counter.
func (s *Server) handleAnalyticsEvent(eventType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyticsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		if _, err := s.store.Tools.GetByID(ctx, req.ToolID); err != nil {
			s.respondStoreError(c, err)
			return
		}

		event := &domain.AnalyticsEvent{
			ID:        uuid.NewString(),
			ToolID:    req.ToolID,
			EventType: eventType,
			CreatedAt: time.Now(),
		}
		if err := s.store.Analytics.Insert(ctx, event); err != nil {
			s.respondStoreError(c, err)
			return
		}

		if eventType == domain.EventTypeView {
			if err := s.store.Tools.IncrementViews(ctx, req.ToolID); err != nil {
				s.respondStoreError(c, err)
				return
			}
		}

		if s.metrics != nil {
			s.metrics.AnalyticsEvents.WithLabelValues(eventType).Inc()
		}
		c.JSON(http.StatusAccepted, gin.H{"recorded": true})
	}
}
