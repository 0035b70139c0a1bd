package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/toolscout/internal/domain"
)

func (s *Server) handleListSubmissions(c *gin.Context) {
	submissions, err := s.store.Submissions.List(c.Request.Context(),
		c.Query("status"), queryInt(c, "limit", defaultPageSize))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": emptyAsList(submissions)})
}

type createSubmissionRequest struct {
	Name        string `json:"name" binding:"required"`
	Website     string `json:"website" binding:"required,url"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId"`
	Email       string `json:"email" binding:"omitempty,email"`
}

func (s *Server) handleCreateSubmission(c *gin.Context) {
	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission := &domain.Submission{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Website:     req.Website,
		Tagline:     req.Tagline,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Email:       req.Email,
		Status:      domain.SubmissionStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Submissions.Create(c.Request.Context(), submission); err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submission)
}

// handleApproveSubmission promotes a pending submission to an approved tool.
func (s *Server) handleApproveSubmission(c *gin.Context) {
	ctx := c.Request.Context()

	submission, err := s.store.Submissions.GetByID(ctx, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	if submission.Status != domain.SubmissionStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "submission already reviewed"})
		return
	}

	now := time.Now()
	tool := &domain.Tool{
		ID:          uuid.NewString(),
		Name:        submission.Name,
		Slug:        domain.Slugify(submission.Name),
		Tagline:     submission.Tagline,
		Description: submission.Description,
		CategoryID:  submission.CategoryID,
		Website:     submission.Website,
		Status:      domain.ToolStatusApproved,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Tools.Create(ctx, tool); err != nil {
		s.respondStoreError(c, err)
		return
	}

	if err := s.store.Submissions.UpdateStatus(ctx, submission.ID, domain.SubmissionStatusApproved); err != nil {
		s.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission": submission.ID, "tool": tool})
}

func (s *Server) handleRejectSubmission(c *gin.Context) {
	ctx := c.Request.Context()

	submission, err := s.store.Submissions.GetByID(ctx, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	if submission.Status != domain.SubmissionStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "submission already reviewed"})
		return
	}

	if err := s.store.Submissions.UpdateStatus(ctx, submission.ID, domain.SubmissionStatusRejected); err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": submission.ID, "status": domain.SubmissionStatusRejected})
}
