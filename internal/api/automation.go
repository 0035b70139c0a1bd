package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/toolscout/internal/logger"
)

// handleCronTrigger runs one pipeline synchronously. External cron services
// POST here with the shared bearer secret.
func (s *Server) handleCronTrigger(c *gin.Context) {
	runType := c.Param("type")
	runner, ok := s.runners[runType]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown run type"})
		return
	}

	s.logger.Info("cron trigger received", logger.String("type", runType))

	metadata, err := runner.Run(c.Request.Context())
	if err != nil {
		s.logger.Error("cron-triggered run failed",
			logger.String("type", runType), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"type": runType, "metadata": metadata})
}

func (s *Server) handleAutomationLogs(c *gin.Context) {
	logs, err := s.store.AutomationLogs.List(c.Request.Context(), queryInt(c, "limit", 20))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": emptyAsList(logs)})
}

func (s *Server) handleDiscoveredTools(c *gin.Context) {
	items, err := s.store.Discovered.List(c.Request.Context(),
		queryInt(c, "limit", defaultPageSize), queryInt(c, "offset", 0))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discoveredTools": emptyAsList(items)})
}
