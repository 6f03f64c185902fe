package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) getUsage(c *gin.Context) {
	c.JSON(http.StatusOK, s.tracker.Summary())
}

func (s *Server) budgetWarning(c *gin.Context) {
	warning := s.tracker.Warning()
	if warning == nil {
		c.JSON(http.StatusOK, gin.H{"warning": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"warning":         true,
		"severity":        warning.Severity,
		"message":         warning.Message,
		"percentage_used": warning.PercentageUsed,
	})
}
