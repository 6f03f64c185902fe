package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/riskline/internal/common"
)

// respondError maps the error taxonomy onto HTTP status codes: budget
// exhaustion reads as a rate limit, unknown entities as 404, everything
// else as a server error.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrBudgetExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{"detail": "Token budget exceeded"})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, common.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "AI service unavailable"})
	default:
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}
