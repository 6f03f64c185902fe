package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listCases(c *gin.Context) {
	c.JSON(http.StatusOK, s.cases.List())
}

func (s *Server) getCase(c *gin.Context) {
	found, err := s.cases.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}
