package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerline/riskline/internal/model"
)

func (s *Server) uploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, fmt.Errorf("file field is required: %w", err))
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	fileType, err := model.ParseFileType(ext)
	if err != nil {
		badRequest(c, err)
		return
	}

	uploadDir := s.uploadDir
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	if err := os.MkdirAll(uploadDir, 0o750); err != nil {
		s.respondError(c, fmt.Errorf("failed to prepare upload directory: %w", err))
		return
	}

	// Prefix with a fresh ID so concurrent uploads of the same filename
	// never collide.
	dest := filepath.Join(uploadDir, uuid.NewString()+"_"+filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, dest); err != nil {
		s.respondError(c, fmt.Errorf("failed to save upload: %w", err))
		return
	}

	doc, err := s.documents.Ingest(c.Request.Context(), dest, file.Filename, fileType, file.Size)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (s *Server) listDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, s.documents.List())
}

func (s *Server) getDocument(c *gin.Context) {
	doc, err := s.documents.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) deleteDocument(c *gin.Context) {
	if !s.documents.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("Document %s not found", c.Param("id"))})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type searchRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k"`
}

func (s *Server) searchDocuments(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.TopK <= 0 {
		req.TopK = 5
	}

	chunks := s.documents.RetrieveRelevant(req.Query, req.TopK)
	c.JSON(http.StatusOK, gin.H{
		"query":   req.Query,
		"results": chunks,
	})
}
