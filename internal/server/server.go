// Package server exposes the risk assessment API over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ledgerline/riskline/internal/casestore"
	"github.com/ledgerline/riskline/internal/docstore"
	"github.com/ledgerline/riskline/internal/engine"
	"github.com/ledgerline/riskline/internal/usage"
)

// Server wires the stores, engine, and tracker behind the HTTP API.
type Server struct {
	cases     *casestore.Store
	documents *docstore.Store
	engine    *engine.Engine
	tracker   *usage.Tracker
	logger    *slog.Logger
	uploadDir string
}

// Config collects the server's dependencies.
type Config struct {
	Cases       *casestore.Store
	Documents   *docstore.Store
	Engine      *engine.Engine
	Tracker     *usage.Tracker
	Logger      *slog.Logger
	UploadDir   string
	FrontendURL string
}

// New builds the server and its router.
func New(cfg Config) (*Server, *gin.Engine) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cases:     cfg.Cases,
		documents: cfg.Documents,
		engine:    cfg.Engine,
		tracker:   cfg.Tracker,
		logger:    logger.With("component", "server"),
		uploadDir: cfg.UploadDir,
	}

	router := gin.New()
	router.Use(gin.Recovery())

	origins := []string{"http://localhost:3000"}
	if cfg.FrontendURL != "" {
		origins = append(origins, cfg.FrontendURL)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", s.root)
	router.GET("/health", s.health)

	router.GET("/cases", s.listCases)
	router.GET("/cases/:id", s.getCase)

	router.POST("/explain", s.explain)
	router.POST("/score", s.score)
	router.POST("/categorize", s.categorize)
	router.POST("/report", s.report)
	router.POST("/compliance/analyze", s.analyzeCompliance)

	docs := router.Group("/documents")
	{
		docs.POST("", s.uploadDocument)
		docs.GET("", s.listDocuments)
		docs.GET("/:id", s.getDocument)
		docs.DELETE("/:id", s.deleteDocument)
		docs.POST("/search", s.searchDocuments)
	}

	admin := router.Group("/admin")
	{
		admin.GET("/usage", s.getUsage)
		admin.GET("/budget-warning", s.budgetWarning)
	}

	return s, router
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Risk Assessment AI API",
		"health":  "/health",
	})
}

func (s *Server) health(c *gin.Context) {
	generator := "unavailable"
	if s.engine.Available() {
		generator = "available"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":                 "healthy",
		"generator":              generator,
		"token_budget_remaining": s.tracker.RemainingBudget(),
	})
}
