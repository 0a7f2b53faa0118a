// Package ui exposes the analysis pipeline over HTTP: a JSON analyze
// endpoint, an HTML report variant, and a minimal upload page.
package ui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"csvscope/internal"
	"csvscope/internal/analyze"
	"csvscope/internal/config"
	"csvscope/internal/errors"
)

//go:embed templates/*
var embeddedFiles embed.FS

// Server represents the web server for the CSV exploration UI
type Server struct {
	router    *gin.Engine
	pipeline  *analyze.Pipeline
	cfg       *config.Config
	logger    *internal.Logger
	templates *template.Template
}

// NewServer creates a new web server instance
func NewServer(cfg *config.Config, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	gin.SetMode(cfg.Server.GinMode)

	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}

	s := &Server{
		router:    gin.Default(),
		pipeline:  analyze.NewPipeline(logger),
		cfg:       cfg,
		logger:    logger,
		templates: templates,
	}
	s.router.SetHTMLTemplate(templates)
	s.router.MaxMultipartMemory = cfg.Upload.MaxFileSizeMB << 20
	s.setupRoutes()

	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	s.router.POST("/api/analyze", s.handleAnalyze)
	s.router.POST("/api/analyze/report", s.handleAnalyzeReport)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := ":" + s.cfg.Server.Port
	s.logger.Info("[Server] listening on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}
