// Package server wires the sales map HTTP endpoints onto gin.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"sales-geomap/internal/config"
	"sales-geomap/internal/geomap"
	"sales-geomap/internal/metrics"
	"sales-geomap/internal/upload"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *upload.Store
	renderer *geomap.Renderer
	limiter  *rate.Limiter
}

func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := upload.NewStore(cfg.Upload.Dir, logger)
	if err != nil {
		return nil, err
	}

	palette, err := geomap.LoadPalette(cfg.Map.PaletteFile)
	if err != nil {
		return nil, err
	}

	renderer, err := geomap.NewRenderer(geomap.Options{
		ZoomStart:      cfg.Map.ZoomStart,
		Tiles:          cfg.Map.Tiles,
		CurrencySymbol: cfg.Map.CurrencySymbol,
		Palette:        palette,
	})
	if err != nil {
		return nil, fmt.Errorf("map renderer: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		renderer: renderer,
	}
	if cfg.Server.RateLimitPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimitPerSecond), cfg.Server.RateLimitBurst)
	}
	return s, nil
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger), metrics.Middleware())
	r.MaxMultipartMemory = s.cfg.Server.MaxUploadBytes()

	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", metrics.Handler())

	auth := s.cfg.Auth.Enabled()
	if auth {
		// Setup Sessions
		store := cookie.NewStore([]byte(s.cfg.Auth.Secret))
		store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 12 * 3600})
		r.Use(sessions.Sessions("geomap", store))

		r.GET("/login", s.handleLoginPage)
		r.POST("/login", s.handleLogin)
		r.GET("/logout", s.handleLogout)
	}

	// Protected Routes
	authorized := r.Group("/")
	if auth {
		authorized.Use(s.authRequired)
	}
	{
		authorized.GET("/", s.handleIndex)
		authorized.POST("/", s.uploadChain(s.handleUpload)...)
		authorized.POST("/export", s.uploadChain(s.handleExport)...)
		authorized.GET("/download-template", s.handleTemplate)
	}

	return r
}

// uploadChain guards a handler that reads an uploaded sheet.
func (s *Server) uploadChain(h gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{bodyLimit(s.cfg.Server.MaxUploadBytes())}
	if s.limiter != nil {
		chain = append(chain, rateLimit(s.limiter))
	}
	return append(chain, h)
}
