package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dovepeak/quotemaster/internal/auth"
	authdomain "github.com/dovepeak/quotemaster/internal/auth/domain"
	"github.com/dovepeak/quotemaster/internal/businessprofile"
	profiledomain "github.com/dovepeak/quotemaster/internal/businessprofile/domain"
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/config"
	"github.com/dovepeak/quotemaster/internal/observability/logger"
	obsmetrics "github.com/dovepeak/quotemaster/internal/observability/metrics"
	obstracing "github.com/dovepeak/quotemaster/internal/observability/tracing"
	"github.com/dovepeak/quotemaster/internal/providers"
	printprovider "github.com/dovepeak/quotemaster/internal/providers/print"
	"github.com/dovepeak/quotemaster/internal/quotation"
	quotationdomain "github.com/dovepeak/quotemaster/internal/quotation/domain"
	"github.com/dovepeak/quotemaster/internal/quotetemplate"
	templatedomain "github.com/dovepeak/quotemaster/internal/quotetemplate/domain"
	"github.com/dovepeak/quotemaster/internal/ratelimit"
	"github.com/dovepeak/quotemaster/internal/snapshot"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	ratelimit.Module,
	auth.Module,
	quotetemplate.Module,
	businessprofile.Module,
	providers.Module,
	quotation.Module,
	snapshot.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewWorkspaceCookies),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

type EngineParams struct {
	fx.In

	Config   config.Config
	Log      *zap.Logger
	Registry *obsmetrics.Registry `optional:"true"`
}

func NewEngine(p EngineParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(p.Log))
	r.Use(obstracing.GinMiddleware())
	r.Use(p.Registry.Middleware())
	r.Use(corsMiddleware(p.Config.CORSAllowedOrigins))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": p.Config.StorageBackend})
	})
	r.GET("/metrics", p.Registry.Handler())

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type", "Origin", logger.RequestIDHeader, WorkspaceHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			// Credentials cannot be combined with a wildcard origin.
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cors.New(cfg)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	clock      clock.Clock
	workspaces *WorkspaceCookies
	authsvc    authdomain.Service
	quotations quotationdomain.Service
	templates  templatedomain.Service
	profiles   profiledomain.Service
	snapshots  *snapshot.Service
	printer    printprovider.Provider
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Clock      clock.Clock
	Workspaces *WorkspaceCookies
	Authsvc    authdomain.Service
	Quotations quotationdomain.Service
	Templates  templatedomain.Service
	Profiles   profiledomain.Service
	Snapshots  *snapshot.Service
	Printer    printprovider.Provider
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		clock:      p.Clock,
		workspaces: p.Workspaces,
		authsvc:    p.Authsvc,
		quotations: p.Quotations,
		templates:  p.Templates,
		profiles:   p.Profiles,
		snapshots:  p.Snapshots,
		printer:    p.Printer,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api", s.workspaces.Middleware())

	api.GET("/currencies", s.ListCurrencies)
	api.GET("/currencies/:code/format", s.FormatAmount)

	// -------- Auth --------
	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.Register)
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.Me)
	authGroup.PATCH("/me", s.UpdateMe)

	// -------- Quotations --------
	api.GET("/quotations", s.ListQuotations)
	api.POST("/quotations", s.SaveQuotation)
	api.POST("/quotations/draft", s.NewDraft)
	api.GET("/quotations/:id", s.GetQuotation)
	api.PUT("/quotations/:id", s.SaveQuotation)
	api.DELETE("/quotations/:id", s.DeleteQuotation)
	api.PUT("/quotations/:id/status", s.SetQuotationStatus)
	api.POST("/quotations/:id/items", s.AddQuotationItem)
	api.PATCH("/quotations/:id/items/:itemId", s.UpdateQuotationItem)
	api.DELETE("/quotations/:id/items/:itemId", s.RemoveQuotationItem)
	api.PUT("/quotations/:id/template", s.ChangeQuotationTemplate)
	api.PUT("/quotations/:id/business-profile", s.ChangeQuotationProfile)
	api.POST("/quotations/:id/duplicate", s.DuplicateQuotation)
	api.GET("/quotations/:id/document", s.QuotationDocument)
	api.GET("/quotations/:id/print", s.PrintQuotation)
	api.POST("/quotations/:id/email", s.EmailQuotation)

	// -------- Templates --------
	api.GET("/templates", s.ListTemplates)
	api.POST("/templates", s.CreateTemplate)
	api.GET("/templates/:id", s.GetTemplate)
	api.PATCH("/templates/:id", s.UpdateTemplate)
	api.DELETE("/templates/:id", s.DeleteTemplate)

	// -------- Business profiles --------
	api.GET("/business-profiles", s.ListBusinessProfiles)
	api.POST("/business-profiles", s.CreateBusinessProfile)
	api.GET("/business-profiles/default", s.DefaultBusinessProfile)
	api.GET("/business-profiles/:id", s.GetBusinessProfile)
	api.PATCH("/business-profiles/:id", s.UpdateBusinessProfile)
	api.PUT("/business-profiles/:id/default", s.SetDefaultBusinessProfile)
	api.DELETE("/business-profiles/:id", s.DeleteBusinessProfile)

	// -------- Snapshot --------
	api.GET("/snapshot", s.ExportSnapshot)
	api.POST("/snapshot", s.ImportSnapshot)
	api.DELETE("/snapshot", s.ClearSnapshot)
}
