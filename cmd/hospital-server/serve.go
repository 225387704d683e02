package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/elettil/hospital/internal/config"
	"github.com/elettil/hospital/internal/domain/contact"
	"github.com/elettil/hospital/internal/domain/department"
	"github.com/elettil/hospital/internal/domain/doctor"
	"github.com/elettil/hospital/internal/domain/site"
	"github.com/elettil/hospital/internal/platform/auth"
	"github.com/elettil/hospital/internal/platform/db"
	"github.com/elettil/hospital/internal/platform/imagecache"
	"github.com/elettil/hospital/internal/platform/middleware"
	"github.com/elettil/hospital/internal/platform/openapi"
)

const version = "0.1.0"

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the site server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// deepLinkOrigins are where the contact form redirects.
var deepLinkOrigins = []string{"https://wa.me", "https://api.whatsapp.com"}

// newServer wires every route on a fresh echo instance.
func newServer(cfg *config.Config, dir *directory, logger zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	var imageOrigins []string
	if o := middleware.Origin(cfg.PlaceholderBaseURL); o != "" {
		imageOrigins = append(imageOrigins, o)
	}
	e.Use(middleware.SecurityHeaders(middleware.SecurityConfig{
		ImageOrigins:    imageOrigins,
		FormOrigins:     deepLinkOrigins,
		HSTS:            cfg.IsProduction(),
		NoStorePrefixes: []string{"/api/v1/admin", "/api/v1/contact", "/contact"},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
			"source":  cfg.DirectorySource,
		})
	})
	switch {
	case dir.pool != nil:
		e.GET("/health/db", db.PoolHealthHandler(dir.pool))
	case dir.probe() != nil:
		e.GET("/health/db", db.HealthHandler(cfg.DirectorySource, dir.probe(), nil))
	}

	apiV1 := e.Group("/api/v1")
	media := e.Group("/media")

	portraits := imagecache.New(assetDir(cfg, "doctors"), cacheDir(cfg, "doctors"), logger)
	siteImages := imagecache.New(assetDir(cfg, "site"), cacheDir(cfg, "site"), logger)
	for _, c := range []*imagecache.Cache{portraits, siteImages} {
		if err := c.EnsureDir(); err != nil {
			return nil, err
		}
	}

	doctorHandler := doctor.NewHandler(dir.doctors, portraits)
	doctorHandler.RegisterRoutes(apiV1, media)
	department.NewHandler(dir.departments).RegisterRoutes(apiV1)

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	contactHandler := contact.NewHandler(contact.NewService(cfg.WhatsAppNumber, logger))
	contactHandler.RegisterRoutes(e, apiV1, echomw.BodyLimit("16K"), middleware.RateLimit(rateLimitCfg))

	siteHandler, err := site.NewHandler(dir.doctors, dir.departments, site.DefaultContent(), siteImages, logger)
	if err != nil {
		return nil, err
	}
	siteHandler.RegisterRoutes(e, media)

	openapi.NewGenerator(site.DefaultContent().Hospital.Name+" API", version, "/").
		WithAdmin(dir.pool != nil).
		RegisterRoutes(apiV1)

	// Admin API only exists when the directory lives in Postgres.
	if dir.pool != nil {
		admin := apiV1.Group("/admin")
		admin.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AdminJWTIssuer,
			SigningKey: []byte(cfg.AdminJWTSecret),
		}))
		doctorHandler.RegisterAdminRoutes(admin)
		logger.Info().Msg("admin API enabled")
	}

	return e, nil
}

func runServer() error {
	// Config
	cfg, err := loadConfig()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	// Logger
	logger := newLogger(cfg)

	// Directory
	ctx := context.Background()
	dir, err := newDirectory(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open directory")
	}
	defer dir.Close()

	e, err := newServer(cfg, dir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
