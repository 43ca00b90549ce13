package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/randomracing/fantasyapi/config"
	"github.com/randomracing/fantasyapi/db"
	"github.com/randomracing/fantasyapi/handlers"
	applog "github.com/randomracing/fantasyapi/logger"
	mw "github.com/randomracing/fantasyapi/middleware"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	h := handlers.New(bdb, cfg)

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	e.GET("/", h.Index)
	e.GET("/about", h.About)
	e.GET("/schedule", h.Schedule)
	e.GET("/schedule/:year", h.Schedule)
	e.GET("/standings", h.Standings)
	e.GET("/standings/:year", h.Standings)
	e.GET("/picks", h.RacePicks)
	e.GET("/picks/:id", h.RacePicks)
	e.GET("/players", h.Players)
	e.GET("/player/:username", h.Player)
	e.GET("/player/:username/:year", h.PlayerSeason)
	e.GET("/stats", h.Statistics)
	e.GET("/play", h.Play)
	e.GET("/pick", h.PickCallback)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Admin – result entry and reference-data upkeep behind a JWT.
	e.POST("/admin/signin", h.Signin)
	admin := e.Group("/admin", mw.JWT(cfg.JWTKey()))
	admin.POST("/schedules", h.CreateSchedule)
	admin.POST("/races", h.CreateRace)
	admin.POST("/teams", h.CreateTeam)
	admin.POST("/drivers", h.CreateDriver)
	admin.PUT("/drivers/:id/active", h.SetDriverActive)
	admin.POST("/results", h.CreateResult)
	admin.POST("/faqs", h.CreateFAQ)

	if cfg.Debug || len(cfg.TLSDomains) == 0 {
		logger.Info("starting server", zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
