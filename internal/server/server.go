package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/interviewd/config"
	"github.com/mohammad-safakhou/interviewd/internal/extract"
	"github.com/mohammad-safakhou/interviewd/internal/provider"
	"github.com/mohammad-safakhou/interviewd/internal/registry"
	"github.com/mohammad-safakhou/interviewd/internal/telemetry"
)

// Run wires providers, registry and routes, then serves until the listener
// stops.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, HTTPError{Error: msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	if cfg.Telemetry.Enabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, BannerResponse{
			Status:     "online",
			Service:    "interviewd",
			Embedding:  cfg.Providers.Embedding,
			Generation: cfg.Providers.Generation,
		})
	})

	embedder, err := provider.NewEmbedder(cfg.Providers)
	if err != nil {
		return err
	}
	generator, err := provider.NewGenerator(cfg.Providers)
	if err != nil {
		return err
	}
	metrics := telemetry.New(prometheus.DefaultRegisterer)
	instrumentedEmb := telemetry.InstrumentedEmbedder{Next: embedder, Metrics: metrics}
	instrumentedGen := telemetry.InstrumentedGenerator{Next: generator, Metrics: metrics}

	if err := extract.CheckAvailable(); err != nil {
		log.Printf("pdf uploads unavailable: %v", err)
	}

	ih := &InterviewHandler{
		Registry:  registry.New(instrumentedEmb, instrumentedGen, cfg.Interview),
		Extractor: extract.New(cfg.Document),
		Embedder:  instrumentedEmb,
		Document:  cfg.Document,
		Metrics:   metrics,
		Logger:    log.New(log.Writer(), "[INTERVIEW] ", log.LstdFlags),
	}
	api := e.Group("/api")
	ih.Register(api.Group("/interviews"))

	log.Printf("listening on %s", cfg.Server.Address)
	return e.Start(cfg.Server.Address)
}
