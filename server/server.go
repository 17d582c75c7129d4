// Package server is the public verification portal. It makes the share
// links printed by the client resolvable in a browser.
package server

import (
	"context"
	"net/http"

	"github.com/existflow/qazzerep/internal/i18n"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Backend fetches stored reports without a login
type Backend interface {
	PublicReport(ctx context.Context, reportID string) (*model.PublicReport, error)
}

// Server is the verification portal
type Server struct {
	backend   Backend
	catalog   *i18n.Catalog
	publicURL string
	pages     *pages
	metrics   *metrics
	registry  *prometheus.Registry
	echo      *echo.Echo
}

// New creates a portal serving reports from backend. publicURL is the
// origin encoded into QR codes.
func New(backend Backend, catalog *i18n.Catalog, publicURL string) (*Server, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		backend:   backend,
		catalog:   catalog,
		publicURL: publicURL,
		pages:     p,
		metrics:   newMetrics(reg),
		registry:  reg,
	}
	s.setupEcho()
	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(requestLogger)
	e.Use(s.metrics.middleware)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	e.GET("/verify/:reportId", s.handleVerify)
	e.GET("/verify/:reportId/qr.png", s.handleQR)
	e.GET("/", s.handleIndex)
	e.GET("/:slug", s.handleInfo)

	s.echo = e
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// lang picks the catalog for a request from ?lang=, falling back to the
// portal default
func (s *Server) lang(c echo.Context) *i18n.Catalog {
	q := c.QueryParam("lang")
	if q == "" {
		return s.catalog
	}
	lang, err := i18n.ParseLang(q)
	if err != nil {
		return s.catalog
	}
	return s.catalog.WithLang(lang)
}
