// Package server is the HTTP and websocket interface to a draw service.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/abh/certman"
	"github.com/labstack/echo/v4"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"go.ntppool.org/common/logger"

	"go.inspectdraw.org/draw/draw"
)

type Config struct {
	Listen string

	// PublicURL is encoded in the share QR code; empty means the
	// request's own scheme and host.
	PublicURL string

	// TLSCert and TLSKey enable TLS; the files are reloaded when they
	// change.
	TLSCert string
	TLSKey  string

	// Animate is the base configuration for animated draws.
	Animate draw.AnimateOptions
}

type Server struct {
	cfg Config
	svc *draw.Service
	hub *Hub
	log *slog.Logger
	e   *echo.Echo
}

// NewServer sets up the routes and registers the live hub as an
// announcer on svc.
func NewServer(log *slog.Logger, cfg Config, svc *draw.Service) *Server {
	srv := &Server{
		cfg: cfg,
		svc: svc,
		hub: NewHub(log),
		log: log,
	}
	svc.AddAnnouncer(srv.hub)
	srv.e = srv.setupEcho()
	return srv
}

// Handler is the http handler for all routes.
func (srv *Server) Handler() http.Handler {
	return srv.e
}

func (srv *Server) Hub() *Hub {
	return srv.hub
}

func (srv *Server) setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(otelecho.Middleware("inspectdraw"))
	e.Use(slogecho.New(srv.log))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := logger.NewContext(req.Context(), srv.log)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	})

	e.GET("/api/catalog", srv.getCatalog)
	e.GET("/api/round", srv.getRound)
	e.POST("/api/round/reset", srv.resetRound)
	e.GET("/api/history", srv.getHistory)
	e.DELETE("/api/history", srv.clearHistory)
	e.GET("/api/candidates/:target/:category", srv.getCandidates)
	e.POST("/api/draws/:target/:category", srv.drawAnimated)
	e.POST("/api/draws/:target", srv.drawTarget)
	e.GET("/api/live", srv.live)
	e.GET("/qr.png", srv.qrCode)

	return e
}

// Run serves until ctx is cancelled.
func (srv *Server) Run(ctx context.Context) error {
	hs := &http.Server{
		Addr:    srv.cfg.Listen,
		Handler: srv.e,

		BaseContext: func(net.Listener) context.Context {
			return ctx
		},

		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       240 * time.Second,
	}

	useTLS := srv.cfg.TLSCert != "" && srv.cfg.TLSKey != ""
	if useTLS {
		cm, err := certman.New(srv.cfg.TLSCert, srv.cfg.TLSKey)
		if err != nil {
			return fmt.Errorf("certificate: %w", err)
		}
		cm.Logger(logger.NewStdLog("cm", false, srv.log))
		if err := cm.Watch(); err != nil {
			return fmt.Errorf("certificate watch: %w", err)
		}

		hs.TLSConfig = &tls.Config{
			MinVersion:     tls.VersionTLS12,
			GetCertificate: cm.GetCertificate,
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.hub.Close()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			srv.log.Warn("http shutdown", "err", err)
		}
	}()

	srv.log.InfoContext(ctx, "starting server", "listen", srv.cfg.Listen, "tls", useTLS)

	var err error
	if useTLS {
		err = hs.ListenAndServeTLS("", "")
	} else {
		err = hs.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
