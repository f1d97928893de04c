// Package healthz runs the liveness HTTP endpoint expected by the hosting
// platform. GET / answers with a static acknowledgment, GET /health with a
// small JSON status.
package healthz

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oleglapko/poizon-2/core/buildinfo"
	"github.com/oleglapko/poizon-2/core/logger"
	"log/slog"
)

// Config holds health server settings.
type Config struct {
	Enabled bool   `yaml:"enabled" envconfig:"HEALTH_ENABLED"`
	Listen  string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
}

// Server is the liveness HTTP server.
type Server struct {
	echo    *echo.Echo
	listen  string
	started time.Time
}

// New builds a Server. An empty listen address defaults to ":5000".
func New(cfg Config) *Server {
	listen := cfg.Listen
	if listen == "" {
		listen = ":5000"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		listen:  listen,
		started: time.Now(),
	}

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Bot is running!")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":         "ok",
			"version":        buildinfo.Version,
			"uptime_seconds": int(time.Since(s.started).Seconds()),
		})
	})

	return s
}

// Start runs the server in its own goroutine.
func (s *Server) Start(ctx context.Context) {
	go func() {
		logger.Info(ctx, "health", "health.listen",
			slog.String("listen", s.listen),
		)
		if err := s.echo.Start(s.listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "health", "health.failed",
				slog.String("listen", s.listen),
				slog.String("err", err.Error()),
			)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
