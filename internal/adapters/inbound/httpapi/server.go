// Package httpapi exposes content modification runs over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/abdidvp/contentmod/internal/adapters/outbound/report"
	"github.com/abdidvp/contentmod/internal/application"
	"github.com/abdidvp/contentmod/internal/domain"
)

// ModificationPath is the endpoint that triggers a run.
const ModificationPath = "/bin/content/modification"

const apiKeyHeader = "x-api-key"

// Options configures the server. An empty APIKey disables authentication.
type Options struct {
	APIKey string
	Logger *zap.Logger
}

// Server serves the modification endpoint.
type Server struct {
	runner *application.MigrationRunner
	logger *zap.Logger
	apiKey string
	echo   *echo.Echo
}

func New(runner *application.MigrationRunner, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{runner: runner, logger: logger, apiKey: opts.APIKey}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))

	e.POST(ModificationPath, s.handleModify, s.apiKeyMiddleware)
	e.GET(ModificationPath, methodNotAllowed)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	s.echo = e
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for running ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) apiKeyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.apiKey == "" {
			return next(c)
		}

		apiKey := c.Request().Header.Get(apiKeyHeader)
		if apiKey == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing x-api-key header")
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.apiKey)) != 1 {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid API key")
		}

		return next(c)
	}
}

// handleModify reads basePath, propertyName, original and target from the
// query string or form body and streams the run narrative. Parameter errors
// are answered with 400 before anything is queried.
func (s *Server) handleModify(c echo.Context) error {
	r := c.Request()
	if err := r.ParseForm(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	lookup := func(name string) (string, bool) {
		vs, ok := r.Form[name]
		if !ok || len(vs) == 0 {
			return "", false
		}
		return vs[0], true
	}

	asJSON := c.QueryParam("format") == "json"
	contentType := echo.MIMETextPlainCharsetUTF8
	newSink := func(w io.Writer) domain.ProgressSink {
		if asJSON {
			return report.NewJSONSink(w)
		}
		return report.NewTextSink(w)
	}
	if asJSON {
		contentType = "application/x-ndjson"
	}

	if _, err := domain.ParseRequest(lookup); err != nil {
		var buf bytes.Buffer
		_, _ = s.runner.RunParams(r.Context(), lookup, newSink(&buf))
		return c.Blob(http.StatusBadRequest, contentType, buf.Bytes())
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, contentType)
	res.WriteHeader(http.StatusOK)

	// Once the body has started the status is fixed; aborts are reported in
	// the stream itself.
	if _, err := s.runner.RunParams(r.Context(), lookup, newSink(res)); err != nil {
		s.logger.Warn("run aborted", zap.Error(err))
	}
	return nil
}

func methodNotAllowed(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
	return echo.NewHTTPError(http.StatusMethodNotAllowed, "content modification requires POST")
}
