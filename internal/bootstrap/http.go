package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rajatvd/GifGenerator/config"
	httpx "github.com/rajatvd/GifGenerator/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the status server. It does not start listening.
func NewHTTPServer(cfg HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Status: cfg.Services.Status,
		Job: httpx.JobInfo{
			Generator: cfg.Services.Spec.GeneratorName,
			Interval:  cfg.Services.Spec.Interval,
			Count:     cfg.Services.Spec.ArtifactCount,
			Channel:   cfg.Services.Channel.Name(),
		},
		Logger: logger.With("component", "http"),
	})

	// Guard against empty addr to avoid listening on Go default
	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: appCfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// ServeHTTP listens until ctx is done, then shuts the server down within
// shutdownTimeout. A listen failure is returned.
func ServeHTTP(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", server.Addr, err)
	}
	return serveListener(ctx, server, ln, shutdownTimeout, logger)
}

func serveListener(
	ctx context.Context,
	server *http.Server,
	ln net.Listener,
	shutdownTimeout time.Duration,
	logger *slog.Logger,
) error {
	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting HTTP server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}
