package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"taskflow.com/taskflow/internal/auth"
	config "taskflow.com/taskflow/internal/configs"
	"taskflow.com/taskflow/internal/feed"
	httpapi "taskflow.com/taskflow/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the TaskFlow HTTP API, the change feed relay and the streak workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadConfig()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tp := config.NewTracerProvider("taskflow", logger)

		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}

		if a.redis != nil {
			relay := feed.NewRedisRelay(a.redis, cfg.FeedChannel, a.hub, logger)
			go relay.Run(ctx)
		}

		authn, err := auth.New(auth.Options{
			Mode:     cfg.AuthMode,
			Secret:   cfg.AuthSecret,
			Domain:   cfg.Auth0Domain,
			Audience: cfg.Auth0Audience,
		})
		if err != nil {
			return err
		}
		if authn.Mode() == auth.ModeDisabled {
			logger.Warn("token validation is disabled, every request runs as the anonymous user")
		}

		registry := a.newRegistry()
		handler := httpapi.NewHandler(httpapi.Deps{
			Teams:     a.teams,
			Tasks:     a.tasks,
			Streaks:   a.streaks,
			Chat:      a.chat,
			Users:     a.users,
			Boards:    registry,
			Changes:   a.hub,
			Heartbeat: time.Duration(cfg.StreamHeartbeatSeconds) * time.Second,
		}, logger)

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		httpapi.Register(e, handler, authn, logger, cfg.RateLimit)

		go func() {
			logger.WithField("addr", cfg.AppURL).Info("HTTP server listening")
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("server stopped")
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()

		if err := stopHTTP(shutdownCtx, e, a.hub); err != nil {
			logger.WithError(err).Warn("HTTP shutdown incomplete")
		}
		registry.Close()
		a.close(shutdownCtx)
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("tracer shutdown incomplete")
		}

		logger.Info("HTTP server and streak workers shut down gracefully")
		return nil
	},
}

// stopHTTP closes the change feed hub first so open event streams end, then
// waits for the remaining requests.
func stopHTTP(ctx context.Context, e *echo.Echo, hub *feed.Hub) error {
	hub.Close()
	return e.Shutdown(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
