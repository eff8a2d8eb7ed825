package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobmatch/internal/delivery/http/handler"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/delivery/http/routes"
	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Fiber     *fiber.App
	container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:      c.Config.App.AppName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	})

	registerGlobalMiddleware(f, c.Logger)
	registry(c).Register(f)

	return &App{Fiber: f, container: c}
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func registry(c *Container) *routes.Registry {
	var cachePinger handler.Pinger
	if c.Redis.Available() {
		cachePinger = c.Redis
	}

	return &routes.Registry{
		Auth:    middleware.NewAuthMiddleware(jwt.NewHMACService(c.Config.JWT.AccessSecret)),
		Health:  handler.NewHealthHandler(c.DB, cachePinger),
		Score:   handler.NewScoreHandler(c.Scoring),
		Ranking: handler.NewRankingHandler(c.Ranking, c.Logger),
		Match:   handler.NewMatchHandler(c.Lifecycle),
		Notify:  ws.NewHandler(c.Hub, c.Logger),
	}
}

// Run serves HTTP alongside the websocket hub and, when configured, the pub/sub relay.
// It returns after ctx is cancelled and the server has drained, or when the server fails.
// A failing relay is logged and does not stop the server.
func (a *App) Run(ctx context.Context) error {
	c := a.container
	addr, err := ListenAddr(c.Config.App.HTTPPort)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.Hub.Run(gctx)
		return nil
	})

	if c.Relay != nil {
		g.Go(func() error {
			runRelay(gctx, c.Relay, c.Logger)
			return nil
		})
	}

	g.Go(func() error {
		c.Logger.Info("http server listening", zap.String("addr", addr), zap.String("env", c.Config.App.Environment))
		if err := a.Fiber.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		c.Logger.Info("shutting down http server")
		return a.Fiber.ShutdownWithContext(shutdownCtx)
	})

	return g.Wait()
}

type relayRunner interface {
	Run(ctx context.Context) error
}

// runRelay keeps a relay failure local: HTTP and the local hub keep serving, only the
// cross-instance fan-out stops.
func runRelay(ctx context.Context, r relayRunner, logger *zap.Logger) {
	err := r.Run(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	logger.Warn("notification relay stopped, cross-instance delivery disabled", zap.Error(err))
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
