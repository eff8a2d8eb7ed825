package routes

import (
	"jobmatch/internal/delivery/http/handler"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	Auth    *middleware.AuthMiddleware
	Health  *handler.HealthHandler
	Score   *handler.ScoreHandler
	Ranking *handler.RankingHandler
	Match   *handler.MatchHandler
	Notify  *ws.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1 := app.Group("/api/v1", r.Auth.Middleware())

	if r.Score != nil {
		r.Score.RegisterRoutes(v1)
	}
	if r.Ranking != nil {
		r.Ranking.RegisterRoutes(v1, middleware.RequireRole)
	}
	if r.Match != nil {
		r.Match.RegisterRoutes(v1, middleware.RequireRole)
	}
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.Notify == nil {
		return
	}
	app.Get("/ws/notifications", r.Auth.QueryMiddleware(), r.Notify.HandleNotifications)
}
