// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/raffle-manager/internal/config"
	"github.com/iliyamo/raffle-manager/internal/handler"
	"github.com/iliyamo/raffle-manager/internal/middleware"
	"github.com/iliyamo/raffle-manager/internal/model"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth   *handler.AuthHandler
	Admin  *handler.AdminHandler
	Public *handler.PublicHandler
	DB     handler.Pinger
}

// Options carries middleware settings. A nil Redis client turns caching
// and rate limiting into pass-throughs.
type Options struct {
	JWTSecret string
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// RegisterRoutes mounts health checks, login, the organizer API under /v1
// and the public raffle pages under /v1/public.
func RegisterRoutes(e *echo.Echo, h Handlers, opts Options) {
	e.GET("/healthz", handler.Health)
	if h.DB != nil {
		e.GET("/readyz", handler.Ready(h.DB))
	}

	e.POST("/v1/auth/login", h.Auth.Login)

	registerPublic(e, h.Public, opts)
	registerAdmin(e, h.Admin, h.Auth, opts.JWTSecret)
}

func registerAdmin(e *echo.Echo, a *handler.AdminHandler, auth *handler.AuthHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/me", auth.Me)

	g.GET("/raffles", a.ListRaffles)
	g.POST("/raffles", a.CreateRaffle)
	g.GET("/raffles/:id", a.GetRaffle)
	g.POST("/raffles/:id/generate-tickets", a.GenerateTickets)
	g.GET("/raffles/:id/tickets", a.ListTickets)
	g.POST("/raffles/:id/draw", a.Draw)
	g.GET("/raffles/:id/draws", a.ListDraws)
	g.GET("/raffles/:id/export.csv", a.ExportCSV)
	g.GET("/raffles/:id/export.pdf", a.ExportPDF)

	g.PATCH("/tickets/:id", a.UpdateTicket)
}

// registerPublic needs no token. Raffle and ticket lookups are rate
// limited per client and cached briefly; the QR image is only rate limited.
func registerPublic(e *echo.Echo, p *handler.PublicHandler, opts Options) {
	limit := middleware.NewTokenBucket(opts.RateLimit, opts.Redis)
	cache := middleware.NewRedisCache(opts.Cache, opts.Redis)

	g := e.Group("/v1/public/raffles", limit)
	g.GET("/:id", p.GetRaffle, cache)
	g.GET("/:id/tickets/:number", p.GetTicket, cache)
	g.GET("/:id/qr.png", p.QR)
}
