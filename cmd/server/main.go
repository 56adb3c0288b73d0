package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/raffle-manager/internal/config"
	"github.com/iliyamo/raffle-manager/internal/database"
	"github.com/iliyamo/raffle-manager/internal/handler"
	"github.com/iliyamo/raffle-manager/internal/logger"
	"github.com/iliyamo/raffle-manager/internal/middleware"
	"github.com/iliyamo/raffle-manager/internal/queue"
	"github.com/iliyamo/raffle-manager/internal/repository"
	"github.com/iliyamo/raffle-manager/internal/router"
	"github.com/iliyamo/raffle-manager/internal/service"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(cfg.Env); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := zap.L()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := database.EnsureSchema(bootCtx, db); err != nil {
		cancel()
		log.Fatal("schema bootstrap failed", zap.Error(err))
	}
	users := repository.NewUserRepo(db)
	created, err := users.EnsureAdmin(bootCtx, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost)
	cancel()
	if err != nil {
		log.Fatal("admin bootstrap failed", zap.Error(err))
	}
	if created {
		log.Info("admin user created", zap.String("email", cfg.AdminEmail))
	}

	raffleRepo := repository.NewRaffleRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	drawRepo := repository.NewDrawRepo(db)

	raffles := service.NewRaffleService(raffleRepo, ticketRepo)
	tickets := service.NewTicketService(raffleRepo, ticketRepo)
	var publisher service.DrawPublisher
	if cfg.RabbitMQURL != "" {
		publisher = queue.NewPublisher(cfg.RabbitMQURL)
		go func() {
			err := queue.StartDrawAuditConsumer(ctx, cfg.RabbitMQURL, cfg.DrawAuditLog)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("draw audit consumer stopped", zap.Error(err))
			}
		}()
	}
	draws := service.NewDrawService(raffleRepo, ticketRepo, drawRepo, publisher)

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Recover())

	admin := handler.NewAdminHandler(raffles, tickets, draws, cfg.PublicBaseURL, cfg.PDFFontPath)
	admin.GenerateTimeout = cfg.GenerateTimeout

	router.RegisterRoutes(e, router.Handlers{
		Auth:   handler.NewAuthHandler(cfg, users),
		Admin:  admin,
		Public: handler.NewPublicHandler(raffles, tickets, cfg.PublicBaseURL),
		DB:     db,
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
