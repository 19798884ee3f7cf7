package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/seatlab/lab-seat-reservation/internal/config"
	"github.com/seatlab/lab-seat-reservation/internal/database"
	"github.com/seatlab/lab-seat-reservation/internal/handler"
	"github.com/seatlab/lab-seat-reservation/internal/middleware"
	"github.com/seatlab/lab-seat-reservation/internal/queue"
	"github.com/seatlab/lab-seat-reservation/internal/repository"
	"github.com/seatlab/lab-seat-reservation/internal/router"
	"github.com/seatlab/lab-seat-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	cancel()
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	accounts := repository.NewAccountRepo(db)
	tokens := repository.NewTokenRepo(db)
	reservations := repository.NewReservationRepo(db, accounts)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// Redis backs the limiter and the browse cache.  When it is down
	// both middlewares pass requests straight through.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	auth := handler.NewAuthHandler(cfg, accounts, tokens)
	account := handler.NewAccountHandler(cfg, accounts)
	catalogH := handler.NewCatalogHandler(reservations)
	reserv := handler.NewReservationHandler(accounts, reservations)
	tech := handler.NewTechnicianHandler(reservations)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterPublic(e, catalogH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterStudent(e, reserv, account, cfg.JWTSecret)
	router.RegisterTechnician(e, tech, cfg.JWTSecret)

	// Background work: audit-log consumer and the completed sweep.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()
	go service.StartCompletedSweep(context.Background(), reservations, cfg.SweepInterval)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
