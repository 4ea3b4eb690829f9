package main // Entry point package

import (
    "context"
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/grizzco/salmon-run-scheduler/internal/config"
    "github.com/grizzco/salmon-run-scheduler/internal/database"
    "github.com/grizzco/salmon-run-scheduler/internal/handler"
    "github.com/grizzco/salmon-run-scheduler/internal/middleware"
    "github.com/grizzco/salmon-run-scheduler/internal/queue"
    "github.com/grizzco/salmon-run-scheduler/internal/repository"
    "github.com/grizzco/salmon-run-scheduler/internal/router"
    "github.com/grizzco/salmon-run-scheduler/internal/validation"
)

func main() {
    _ = godotenv.Load() // optional .env for local development
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connection failed: %v", err)
    }
    defer db.Close()
    if err := database.EnsureSchema(context.Background(), db); err != nil {
        log.Fatalf("schema setup failed: %v", err)
    }

    // Redis is optional: a nil client disables caching and rate limiting.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; caching and rate limiting disabled")
    }

    // Background consumer appends confirmed bookings to logs/booking.log.
    go queue.StartBookingConsumer()

    slotRepo := repository.NewSlotRepo(db)
    bookingRepo := repository.NewBookingRepo(db)

    cacheCfg := config.LoadCacheConfig()
    routes := router.Routes{
        Availability: handler.NewAvailabilityHandler(slotRepo),
        Booking:      handler.NewBookingHandler(slotRepo, bookingRepo, true),
        Schedule:     handler.NewScheduleHandler(cfg.ScheduleFeedURL, rdb, cacheCfg.ScheduleTTL),
    }
    if rdb != nil {
        routes.RateLimit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
        routes.AvailabilityCache = middleware.NewResponseCache(cacheCfg, rdb)
    }

    e := echo.New()
    e.Validator = validation.New()
    router.Register(e, routes)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
