package main // Entry point package

import (
    "context"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/sirupsen/logrus"

    "github.com/estadio/futsal-booking/internal/cache"
    "github.com/estadio/futsal-booking/internal/config"
    "github.com/estadio/futsal-booking/internal/database"
    "github.com/estadio/futsal-booking/internal/handler"
    appmw "github.com/estadio/futsal-booking/internal/middleware"
    "github.com/estadio/futsal-booking/internal/queue"
    "github.com/estadio/futsal-booking/internal/repository"
    "github.com/estadio/futsal-booking/internal/router"
    "github.com/estadio/futsal-booking/internal/schedule"
    "github.com/estadio/futsal-booking/internal/storage"
    "github.com/estadio/futsal-booking/internal/worker"
)

func main() {
    _ = godotenv.Load() // .env is optional; real env vars win

    log := logrus.New()
    log.SetFormatter(&logrus.JSONFormatter{})

    cfg := config.Load()
    if cfg.Env == "dev" {
        log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
        log.SetLevel(logrus.DebugLevel)
    }

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.WithError(err).Fatal("database connect failed")
    }
    defer db.Close()

    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Warn("redis unavailable; slot cache and rate limiting disabled")
    }

    proofs, err := storage.NewProofStore(cfg.ProofDir, cfg.PublicBaseURL)
    if err != nil {
        log.WithError(err).Fatal("proof store init failed")
    }

    clock := schedule.RealClock{}
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    fields := repository.NewFieldRepo(db)
    bookings := repository.NewBookingRepo(db)

    cacheCfg := config.LoadSlotCacheConfig()
    var slotClient = rdb
    if !cacheCfg.Enabled {
        slotClient = nil
    }
    slots := cache.NewSlotCache(slotClient, cacheCfg.Prefix, cacheCfg.TTL)

    publish := cfg.RabbitURL != ""
    if publish {
        go func() {
            if err := queue.StartBookingConsumer(cfg.RabbitURL, slots, log); err != nil {
                log.WithError(err).Error("booking consumer stopped")
            }
        }()
    } else {
        log.Warn("RABBITMQ_URL not set; booking events disabled")
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    expiry := worker.NewExpiryWorker(bookings, cfg.ExpirySweepInterval, log, publish)
    go expiry.Run(ctx)

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.RequestID())
    e.Static("/proofs", proofs.Dir())

    limiter := appmw.NewRateLimiter(config.LoadRateLimitConfig(), rdb)

    authH := handler.NewAuthHandler(cfg, users, tokens)
    fieldH := handler.NewFieldHandler(fields, bookings, slots, clock)
    bookingH := handler.NewBookingHandler(cfg, fields, bookings, proofs, clock, log, publish)
    adminH := handler.NewAdminHandler(cfg, fields, bookings, clock, log, publish)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, fieldH, limiter)
    router.RegisterCustomer(e, bookingH, cfg.JWTSecret, limiter)
    router.RegisterAdmin(e, adminH, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("server starting")

    go func() {
        <-ctx.Done()
        shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = e.Shutdown(shutdownCtx)
    }()

    if err := e.Start(addr); err != nil {
        log.WithError(err).Info("server stopped")
    }
}
