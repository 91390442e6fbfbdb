package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"

	"github.com/tsudoba/event-registry/internal/application/event"
	"github.com/tsudoba/event-registry/internal/application/importer"
	"github.com/tsudoba/event-registry/internal/application/notify"
	"github.com/tsudoba/event-registry/internal/config"
	"github.com/tsudoba/event-registry/internal/infrastructure/caching/redis"
	"github.com/tsudoba/event-registry/internal/infrastructure/db/postgres"
	rabbitpub "github.com/tsudoba/event-registry/internal/infrastructure/messaging/rabbitmq"
	"github.com/tsudoba/event-registry/internal/logger"
	"github.com/tsudoba/event-registry/internal/transport/http/handlers"
	"github.com/tsudoba/event-registry/internal/transport/http/router"
)

// sysClock implements event.Clock using system time.
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// App holds all dependencies for the service.
type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB

	Cache      *redis.Client
	Publisher  *rabbitpub.Publisher
	Dispatcher *notify.Dispatcher
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	u, _ := url.Parse(cfg.DatabaseURL)
	zlog.Info().
		Str("db_user", u.User.Username()).
		Str("db_host", u.Host).
		Msg("db config loaded")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
	}

	app := NewApp(cfg, db)
	defer func() {
		if app.Publisher != nil {
			_ = app.Publisher.Close()
		}
		if app.Cache != nil {
			_ = app.Cache.Close()
		}
	}()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		zlog.Info().Msg("shutdown signal received")
	case err := <-errCh:
		zlog.Error().Err(err).Msg("http server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	_ = app.Server.Shutdown(shutdownCtx)

	// Give in-flight notification attempts a chance to finish.
	if err := app.Dispatcher.Drain(shutdownCtx); err != nil {
		zlog.Warn().Err(err).Msg("notification dispatches still in flight at exit")
	}
	zlog.Info().Msg("shutdown complete")
}

func NewApp(cfg *config.Config, db *sql.DB) *App {
	// 1) Infrastructure
	repo := postgres.New(db)

	var cache *redis.Client
	if cfg.RedisURL != "" {
		c, err := redis.New(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable: serving without cache")
		} else {
			cache = c
		}
	}

	var rabbit *rabbitpub.Publisher
	var transport notify.Transport = notify.NoopTransport{}
	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit publisher init failed")
		}
		rabbit = p
		transport = p
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: notifications will not leave the process")
	}

	// 2) Notification pipeline
	ncfg := notify.Config{
		Enabled:      cfg.NotifyEnabled,
		Destination:  cfg.NotifyDestination,
		AdminBaseURL: cfg.AdminBaseURL,
	}
	comp := notify.NewComposer(ncfg, logger.Logger)
	pub := notify.NewPublisher(ncfg, transport, comp, cfg.NotifyTimeout, logger.Logger)
	dispatcher := notify.NewDispatcher(pub, logger.Logger)

	// 3) Application
	var svcCache event.Cache
	if cache != nil {
		svcCache = cache
	}
	svc := event.New(repo, sysClock{}, dispatcher, svcCache, cfg.CacheTTLDetails, cfg.CacheTTLList)

	// 4) Transport
	h := handlers.NewEventsHandler(svc, importer.NewConverter(), sysClock{})
	var cachePinger handlers.Pinger
	if cache != nil {
		cachePinger = cache
	}
	z := handlers.NewHealthHandler(db, cachePinger)

	// 5) Router + server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.New(h, z, cfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &App{
		Config:     cfg,
		Server:     srv,
		DB:         db,
		Cache:      cache,
		Publisher:  rabbit,
		Dispatcher: dispatcher,
	}
}
