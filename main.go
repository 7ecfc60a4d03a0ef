package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"sportsgear/internal/accounts"
	"sportsgear/internal/catalog"
	"sportsgear/internal/config"
	"sportsgear/internal/database"
	"sportsgear/internal/handlers"
	"sportsgear/internal/notify"
	"sportsgear/internal/observability"
	"sportsgear/internal/orders"
	"sportsgear/internal/reporting"
	"sportsgear/internal/repository"
)

func main() {
	config.Load()
	cfg := config.AppEnv

	logger, err := observability.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	shutdownTracing := observability.InstallTracing("sportsgear", cfg.TraceSampleRatio)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	db := client.Database(cfg.DBName)
	logger.Info("mongo connected", zap.String("database", db.Name()))

	if err := database.EnsureIndexes(db, logger.Named("database")); err != nil {
		logger.Warn("index setup incomplete", zap.Error(err))
	}

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	bannerRepo := repository.NewBannerRepository(db)

	sender, closeSender := newSender(cfg, logger.Named("notify"))
	defer closeSender()

	var cache reporting.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, stats cache will miss until it recovers", zap.Error(err))
		}
		cache = reporting.NewRedisCache(rdb)
	}

	reporter := reporting.NewReporter(
		reporting.Sources{Orders: orderRepo, Users: userRepo},
		cache,
		reporting.Options{ExcludeCancelled: cfg.RevenueExcludeCancelled, TTL: cfg.StatsCacheTTL},
		logger.Named("reporting"),
	)

	var tx orders.Transactor
	if cfg.OrderTransactions {
		tx = repository.NewTransactor(client)
	}

	engine := orders.NewEngine(orders.Deps{
		Orders:   orderRepo,
		Catalog:  productRepo,
		Notifier: sender,
		Stats:    reporter,
		Tx:       tx,
		Pricing: orders.Pricing{
			ShippingFee:           cfg.ShippingFee,
			FreeShippingThreshold: cfg.FreeShippingThreshold,
			TaxRate:               cfg.TaxRate,
		},
		StrictTransitions: cfg.StrictTransitions,
		Logger:            logger.Named("orders"),
	})

	tokens := accounts.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	accountService := accounts.NewService(userRepo, sender, tokens, accounts.Config{OTPTTL: cfg.OTPTTL}, logger.Named("accounts"))

	router := handlers.NewRouter(handlers.Deps{
		Orders:     engine,
		Users:      userRepo,
		Stats:      reporter,
		Products:   catalog.NewService(productRepo, logger.Named("catalog")),
		Categories: catalog.NewCategories(categoryRepo),
		Banners:    catalog.NewBanners(bannerRepo),
		Accounts:   accountService,
		Tokens:     tokens,
		Lookup:     userRepo,
		Cookie:     handlers.CookieConfig{TTL: tokens.TTL(), Secure: cfg.CookieSecure},
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, "sportsgear"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}
}

// newSender publishes to Kafka when brokers are configured and logs
// messages otherwise. Both sit behind a circuit breaker.
func newSender(cfg config.Config, logger *zap.Logger) (notify.Sender, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no kafka brokers configured, notifications are logged only")
		return notify.NewBreaker(notify.NewLogSender(logger), logger), func() {}
	}

	kafka := notify.NewKafkaSender(cfg.NotifyTopic, cfg.KafkaBrokers...)
	closeFn := func() {
		if err := kafka.Close(); err != nil {
			logger.Warn("kafka writer close failed", zap.Error(err))
		}
	}
	return notify.NewBreaker(kafka, logger), closeFn
}
