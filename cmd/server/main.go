package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"propcore/internal/api"
	"propcore/internal/config"
	"propcore/internal/engine"
	"propcore/internal/matcher"
	"propcore/internal/repository"
	"propcore/internal/risk"
	"propcore/internal/service"
	"propcore/internal/venue"
	"propcore/pkg/retry"
	"propcore/pkg/utils"

	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("database connection failed",
			zap.String("dsn", cfg.Database.DSNWithoutPassword()),
			zap.Error(err),
		)
	}
	defer db.Close()
	logger.Info("connected to database", zap.String("dsn", cfg.Database.DSNWithoutPassword()))

	// Репозитории
	accountRepo := repository.NewAccountRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	checkpointRepo := repository.NewCheckpointRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Venue клиент с read-through кэшем asset-индексов.
	// Loader замыкается на ещё не созданный клиент: кэш дергает его
	// только после полной инициализации.
	var venueClient *venue.Client
	assetCache := venue.NewAssetIndexCache(func(ctx context.Context, symbol string) (int, error) {
		return venueClient.FetchAssetIndex(ctx, symbol)
	})
	venueClient = venue.NewClient(venue.ClientConfig{
		BaseURL:   cfg.Venue.BaseURL,
		APIKey:    cfg.Venue.APIKey,
		RateLimit: cfg.Venue.RateLimit,
		Burst:     float64(cfg.Venue.Burst),
		HTTP:      venue.DefaultHTTPClientConfig(),
		Retry:     retry.DefaultConfig(),
	}, assetCache, logger.Named("venue"))

	// Риск-ядро
	clock := risk.SystemClock{}
	monitor := risk.NewDrawdownMonitor(accountRepo, eventRepo, logger.Named("risk"))
	hwmTracker := risk.NewHighWaterMarkTracker(accountRepo, eventRepo, logger.Named("risk"))
	cpEvaluator := risk.NewCheckpointEvaluator(accountRepo, checkpointRepo, eventRepo, clock, logger.Named("risk"))
	resetScheduler := risk.NewDailyResetScheduler(
		accountRepo,
		eventRepo,
		venueClient,
		risk.DailyResetConfig{PositionTimeout: cfg.Risk.PositionTimeout},
		logger.Named("reset"),
	)

	// Сервисы
	svcCfg := service.RiskServiceConfig{PositionTimeout: cfg.Risk.PositionTimeout}
	riskService := service.NewRiskService(accountRepo, monitor, hwmTracker, venueClient, svcCfg, logger.Named("risk_service"))
	checkpointService := service.NewCheckpointService(accountRepo, cpEvaluator, venueClient, svcCfg, logger.Named("checkpoint_service"))
	accountService := service.NewAccountService(accountRepo, eventRepo)

	// Матчер лимитных ордеров
	orderMatcher := matcher.New(orderRepo, eventRepo, venueClient, matcher.Config{
		DebounceThreshold: cfg.Matcher.DebounceThreshold,
		FillTimeout:       cfg.Matcher.FillTimeout,
	}, logger.Named("matcher"))

	// Движок + ценовой поток
	eng := engine.New(
		engine.Config{
			NumShards:               cfg.Engine.NumShards,
			ShardBuffer:             cfg.Engine.ShardBuffer,
			RiskCheckInterval:       cfg.Engine.RiskCheckInterval,
			CheckpointCheckInterval: cfg.Engine.CheckpointCheckInterval,
			SubscriptionRefresh:     cfg.Engine.SubscriptionRefresh,
			DailyResetHour:          cfg.Risk.DailyResetHour,
		},
		orderMatcher,
		riskService,
		accountRepo,
		checkpointService,
		resetScheduler,
		orderRepo,
		nil, // поток подключается ниже
		clock,
		logger.Named("engine"),
	)

	priceStream := venue.NewPriceStream(
		venue.DefaultStreamConfig(cfg.Venue.StreamURL),
		eng.OnPriceUpdate,
		logger.Named("stream"),
	)
	eng.SetStream(priceStream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go priceStream.Run(ctx)
	go func() {
		if err := eng.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("engine stopped", zap.Error(err))
		}
	}()

	// HTTP API
	router := api.SetupRoutes(&api.Dependencies{
		AccountService:    accountService,
		RiskService:       riskService,
		CheckpointService: checkpointService,
		APITokenHash:      cfg.Security.APITokenHash,
		Logger:            logger.Named("http"),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if cfg.Server.UseHTTPS {
			if err := server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile); err != nil && err != http.ErrServerClosed {
				logger.Fatal("server failed", zap.Error(err))
			}
		} else {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("server failed", zap.Error(err))
			}
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
	priceStream.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

// initDatabase создает подключение к базе данных
func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
