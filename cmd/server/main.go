package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/socialguillotine/backend/api/handler"
	"github.com/socialguillotine/backend/internal/config"
	"github.com/socialguillotine/backend/internal/infrastructure/discord"
	"github.com/socialguillotine/backend/internal/infrastructure/ledger"
	"github.com/socialguillotine/backend/internal/infrastructure/monitor"
	pgInfra "github.com/socialguillotine/backend/internal/infrastructure/postgres"
	redisInfra "github.com/socialguillotine/backend/internal/infrastructure/redis"
	"github.com/socialguillotine/backend/internal/infrastructure/textgen"
	"github.com/socialguillotine/backend/internal/middleware"
	"github.com/socialguillotine/backend/internal/router"
	"github.com/socialguillotine/backend/internal/services"
	"github.com/socialguillotine/backend/internal/services/lifecycle"
	"github.com/socialguillotine/backend/pkg/httpcontext"
	"github.com/socialguillotine/backend/pkg/logger"
	"github.com/socialguillotine/backend/repository/postgres"
	redisRepo "github.com/socialguillotine/backend/repository/redis"
	authUC "github.com/socialguillotine/backend/usecase/auth"
	groupUC "github.com/socialguillotine/backend/usecase/group"
	praiseUC "github.com/socialguillotine/backend/usecase/praise"
	statsUC "github.com/socialguillotine/backend/usecase/stats"
	taskUC "github.com/socialguillotine/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	ledgerStore, err := ledger.Open(cfg.Ledger.Path, "punishments")
	if err != nil {
		zapLogger.Fatal("failed to open punishment ledger", zap.Error(err))
	}
	manager.Register("ledger", func(ctx context.Context) error {
		return ledgerStore.Close()
	})

	mon := monitor.New(pool, redisClient, ledgerStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	badgeRepo := postgres.NewBadgeRepository(pool)
	groupRepo := postgres.NewGroupRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	webhook := discord.NewWebhook(cfg.Webhook.URL, zapLogger)
	textgenClient := textgen.NewClient(textgen.Config{
		APIKey:  cfg.TextGen.APIKey,
		BaseURL: cfg.TextGen.BaseURL,
		Model:   cfg.TextGen.Model,
	})

	praiseService := praiseUC.New(textgenClient, zapLogger)
	statsService := statsUC.New(taskRepo, statsRepo, badgeRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, praiseService, statsService, zapLogger)
	authUseCase := authUC.New(userRepo, sessionRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.SessionTTL, zapLogger)
	groupUseCase := groupUC.New(groupRepo, statsRepo, zapLogger)

	sweeper := services.NewSweeper(
		taskRepo,
		webhook,
		ledgerStore,
		statsService,
		zapLogger,
		services.SweeperConfig{
			Interval:  cfg.Sweeper.Interval,
			Retention: time.Duration(cfg.Ledger.RetentionHours) * time.Hour,
		},
	)
	sweeper.Start()
	manager.Register("sweeper", func(ctx context.Context) error {
		sweeper.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:       apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:       apiHandler.NewTaskHandler(taskUseCase, statsService, ctxAdapter, zapLogger),
		Punishment: apiHandler.NewPunishmentHandler(taskUseCase, ledgerStore, ctxAdapter, zapLogger),
		Stats:      apiHandler.NewStatsHandler(statsService, ctxAdapter, zapLogger),
		Group:      apiHandler.NewGroupHandler(groupUseCase, ctxAdapter, zapLogger),
		Health:     apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, sessionRepo, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
