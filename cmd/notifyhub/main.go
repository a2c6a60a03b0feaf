package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notifyhub/internal/audit"
	"notifyhub/internal/common/auth"
	"notifyhub/internal/common/aws"
	"notifyhub/internal/common/config"
	"notifyhub/internal/common/database"
	"notifyhub/internal/common/logger"
	"notifyhub/internal/httpapi"
	"notifyhub/internal/models"
	"notifyhub/internal/notification"
	"notifyhub/internal/providers"
	"notifyhub/internal/repository"
	"notifyhub/internal/repository/postgres"
	"notifyhub/internal/usecases/auth/resetconfirm"
	"notifyhub/internal/usecases/auth/resetrequest"
	"notifyhub/internal/usecases/notification/send"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting notifyhub",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected")

	// --- Redis (template cache, optional) ---
	rdb := database.NewRedis(cfg.Database.Redis)
	if err := rdb.Ping(ctx); err != nil {
		zapLog.Warn("redis unavailable, template caching disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
		zapLog.Info("Redis connected")
	}

	// --- Elasticsearch (audit index, optional) ---
	var esClient *database.ElasticsearchClient
	esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil || esClient.Ping(ctx) != nil {
		zapLog.Warn("elasticsearch unavailable, audit indexing disabled", zap.Error(err))
		esClient = nil
	} else {
		zapLog.Info("Elasticsearch connected")
	}

	// --- AWS clients ---
	sesClient, err := aws.NewSESClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client failed", zap.Error(err))
	}
	snsClient, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client failed", zap.Error(err))
	}

	// --- Repositories and transactions ---
	notificationRepo := postgres.NewNotificationRepository(pg.DB)
	templateRepo := postgres.NewTemplateRepository(pg.DB)
	userRepo := postgres.NewUserRepository(pg.DB)
	txManager := postgres.NewTxManager(pg.DB)

	// --- Dispatch pipeline ---
	var cacheClient *redis.Client
	if rdb != nil {
		cacheClient = rdb.Client
	}
	resolver := notification.NewResolver(
		templateRepo,
		cacheClient,
		time.Duration(cfg.Notifications.CacheTTLSeconds)*time.Second,
		log,
	)

	registry := providers.NewRegistry()
	registry.Register(models.ChannelEmail, providers.NewEmailProvider(sesClient))
	registry.Register(models.ChannelMessaging, providers.NewMessagingProvider(snsClient, cfg.Notifications.SMSSender))

	var indexer *audit.Indexer
	if esClient != nil {
		indexer = audit.NewIndexer(esClient.Client, cfg.Database.Elasticsearch.NotificationIndex, log)
	} else {
		indexer = audit.NewIndexer(nil, "", log)
	}

	dispatch := send.NewService(send.ServiceParams{
		Resolver:      resolver,
		Renderer:      notification.NewRenderer(),
		Registry:      registry,
		Notifications: notificationRepo,
		Auditor:       indexer,
		Sender: models.Party{
			Name:  cfg.Notifications.FromName,
			Email: models.Email(cfg.Notifications.FromEmail),
		},
		Logger: log,
	})

	// --- Password reset ---
	usersInTx := func(tx repository.Querier) repository.UserRepository {
		return userRepo.WithTx(tx)
	}

	resetReq := resetrequest.NewService(resetrequest.ServiceParams{
		UsersInTx: usersInTx,
		Tx:        txManager,
		Notifier:  resetrequest.NewDispatchNotifier(dispatch, cfg.Auth.ResetURLBase),
		TokenTTL:  time.Duration(cfg.Auth.ResetTokenTTLMinutes) * time.Minute,
		Logger:    log,
	})

	resetConf := resetconfirm.NewService(resetconfirm.ServiceParams{
		UsersInTx: usersInTx,
		Tx:        txManager,
		Hasher:    auth.NewBcryptHasher(0),
		Logger:    log,
	})

	// --- HTTP server ---
	server := httpapi.NewServer(dispatch, resetReq, resetConf, log)
	httpServer := &http.Server{
		Addr:    cfg.Metrics.Address,
		Handler: server.Handler(),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
