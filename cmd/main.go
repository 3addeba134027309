package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/dtroode/catalog-bot/internal/api/grpc/router"
	grpcServer "github.com/dtroode/catalog-bot/internal/api/grpc/server"
	"github.com/dtroode/catalog-bot/internal/bot"
	"github.com/dtroode/catalog-bot/internal/config"
	"github.com/dtroode/catalog-bot/internal/events"
	"github.com/dtroode/catalog-bot/internal/logger"
	"github.com/dtroode/catalog-bot/internal/model"
	"github.com/dtroode/catalog-bot/internal/repository/postgres"
	"github.com/dtroode/catalog-bot/internal/repository/sqlite"
	"github.com/dtroode/catalog-bot/internal/service"
	"github.com/dtroode/catalog-bot/internal/session"
	storage "github.com/dtroode/catalog-bot/internal/storage/minio"
	"github.com/dtroode/catalog-bot/internal/transport/telegram"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

type documentRepository interface {
	model.CatalogRepository
	model.ConfigRepository
}

type repositories struct {
	documents documentRepository
	codes     model.AccessCodeRepository
	close     func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)
	logAppVersion()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "driver", cfg.Storage.Driver, "error", err)
	}
	defer repos.close()

	configStore := service.NewConfigStore(repos.documents, logger.Component("config"))
	groups := service.NewGroups(configStore, logger.Component("groups"))
	catalog := service.NewCatalog(repos.documents, groups, time.Now, logger.Component("catalog"))
	access := service.NewAccess(repos.codes, configStore, cfg.Telegram.AdminIDs, cfg.Access.CodeTTL, cfg.Access.CodeLength, time.Now, logger.Component("access"))
	settings := service.NewSettings(configStore, logger.Component("settings"))

	var backup *service.Backup
	if cfg.Backup.Endpoint != "" {
		storageClient, err := storage.NewClient(ctx, storage.Options{
			Endpoint:  cfg.Backup.Endpoint,
			AccessKey: cfg.Backup.AccessKey,
			SecretKey: cfg.Backup.SecretKey,
			Bucket:    cfg.Backup.Bucket,
			Prefix:    "catalog-bot",
			UseSSL:    cfg.Backup.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to initialize backup storage", "error", err)
		}
		backup = service.NewBackup(storageClient, catalog, configStore, time.Now, logger.Component("backup"))

		if cfg.Backup.RestoreOnStart {
			if _, err := backup.Restore(ctx); err != nil {
				logger.Fatal("failed to restore backup", "error", err)
			}
		}
	}

	if _, err := catalog.MigrateOwnership(ctx); err != nil {
		logger.Fatal("failed to migrate catalog ownership", "error", err)
	}

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize session store", "error", err)
	}
	defer closeSessions()

	var broadcaster model.Broadcaster = events.Disabled{}
	if cfg.NATS.URL != "" {
		nb, err := events.Connect(cfg.NATS.URL, cfg.NATS.BroadcastSubject, logger.Component("events"))
		if err != nil {
			logger.Fatal("failed to connect to NATS", "error", err)
		}
		defer nb.Close()
		broadcaster = nb
	}

	tb, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.PollTimeout, logger.Component("telegram"))
	if err != nil {
		logger.Fatal("failed to initialize telegram bot", "error", err)
	}

	engine := bot.NewEngine(bot.Services{
		Access:      access,
		Groups:      groups,
		Catalog:     catalog,
		Settings:    settings,
		Broadcaster: broadcaster,
	}, cfg.Bot.ConfirmTTL, time.Now, logger.Component("engine"))
	dispatcher := bot.NewDispatcher(
		engine,
		sessions,
		telegram.NewTransport(tb, logger.Component("telegram")),
		bot.NewDedup(cfg.Bot.DedupWindow, time.Now),
		logger.Component("dispatcher"),
	)

	g, gctx := errgroup.WithContext(ctx)
	telegram.Register(gctx, tb, dispatcher)

	g.Go(func() error {
		return telegram.Run(gctx, tb, logger)
	})

	hs := health.NewServer()
	ops := grpcServer.NewGRPCServer(router.New(hs, logger.Component("ops")).Register(), hs, fmt.Sprintf(":%s", cfg.GRPC.Port))
	sl := grpcServer.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)

	g.Go(func() error {
		logger.Info("Starting ops server on", "address", ops.Address())
		if err := ops.Start(sl); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("received interruption signal, shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ops.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", ops.Address())
		}
		return nil
	})

	if backup != nil {
		g.Go(func() error {
			return backup.Run(gctx, cfg.Backup.Interval)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("bot stopped with error", "error", err)
	}

	if backup != nil {
		snapshotCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := backup.Snapshot(snapshotCtx); err != nil {
			logger.Error("failed to take final snapshot", "error", err)
		}
		cancel()
	}
	logger.Info("shutdown complete")
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			documents: postgres.NewDocumentRepository(db),
			codes:     postgres.NewAccessCodeRepository(db),
			close:     func() { _ = db.Close() },
		}, nil
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			documents: sqlite.NewDocumentRepository(db),
			codes:     sqlite.NewAccessCodeRepository(db),
			close:     func() { _ = db.Close() },
		}, nil
	default:
		return repositories{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openSessions(ctx context.Context, cfg *config.Config) (model.SessionStore, func(), error) {
	if cfg.Redis.Addr == "" {
		return session.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return session.NewRedisStore(client, cfg.Redis.SessionTTL), func() { _ = client.Close() }, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
