package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/audit"
	"github.com/BruksfildServices01/repair-jobcards/internal/cache"
	"github.com/BruksfildServices01/repair-jobcards/internal/config"
	dbpkg "github.com/BruksfildServices01/repair-jobcards/internal/db"
	"github.com/BruksfildServices01/repair-jobcards/internal/infra/documents"
	"github.com/BruksfildServices01/repair-jobcards/internal/infra/notify"
	infraRepo "github.com/BruksfildServices01/repair-jobcards/internal/infra/repository"
	"github.com/BruksfildServices01/repair-jobcards/internal/logger"
	"github.com/BruksfildServices01/repair-jobcards/internal/routes"
	ucStaff "github.com/BruksfildServices01/repair-jobcards/internal/usecase/staff"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg.LogMasked(log)

	deps, cleanup, err := buildDependencies(cfg, log)
	if err != nil {
		log.Fatal("failed to build dependencies", zap.Error(err))
	}
	defer cleanup()

	if _, err := ucStaff.NewEnsureAdmin(deps.Staff, log).Execute(
		context.Background(),
		cfg.AdminName,
		cfg.AdminEmail,
		cfg.AdminPassword,
	); err != nil {
		log.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// buildDependencies escolhe storage e cache pelos drivers configurados.
func buildDependencies(cfg *config.Config, log *zap.Logger) (routes.Dependencies, func(), error) {
	deps := routes.Dependencies{Config: cfg, Log: log}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// ---------- storage ----------
	switch cfg.StorageDriver {
	case "memory":
		mem := infraRepo.NewMemoryRepository()
		deps.Intake, deps.JobCards, deps.Staff = mem, mem, mem
		deps.Audit = audit.NewMemoryStore()
		log.Warn("using in-memory storage, data is lost on restart")
	default:
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return deps, cleanup, err
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}
		deps.Intake = infraRepo.NewIntakeGormRepository(db)
		deps.JobCards = infraRepo.NewJobCardGormRepository(db)
		deps.Staff = infraRepo.NewStaffGormRepository(db)
		deps.Audit = audit.New(db)
	}

	// ---------- cache ----------
	switch cfg.CacheDriver {
	case "redis":
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return deps, cleanup, err
		}
		closers = append(closers, func() { _ = client.Close() })
		deps.Cache = cache.NewRedis(client)
	default:
		deps.Cache = cache.NewMemory(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	// ---------- colaboradores ----------
	deps.Docs = documents.NewHTTPGenerator(documents.HTTPConfig{
		BaseURL:    cfg.DocumentsURL,
		APIKey:     cfg.DocumentsAPIKey,
		Timeout:    cfg.DocumentsTimeout,
		RetryCount: cfg.DocumentsRetries,
	}, log)

	deps.Sender = notify.NewHTTPSender(notify.HTTPConfig{
		BaseURL:    cfg.EmailURL,
		APIKey:     cfg.EmailAPIKey,
		From:       cfg.EmailFrom,
		Timeout:    cfg.EmailTimeout,
		RetryCount: cfg.EmailRetries,
	}, log)

	if cfg.ArchiveEnabled() {
		deps.Archive = documents.NewS3Archive(documents.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Prefix:          cfg.S3Prefix,
			UsePathStyle:    cfg.S3UsePathStyle,
		})
	}

	return deps, cleanup, nil
}
