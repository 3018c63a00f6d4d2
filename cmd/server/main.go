package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"herd-api/internal/adapters/primary/http/handlers"
	"herd-api/internal/adapters/primary/http/middleware"
	"herd-api/internal/adapters/secondary/kafka"
	"herd-api/internal/adapters/secondary/postgres"
	"herd-api/internal/config"
	output "herd-api/internal/core/ports/output"
	"herd-api/internal/core/services"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply schema migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Schema first, pool second
	if err := postgres.Migrate(cfg.Database.DSN()); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Info("schema migrations applied")
	if *migrateOnly {
		return
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	// Secondary adapters (repositories)
	serviceRepo := postgres.NewServiceRepository(pool)
	featureRepo := postgres.NewFeatureRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	iterationRepo := postgres.NewIterationRepository(pool)
	configRepo := postgres.NewConfigRepository(pool)
	pipelineRepo := postgres.NewPipelineRepository(pool)
	releaseRepo := postgres.NewReleaseRepository(pool)

	// Deploy runner (optional, based on config)
	var runner output.DeployRunner
	if cfg.Deploy.Enabled {
		runner = kafka.NewRunner(&cfg.Deploy)
		defer runner.Close()
		log.Infof("deploy runner initialized (topic %s)", cfg.Deploy.Topic)
	} else {
		log.Info("deploy dispatch disabled")
	}

	// Core services
	finder := services.NewConfigFinder(configRepo, branchRepo)
	commitSvc := services.NewCommitService(serviceRepo, featureRepo, branchRepo, iterationRepo)
	buildSvc := services.NewBuildService(serviceRepo, branchRepo, iterationRepo, pipelineRepo, releaseRepo, finder, runner)
	registrySvc := services.NewRegistryService(serviceRepo, featureRepo, branchRepo, iterationRepo)
	configSvc := services.NewConfigService(configRepo)
	pipelineSvc := services.NewPipelineService(pipelineRepo, serviceRepo)
	releaseSvc := services.NewReleaseService(releaseRepo)

	// Primary adapter (HTTP handlers)
	h := handlers.New(commitSvc, buildSvc, registrySvc, configSvc, pipelineSvc, releaseSvc, finder)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1/herd")
	h.RegisterRoutes(api)

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
