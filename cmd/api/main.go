package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/willowpath/scheduler-api/api/swagger"
	"github.com/willowpath/scheduler-api/internal/handler"
	"github.com/willowpath/scheduler-api/internal/middleware"
	"github.com/willowpath/scheduler-api/internal/repository"
	"github.com/willowpath/scheduler-api/internal/service"
	"github.com/willowpath/scheduler-api/pkg/cache"
	"github.com/willowpath/scheduler-api/pkg/config"
	"github.com/willowpath/scheduler-api/pkg/database"
	"github.com/willowpath/scheduler-api/pkg/logger"
	corsmiddleware "github.com/willowpath/scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/willowpath/scheduler-api/pkg/middleware/requestid"
	"github.com/willowpath/scheduler-api/pkg/storage"
)

// @title Willowpath Scheduler API
// @version 1.0.0
// @description Auto-scheduling engine for therapy practices
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, response caching disabled", zap.Error(err))
		redisClient = nil
	}

	exportStore, err := storage.NewLocalStorage(cfg.Scheduler.ExportDir)
	if err != nil {
		logr.Fatal("failed to prepare export directory", zap.Error(err))
	}
	archiver := service.NewProposalArchiver(exportStore, logr)
	archiver.Start(context.Background())
	defer archiver.Stop()

	therapistRepo := repository.NewTherapistRepository(db)
	clientRepo := repository.NewClientRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	schedulingSvc := service.NewSchedulingService(
		therapistRepo,
		clientRepo,
		sessionRepo,
		db,
		service.NewRedisResponseCache(redisClient, metrics, logr),
		metrics,
		archiver,
		validator.New(),
		logr,
		cfg.Scheduler,
	)
	schedulingHandler := handler.NewSchedulingHandler(schedulingSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		schedule := api.Group("/schedule")
		schedule.POST("/generate", schedulingHandler.Generate)
		schedule.POST("/conflicts", schedulingHandler.CheckConflicts)
		schedule.POST("/alternatives", schedulingHandler.SuggestAlternatives)
		schedule.POST("/proposals/:id/save", schedulingHandler.SaveProposal)
		schedule.GET("/proposals/:id/export", schedulingHandler.ExportProposal)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
