package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fonuscebu/coop-admin-api/api/swagger"
	"github.com/fonuscebu/coop-admin-api/internal/handler"
	"github.com/fonuscebu/coop-admin-api/internal/middleware"
	"github.com/fonuscebu/coop-admin-api/internal/models"
	"github.com/fonuscebu/coop-admin-api/internal/repository"
	"github.com/fonuscebu/coop-admin-api/internal/service"
	rediscache "github.com/fonuscebu/coop-admin-api/pkg/cache"
	"github.com/fonuscebu/coop-admin-api/pkg/config"
	"github.com/fonuscebu/coop-admin-api/pkg/database"
	"github.com/fonuscebu/coop-admin-api/pkg/export"
	"github.com/fonuscebu/coop-admin-api/pkg/logger"
	corsmiddleware "github.com/fonuscebu/coop-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/fonuscebu/coop-admin-api/pkg/middleware/requestid"
	"github.com/fonuscebu/coop-admin-api/pkg/render"
	"github.com/fonuscebu/coop-admin-api/pkg/storage"
)

// @title Fonus Cebu Coop Admin API
// @version 0.1.0
// @description Inquiry inbox and membership card pipeline for the federation back office
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
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = rediscache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, inbox cache disabled", "error", err)
			redisClient = nil
		}
	}

	exportStorage, err := storage.NewLocalStorage(cfg.Cards.ExportDir)
	if err != nil {
		logr.Sugar().Fatalw("export directory unavailable", "error", err)
	}

	renderer, err := render.NewRenderer(render.DefaultTemplate())
	if err != nil {
		logr.Sugar().Fatalw("card renderer init failed", "error", err)
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	inquirySvc := service.NewInquiryService(inquiryRepo, cacheRepo, cfg.Inquiries.CacheTTL, logr)
	importSvc := service.NewImportService(logr)
	batchSvc := service.NewBatchService(logr)
	memberSvc := service.NewMemberService(memberRepo, batchSvc, logr)
	signer := storage.NewSignedURLSigner(cfg.Cards.SignedURLSecret, cfg.Cards.SignedURLTTL)
	exportSvc := service.NewCardExportService(batchSvc, renderer, export.NewCardPDFExporter(), exportStorage, signer, cfg.Cards.ExportDelay, metricsSvc, logr)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	exportSvc.Start(rootCtx)
	defer exportSvc.Stop()

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc, int(cfg.JWT.Expiration.Seconds()), cfg.Env == config.EnvProduction)
	inquiryHandler := handler.NewInquiryHandler(inquirySvc)
	cardHandler := handler.NewCardHandler(importSvc, batchSvc, memberSvc, exportSvc, metricsSvc, cfg.Cards.MaxUploadBytes)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/inquiries", inquiryHandler.Create)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		authed := api.Group("", middleware.JWT(authSvc))
		authed.GET("/auth/me", authHandler.Me)

		admin := authed.Group("/admin", middleware.RBAC(models.RoleAdmin))
		{
			admin.GET("/inquiries", inquiryHandler.List)
			admin.GET("/inquiries/export", inquiryHandler.ExportCSV)
			admin.PATCH("/inquiries/:id", inquiryHandler.UpdateStatus)

			admin.POST("/cards/import", cardHandler.Import)
			admin.GET("/cards", cardHandler.Page)
			admin.POST("/cards", cardHandler.Append)
			admin.PATCH("/cards/:index", cardHandler.EditField)
			admin.PATCH("/cards/:index/records/:recordIndex", cardHandler.EditYearField)
			admin.POST("/cards/:index/photo", cardHandler.AttachPhoto)
			admin.DELETE("/cards/:index", cardHandler.Remove)
			admin.POST("/cards/save", cardHandler.Save)
			admin.POST("/cards/export", cardHandler.Export)
			admin.GET("/cards/export/:jobID", cardHandler.ExportStatus)
			admin.GET("/cards/download/:token", cardHandler.Download)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
