package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/moodlestats/moodle-stats-api/api/swagger"
	"github.com/moodlestats/moodle-stats-api/internal/handler"
	"github.com/moodlestats/moodle-stats-api/internal/middleware"
	"github.com/moodlestats/moodle-stats-api/internal/repository"
	"github.com/moodlestats/moodle-stats-api/internal/service"
	"github.com/moodlestats/moodle-stats-api/pkg/cache"
	"github.com/moodlestats/moodle-stats-api/pkg/config"
	"github.com/moodlestats/moodle-stats-api/pkg/database"
	"github.com/moodlestats/moodle-stats-api/pkg/logger"
	corsmiddleware "github.com/moodlestats/moodle-stats-api/pkg/middleware/cors"
	reqidmiddleware "github.com/moodlestats/moodle-stats-api/pkg/middleware/requestid"
)

// @title Moodle Stats API
// @version 1.0.0
// @description Weekly non-access reporting over a Moodle replica
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
		logr.Sugar().Fatalw("failed to connect to replica database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The report endpoints work without a cache, just slower.
		logr.Warn("redis unavailable, running without report cache", zap.Error(err))
		redisClient = nil
	}

	courseRepo := repository.NewCourseRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	enrolmentRepo := repository.NewEnrolmentRepository(db)
	accessRepo := repository.NewAccessRepository(db)
	userRepo := repository.NewUserRepository(db)
	panelUserRepo := repository.NewPanelUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, cfg.Reports.CacheEnabled)

	authSvc := service.NewAuthService(panelUserRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	reportSvc := service.NewReportService(courseRepo, groupRepo, enrolmentRepo, accessRepo, userRepo, cacheSvc, metricsSvc, logr)
	catalogSvc := service.NewCatalogService(courseRepo, groupRepo, cacheSvc, metricsSvc, logr, service.CatalogOptions{
		CategoryName: cfg.Catalog.CategoryName,
		YearFilter:   cfg.Catalog.YearFilter,
	})
	exportSvc := service.NewExportService(reportSvc)

	authHandler := handler.NewAuthHandler(authSvc)
	reportHandler := handler.NewReportHandler(reportSvc, exportSvc, cfg.Reports.DefaultRange)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.GET("/courses", catalogHandler.Courses)
	protected.GET("/courses/:id/groups", catalogHandler.Groups)
	protected.GET("/reports/weekly", reportHandler.Weekly)
	protected.GET("/reports/weekly/export", reportHandler.ExportWeekly)
	protected.GET("/reports/weekly/never", reportHandler.NeverAccessed)
	protected.GET("/reports/weekly/never/export", reportHandler.ExportNeverAccessed)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
