package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/szu-oia/campus-checkin-api/api/swagger"
	"github.com/szu-oia/campus-checkin-api/internal/handler"
	"github.com/szu-oia/campus-checkin-api/internal/middleware"
	"github.com/szu-oia/campus-checkin-api/internal/repository"
	"github.com/szu-oia/campus-checkin-api/internal/service"
	"github.com/szu-oia/campus-checkin-api/pkg/cache"
	"github.com/szu-oia/campus-checkin-api/pkg/config"
	"github.com/szu-oia/campus-checkin-api/pkg/database"
	"github.com/szu-oia/campus-checkin-api/pkg/export"
	"github.com/szu-oia/campus-checkin-api/pkg/logger"
	corsmiddleware "github.com/szu-oia/campus-checkin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/szu-oia/campus-checkin-api/pkg/middleware/requestid"
)

// @title Campus Check-in API
// @version 1.0.0
// @description Location-based class attendance for the SZU campus WeChat app
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
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, wechat credentials will refresh on every call", "error", err)
		redisClient = nil
	}

	buildingRepo := repository.NewBuildingRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	checkinSvc, err := service.NewCheckinService(scheduleRepo, buildingRepo, cfg.Attendance, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init check-in service", "error", err)
	}
	recordSvc := service.NewRecordService(checkinSvc, attendanceRepo, export.NewCSVExporter(), export.NewPDFExporter(), metricsSvc, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, logr)
	buildingSvc := service.NewBuildingService(buildingRepo)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, logr)
	authSvc := service.NewAuthService(cfg.CAS, cfg.JWT, metricsSvc, logr)
	wechatSvc := service.NewWeChatService(cfg.WeChat, cacheRepo, metricsSvc, logr)

	checkinHandler := handler.NewCheckinHandler(recordSvc)
	recordHandler := handler.NewRecordHandler(recordSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	buildingHandler := handler.NewBuildingHandler(buildingSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	wechatHandler := handler.NewWeChatHandler(wechatSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/cas/login", authHandler.Login)
		api.POST("/wechat/js-config", wechatHandler.JSConfig)
		api.POST("/wechat/resolve-user", wechatHandler.ResolveUser)
		api.GET("/buildings", buildingHandler.List)
		api.GET("/buildings/:id", buildingHandler.Get)

		protected := api.Group("")
		protected.Use(middleware.JWT(authSvc))
		{
			protected.GET("/auth/me", authHandler.Me)
			protected.POST("/attendance/check-in", checkinHandler.CheckIn)
			protected.POST("/attendance/location-info", checkinHandler.LocationInfo)
			protected.GET("/attendance/records", recordHandler.List)
			protected.GET("/attendance/summary", recordHandler.Summary)
			protected.GET("/attendance/export", recordHandler.Export)
			protected.GET("/schedules", scheduleHandler.Week)
			protected.GET("/schedules/:id", scheduleHandler.Get)
			protected.POST("/feedback", feedbackHandler.Submit)
			protected.GET("/feedback", feedbackHandler.List)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
