package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusworks/fee-reminder-api/api/swagger"
	"github.com/campusworks/fee-reminder-api/internal/handler"
	"github.com/campusworks/fee-reminder-api/internal/middleware"
	"github.com/campusworks/fee-reminder-api/internal/repository"
	"github.com/campusworks/fee-reminder-api/internal/service"
	"github.com/campusworks/fee-reminder-api/pkg/cache"
	"github.com/campusworks/fee-reminder-api/pkg/config"
	"github.com/campusworks/fee-reminder-api/pkg/database"
	"github.com/campusworks/fee-reminder-api/pkg/logger"
	"github.com/campusworks/fee-reminder-api/pkg/mailer"
	corsmiddleware "github.com/campusworks/fee-reminder-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusworks/fee-reminder-api/pkg/middleware/requestid"
)

// @title Fee Reminder API
// @version 1.0.0
// @description Automated payment-reminder scheduler for campus operations
// @BasePath /
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The dedup day-lock and fee-structure cache degrade gracefully;
		// the run itself does not depend on Redis.
		logr.Sugar().Warnw("redis unavailable, dedup falls back to tracking state", "error", err)
		redisClient = nil
	}

	var mail mailer.Mailer
	if smtp, err := mailer.NewSMTPMailer(cfg.SMTP); err != nil {
		logr.Sugar().Warnw("smtp not configured, using console mailer", "error", err)
		mail = mailer.NewConsoleMailer(logr)
	} else {
		mail = smtp
	}

	templates, err := service.NewTemplateService(cfg.Reminders)
	if err != nil {
		logr.Sugar().Fatalw("failed to parse email templates", "error", err)
	}

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	communicationRepo := repository.NewCommunicationRepository(db)
	communicationSvc := service.NewCommunicationService(communicationRepo, cfg.Audit, logr)
	communicationSvc.Start(context.Background())
	defer communicationSvc.Stop()

	metricsSvc := service.NewMetricsService()

	reminderSvc := service.NewReminderService(service.ReminderServiceParams{
		Students:   repository.NewStudentRepository(db),
		Payments:   repository.NewPaymentRepository(db),
		Structures: repository.NewFeeStructureRepository(db),
		Tracking:   repository.NewTrackingRepository(db),
		Locks:      cacheRepo,
		Cache:      cacheRepo,
		Mailer:     mail,
		Templates:  templates,
		Audit:      communicationSvc,
		Metrics:    metricsSvc,
		Logger:     logr,
		Config:     cfg.Reminders,
	})

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
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	reminderHandler := handler.NewReminderHandler(reminderSvc, logr)
	communicationHandler := handler.NewCommunicationHandler(communicationSvc)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.ServiceAuth(cfg.Auth.ServiceTokenSecret))
	{
		api.POST("/reminders/run", reminderHandler.Run)
		api.GET("/communications", communicationHandler.List)
		api.GET("/communications/export", communicationHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
