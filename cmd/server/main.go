package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/edutrack/edutrack-api/api/swagger"
	"github.com/edutrack/edutrack-api/internal/handler"
	"github.com/edutrack/edutrack-api/internal/middleware"
	"github.com/edutrack/edutrack-api/internal/repository"
	"github.com/edutrack/edutrack-api/internal/service"
	"github.com/edutrack/edutrack-api/pkg/cache"
	"github.com/edutrack/edutrack-api/pkg/config"
	"github.com/edutrack/edutrack-api/pkg/database"
	"github.com/edutrack/edutrack-api/pkg/export"
	"github.com/edutrack/edutrack-api/pkg/logger"
	"github.com/edutrack/edutrack-api/pkg/mailer"
	corsmiddleware "github.com/edutrack/edutrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edutrack/edutrack-api/pkg/middleware/requestid"
)

// @title EduTrack API
// @version 1.0.0
// @description School management backend
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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	validate := validator.New()
	mail := mailer.New(cfg.SMTP)

	mailQueue := mailer.NewQueue(mail, mailer.QueueConfig{Workers: 2, Logger: logr})
	mailQueue.Start(context.Background())
	defer mailQueue.Stop()

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	formationRepo := repository.NewFormationRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)

	authSvc := service.NewAuthService(userRepo, sessionRepo, mailer.NewAsyncWelcomeMailer(mailQueue), validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	resetSvc := service.NewPasswordResetService(resetRepo, userRepo, mail, validate, logr, service.ResetConfig{
		TokenTTL:      cfg.Reset.TokenTTL,
		ClientBaseURL: cfg.Reset.ClientBaseURL,
	})
	userSvc := service.NewUserService(userRepo, logr)
	roleSvc := service.NewRoleService(roleRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, export.NewCSVExporter(), validate, logr)
	formationSvc := service.NewFormationService(formationRepo, cacheListOrNil(cacheRepo), cfg.Cache.TTL, validate, logr)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, export.NewPDFExporter(), validate, logr)
	sessionSvc := service.NewSessionService(sessionRepo, validate, logr)
	metricsSvc := service.NewMetricsService()

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, resetSvc),
		Users:      handler.NewUserHandler(userSvc, authSvc),
		Roles:      handler.NewRoleHandler(roleSvc),
		Students:   handler.NewStudentHandler(studentSvc),
		Formations: handler.NewFormationHandler(formationSvc),
		Invoices:   handler.NewInvoiceHandler(invoiceSvc),
		Sessions:   handler.NewSessionHandler(sessionSvc),
		Health:     handler.NewHealthHandler(metricsSvc),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// cacheListOrNil keeps the formation service's cache dependency nil when list
// caching is disabled, so a typed nil pointer never masquerades as a live
// cache.
func cacheListOrNil(repo *repository.CacheRepository) service.ListCache {
	if repo == nil {
		return nil
	}
	return repo
}
