// File: ecitizen/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecitizen/config"
	"ecitizen/cron"
	"ecitizen/handlers"
	"ecitizen/middleware"
	"ecitizen/models"
	"ecitizen/routes"
	"ecitizen/services/catalog"
	"ecitizen/services/dialogue"
	"ecitizen/services/submission"
	"ecitizen/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	defaultLang := models.ParseLanguage(config.AppConfig.DefaultLanguage, models.LanguageEnglish)
	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	services := catalog.Default()
	handoffs := submission.NewHandoffBuilder(config.AppConfig.ECitizenBaseURL, services)
	redisDeps := map[string]*redis.Client{}

	// session store.
	var store dialogue.SessionStore
	if config.UsesRedisSessions() {
		client := utils.GetSessionCacheClient()
		redisDeps["sessions"] = client
		store = dialogue.NewRedisSessionStore(client, sessionTTL)
	} else {
		memStore := dialogue.NewMemorySessionStore(sessionTTL, utils.SessionCleanupInterval, logger)
		defer memStore.Close()
		store = memStore
	}

	// booking hand-off.
	var submitter submission.Submitter
	var worker *asynq.Server
	if config.AppConfig.SubmissionQueueEnabled {
		redisDeps["queue"] = utils.GetQueueCacheClient()
		queueClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		})
		defer queueClient.Close()
		submitter = submission.NewAsynqSubmitter(queueClient, logger)
		worker = cron.InitSubmissionWorker(handoffs, logger)
	} else {
		submitter = submission.NewLogSubmitter(handoffs, logger)
	}

	utils.StartHealthMonitor(rootCtx, redisDeps, utils.HealthCheckInterval)

	// services.
	orchestrator := dialogue.NewOrchestrator(services, logger)
	dialogueService := dialogue.NewDialogueService(store, orchestrator, submitter, defaultLang, logger)

	voiceHandler := handlers.NewVoiceHandler(dialogueService, defaultLang, logger)
	servicesHandler := handlers.NewServicesHandler(services, config.AppConfig.ECitizenBaseURL, defaultLang)

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlers.NewHandlerBundle(voiceHandler, servicesHandler))

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}

	logger.Info("main: server stopped gracefully", zap.String("addr", srv.Addr))
}
