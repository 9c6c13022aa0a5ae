package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"buildpro/internal/project/handler"
	"buildpro/internal/project/httpserver"
	"buildpro/internal/project/repository"
	"buildpro/internal/project/service"
	"buildpro/pkg/config"
	"buildpro/pkg/db"
	"buildpro/pkg/logger"
	"buildpro/pkg/mq"
	"buildpro/pkg/outbox"
)

var errMQNotReady = errors.New("mq publisher not connected")

func main() {
	// 1. Load config
	cfg := config.MustLoad(config.GetConfigEnv(), "")

	log := logger.Named(logger.NewLogger(), "project-service")
	defer log.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init RabbitMQ publisher for the outbox dispatcher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("MQ publisher initialization failed", zap.Error(err))
	}
	defer publisher.Close()

	// 4. Init repositories
	outboxRepo := outbox.NewRepository(dbConn)
	projectRepo := repository.NewProjectRepository(dbConn, outboxRepo, log)
	dailyLogRepo := repository.NewDailyLogRepository(dbConn, log)
	historyRepo := repository.NewProgressHistoryRepository(dbConn, log)
	noteRepo := repository.NewTimelineNoteRepository(dbConn, log)

	// 5. Init services
	paymentClient := service.NewPaymentClient(cfg.Services.PaymentURL, log)
	progressSvc := service.NewProgressService(projectRepo, dailyLogRepo, paymentClient, log)
	projectSvc := service.NewProjectService(projectRepo, paymentClient, log)

	// 6. Start outbox dispatcher
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher := outbox.NewDispatcher(outboxRepo, publisher, log)
	go dispatcher.Start(ctx)

	// 7. Init handlers
	projectHandler := handler.NewProjectHandler(projectRepo, projectSvc, progressSvc, log)
	dailyLogHandler := handler.NewDailyLogHandler(dailyLogRepo, progressSvc, log)
	historyHandler := handler.NewProgressHistoryHandler(historyRepo, log)
	noteHandler := handler.NewTimelineNoteHandler(noteRepo, log)
	budgetHandler := handler.NewBudgetSummaryHandler(paymentClient, log)

	// 8. Init router，readyz 同时反映 MQ 连接状态
	router := httpserver.NewRouter(projectHandler, dailyLogHandler, historyHandler, noteHandler, budgetHandler, log, dbConn, func() error {
		if !publisher.IsConnected() {
			return errMQNotReady
		}
		return nil
	})

	port := cfg.Server.Port
	if port == "" {
		port = ":5001"
	}
	log.Info("Project service starting", zap.String("port", port))
	if err := router.Run(port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
