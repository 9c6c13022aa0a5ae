package main

import (
	"go.uber.org/zap"

	"buildpro/internal/payment/handler"
	"buildpro/internal/payment/httpserver"
	"buildpro/internal/payment/repository"
	"buildpro/internal/payment/service"
	"buildpro/pkg/config"
	"buildpro/pkg/db"
	"buildpro/pkg/logger"
)

func main() {
	// 1. Load config
	cfg := config.MustLoad(config.GetConfigEnv(), "")

	log := logger.Named(logger.NewLogger(), "payment-service")
	defer log.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init repositories
	termRepo := repository.NewPaymentTermRepository(dbConn, log)
	budgetRepo := repository.NewProjectBudgetRepository(dbConn, log)

	// 4. Init services
	milestoneSvc := service.NewMilestoneService(termRepo, budgetRepo, log)
	summarySvc := service.NewBudgetSummaryService(termRepo, budgetRepo)

	// 5. Init handlers
	termHandler := handler.NewPaymentTermHandler(termRepo, log)
	milestoneHandler := handler.NewMilestoneHandler(milestoneSvc, log)
	budgetHandler := handler.NewBudgetHandler(summarySvc, log)

	// 6. Init router
	router := httpserver.NewRouter(termHandler, milestoneHandler, budgetHandler, log, dbConn)

	port := cfg.Server.Port
	if port == "" {
		port = ":5004"
	}
	log.Info("Payment service starting", zap.String("port", port))
	if err := router.Run(port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
