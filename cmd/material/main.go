package main

import (
	"go.uber.org/zap"

	"buildpro/internal/material/handler"
	"buildpro/internal/material/httpserver"
	"buildpro/internal/material/repository"
	"buildpro/pkg/config"
	"buildpro/pkg/db"
	"buildpro/pkg/logger"
)

func main() {
	// 1. Load config
	cfg := config.MustLoad(config.GetConfigEnv(), "")

	log := logger.Named(logger.NewLogger(), "material-service")
	defer log.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init repositories
	materialRepo := repository.NewMaterialRepository(dbConn, log)
	orderRepo := repository.NewPurchaseOrderRepository(dbConn, log)

	// 4. Init handlers
	materialHandler := handler.NewMaterialHandler(materialRepo, log)
	orderHandler := handler.NewPurchaseOrderHandler(orderRepo, log)

	// 5. Init router
	router := httpserver.NewRouter(materialHandler, orderHandler, log, dbConn)

	port := cfg.Server.Port
	if port == "" {
		port = ":5002"
	}
	log.Info("Material service starting", zap.String("port", port))
	if err := router.Run(port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
