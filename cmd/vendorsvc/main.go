package main

import (
	"go.uber.org/zap"

	"buildpro/internal/vendorsvc/handler"
	"buildpro/internal/vendorsvc/httpserver"
	"buildpro/internal/vendorsvc/repository"
	"buildpro/pkg/config"
	"buildpro/pkg/db"
	"buildpro/pkg/logger"
)

func main() {
	// 1. Load config
	cfg := config.MustLoad(config.GetConfigEnv(), "")

	log := logger.Named(logger.NewLogger(), "vendor-service")
	defer log.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init repositories
	vendorRepo := repository.NewVendorRepository(dbConn, log)
	materialRepo := repository.NewVendorMaterialRepository(dbConn, log)

	// 4. Init handlers
	vendorHandler := handler.NewVendorHandler(vendorRepo, log)
	materialHandler := handler.NewVendorMaterialHandler(materialRepo, log)

	// 5. Init router
	router := httpserver.NewRouter(vendorHandler, materialHandler, log, dbConn)

	port := cfg.Server.Port
	if port == "" {
		port = ":5003"
	}
	log.Info("Vendor service starting", zap.String("port", port))
	if err := router.Run(port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
