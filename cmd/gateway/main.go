package main

import (
	"go.uber.org/zap"

	"buildpro/internal/gateway/handler"
	"buildpro/internal/gateway/httpserver"
	"buildpro/internal/gateway/repository"
	"buildpro/internal/gateway/service"
	"buildpro/pkg/config"
	"buildpro/pkg/db"
	"buildpro/pkg/logger"
)

func main() {
	// 1. Load config
	cfg := config.MustLoad(config.GetConfigEnv(), "")

	log := logger.Named(logger.NewLogger(), "api-gateway")
	defer log.Sync()

	// 2. Init DB (users table)
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init auth
	userRepo := repository.NewUserRepository(dbConn, log)
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, log)
	authHandler := handler.NewAuthHandler(authSvc, log)

	// 4. Init proxy
	proxyHandler := handler.NewProxyHandler(cfg.Services, log)

	// 5. Init router
	router := httpserver.NewRouter(authHandler, proxyHandler, cfg.JWT.Secret, log, dbConn)

	port := cfg.Server.Port
	if port == "" {
		port = ":5000"
	}
	log.Info("API gateway starting", zap.String("port", port))
	if err := router.Run(port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
