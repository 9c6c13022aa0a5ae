package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"buildpro/internal/gateway/handler"
	"buildpro/pkg/httpserver"
)

func NewRouter(
	authHandler *handler.AuthHandler,
	proxyHandler *handler.ProxyHandler,
	jwtSecret string,
	logger *zap.Logger,
	db *pgxpool.Pool,
) *gin.Engine {
	r := gin.Default()
	r.Use(httpserver.RequestLogger(logger))
	r.Use(httpserver.Metrics())

	httpserver.RegisterHealth(r, db, nil)

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	api := r.Group("/api")
	api.Use(AuthMiddleware(jwtSecret))
	api.Use(RouteGuard())
	api.Any("/*path", proxyHandler.Forward)

	return r
}
