package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"buildpro/internal/material/handler"
	"buildpro/pkg/httpserver"
)

func NewRouter(
	materialHandler *handler.MaterialHandler,
	orderHandler *handler.PurchaseOrderHandler,
	logger *zap.Logger,
	db *pgxpool.Pool,
) *gin.Engine {
	r := gin.Default()
	r.Use(httpserver.RequestLogger(logger))
	r.Use(httpserver.Metrics())

	httpserver.RegisterHealth(r, db, nil)

	r.GET("/materials", materialHandler.List)
	r.GET("/materials/:id", materialHandler.Get)
	r.POST("/materials", materialHandler.Create)
	r.POST("/materials/restock", materialHandler.Restock)
	r.POST("/materials/update-price", materialHandler.UpdatePrice)
	r.POST("/materials/usage", materialHandler.RecordUsage)
	r.GET("/materials/usage/:id", materialHandler.ListUsageByProject)

	r.GET("/purchase-orders", orderHandler.List)
	r.GET("/purchase-orders/:id", orderHandler.Get)
	r.POST("/purchase-orders", orderHandler.Create)
	r.PUT("/purchase-orders/:id/receive", orderHandler.Receive)
	r.PUT("/purchase-orders/:id/status", orderHandler.UpdateStatus)

	return r
}
