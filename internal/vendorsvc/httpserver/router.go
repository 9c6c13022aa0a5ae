package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"buildpro/internal/vendorsvc/handler"
	"buildpro/pkg/httpserver"
)

func NewRouter(
	vendorHandler *handler.VendorHandler,
	materialHandler *handler.VendorMaterialHandler,
	logger *zap.Logger,
	db *pgxpool.Pool,
) *gin.Engine {
	r := gin.Default()
	r.Use(httpserver.RequestLogger(logger))
	r.Use(httpserver.Metrics())

	httpserver.RegisterHealth(r, db, nil)

	r.GET("/vendors", vendorHandler.List)
	r.GET("/vendors/:id", vendorHandler.Get)
	r.POST("/vendors", vendorHandler.Create)
	r.PUT("/vendors/:id", vendorHandler.Update)
	r.DELETE("/vendors/:id", vendorHandler.Delete)

	r.GET("/vendor-materials", materialHandler.List)
	r.GET("/vendor-materials/by-vendor/:id", materialHandler.ListByVendor)
	r.POST("/vendor-materials", materialHandler.Create)
	r.PUT("/vendor-materials/:id", materialHandler.Update)
	r.DELETE("/vendor-materials/:id", materialHandler.Delete)

	r.GET("/materials/price-comparison/:name", materialHandler.PriceComparison)

	return r
}
