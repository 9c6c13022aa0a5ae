package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"buildpro/internal/payment/handler"
	"buildpro/pkg/httpserver"
)

func NewRouter(
	termHandler *handler.PaymentTermHandler,
	milestoneHandler *handler.MilestoneHandler,
	budgetHandler *handler.BudgetHandler,
	logger *zap.Logger,
	db *pgxpool.Pool,
) *gin.Engine {
	r := gin.Default()
	r.Use(httpserver.RequestLogger(logger))
	r.Use(httpserver.Metrics())

	httpserver.RegisterHealth(r, db, nil)

	r.GET("/payment-terms/:project_id", termHandler.ListByProject)
	r.POST("/payment-terms", termHandler.Create)
	r.PUT("/payment-terms/:id", termHandler.Update)
	r.DELETE("/payment-terms/:id", termHandler.Delete)
	r.PUT("/payment-terms/:id/pay", milestoneHandler.ConfirmPayment)

	r.POST("/payments/process-milestone", milestoneHandler.ProcessMilestone)
	r.POST("/payments/generate-terms", milestoneHandler.GenerateTerms)

	r.GET("/budget/summary/:project_id", budgetHandler.Summary)

	return r
}
