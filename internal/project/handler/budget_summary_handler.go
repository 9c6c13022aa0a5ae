package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buildpro/internal/project/service"
	"buildpro/pkg/apperr"
)

// BudgetSummaryHandler 透传付款服务的项目预算汇总
type BudgetSummaryHandler struct {
	client *service.PaymentClient
	logger *zap.Logger
}

func NewBudgetSummaryHandler(client *service.PaymentClient, logger *zap.Logger) *BudgetSummaryHandler {
	return &BudgetSummaryHandler{client: client, logger: logger}
}

func (h *BudgetSummaryHandler) Summary(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid project id"})
		return
	}

	body, status, err := h.client.GetBudgetSummary(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("Summary: budget summary fetch failed", zap.Int("project_id", projectID), zap.Error(err))
		c.JSON(apperr.HTTPStatus(err), gin.H{"success": false, "message": "payment service unavailable"})
		return
	}

	c.Data(status, "application/json", body)
}
