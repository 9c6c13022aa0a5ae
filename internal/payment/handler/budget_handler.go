package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buildpro/internal/payment/service"
	"buildpro/pkg/apperr"
)

type BudgetHandler struct {
	svc    *service.BudgetSummaryService
	logger *zap.Logger
}

func NewBudgetHandler(svc *service.BudgetSummaryService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{svc: svc, logger: logger}
}

func (h *BudgetHandler) Summary(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid project id"})
		return
	}

	summary, err := h.svc.Summarize(c.Request.Context(), projectID)
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Summary failed", zap.Int("project_id", projectID), zap.Error(err))
			c.JSON(status, gin.H{"success": false, "message": "failed to build budget summary"})
			return
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}
