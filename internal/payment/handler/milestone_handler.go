package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/internal/auth"
	"buildpro/internal/payment/service"
	"buildpro/pkg/apperr"
)

type MilestoneHandler struct {
	svc    *service.MilestoneService
	logger *zap.Logger
}

func NewMilestoneHandler(svc *service.MilestoneService, logger *zap.Logger) *MilestoneHandler {
	return &MilestoneHandler{svc: svc, logger: logger}
}

type processMilestoneRequest struct {
	ProjectID int      `json:"project_id" binding:"required"`
	Progress  *float64 `json:"progress" binding:"required"`
}

// ProcessMilestone 是项目服务进度更新后的内部回调
func (h *MilestoneHandler) ProcessMilestone(c *gin.Context) {
	var req processMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	triggered, err := h.svc.ProcessMilestone(c.Request.Context(), req.ProjectID, *req.Progress)
	if err != nil {
		h.logger.Error("ProcessMilestone failed",
			zap.Int("project_id", req.ProjectID),
			zap.Float64("progress", *req.Progress),
			zap.Error(err),
		)
		c.JSON(apperr.HTTPStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"triggered_count": triggered,
	})
}

func (h *MilestoneHandler) ConfirmPayment(c *gin.Context) {
	termID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payment term id"})
		return
	}

	identity := auth.FromGinContext(c)
	term, err := h.svc.ConfirmPayment(c.Request.Context(), identity, termID)
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("ConfirmPayment failed", zap.Int("term_id", termID), zap.Error(err))
			c.JSON(status, gin.H{"success": false, "message": "failed to confirm payment"})
			return
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment confirmed",
		"data":    term,
	})
}

type generateTermsRequest struct {
	ProjectID int    `json:"project_id" binding:"required"`
	Budget    string `json:"budget" binding:"required"`
}

// GenerateTerms 供项目服务在建项目时生成默认付款期
func (h *MilestoneHandler) GenerateTerms(c *gin.Context) {
	var req generateTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	budget, err := decimal.NewFromString(req.Budget)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid budget"})
		return
	}

	terms, err := h.svc.GenerateDefaultTerms(c.Request.Context(), req.ProjectID, budget)
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("GenerateTerms failed", zap.Int("project_id", req.ProjectID), zap.Error(err))
			c.JSON(status, gin.H{"success": false, "message": "failed to generate payment terms"})
			return
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Default payment terms created",
		"data":    terms,
		"count":   len(terms),
	})
}
