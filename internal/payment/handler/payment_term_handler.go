package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/internal/payment/model"
	"buildpro/internal/payment/repository"
)

type PaymentTermHandler struct {
	repo   *repository.PaymentTermRepository
	logger *zap.Logger
}

func NewPaymentTermHandler(repo *repository.PaymentTermRepository, logger *zap.Logger) *PaymentTermHandler {
	return &PaymentTermHandler{repo: repo, logger: logger}
}

func (h *PaymentTermHandler) ListByProject(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid project id"})
		return
	}

	terms, err := h.repo.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("ListByProject: failed to fetch payment terms",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch payment terms"})
		return
	}

	if terms == nil {
		terms = []model.PaymentTerm{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    terms,
		"count":   len(terms),
	})
}

type createTermRequest struct {
	ProjectID         int     `json:"project_id" binding:"required"`
	TerminName        string  `json:"termin_name" binding:"required"`
	TriggerPercentage float64 `json:"milestone_percentage"`
	Amount            string  `json:"amount" binding:"required"`
	Status            string  `json:"status"`
	DueDate           *string `json:"due_date"`
	Notes             string  `json:"notes"`
}

func (h *PaymentTermHandler) Create(c *gin.Context) {
	var req createTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if req.TriggerPercentage < 0 || req.TriggerPercentage > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "milestone_percentage must be between 0 and 100"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid amount"})
		return
	}

	status := model.StatusPending
	if req.Status != "" {
		status, err = model.ParseStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
	}

	term := model.PaymentTerm{
		ProjectID:         req.ProjectID,
		TerminName:        req.TerminName,
		TriggerPercentage: req.TriggerPercentage,
		Amount:            amount,
		Status:            status,
		Notes:             req.Notes,
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "due_date must be YYYY-MM-DD"})
			return
		}
		term.DueDate = &due
	}

	id, err := h.repo.Insert(c.Request.Context(), &term)
	if err != nil {
		h.logger.Error("Create: failed to insert payment term", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create payment term"})
		return
	}
	term.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Payment term created",
		"data":    term,
	})
}

func (h *PaymentTermHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payment term id"})
		return
	}

	existing, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Update: failed to fetch payment term", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch payment term"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "payment term not found"})
		return
	}

	var req createTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	existing.TerminName = req.TerminName
	existing.TriggerPercentage = req.TriggerPercentage
	existing.Notes = req.Notes
	if req.Amount != "" {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid amount"})
			return
		}
		existing.Amount = amount
	}
	if req.Status != "" {
		status, err := model.ParseStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		existing.Status = status
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "due_date must be YYYY-MM-DD"})
			return
		}
		existing.DueDate = &due
	}

	updated, err := h.repo.Update(c.Request.Context(), existing)
	if err != nil {
		h.logger.Error("Update: failed to update payment term", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update payment term"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "payment term not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment term updated",
		"data":    existing,
	})
}

func (h *PaymentTermHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payment term id"})
		return
	}

	deleted, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Delete: failed to delete payment term", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete payment term"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "payment term not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment term deleted"})
}
