package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/internal/material/model"
	"buildpro/internal/material/repository"
	"buildpro/pkg/apperr"
)

type MaterialHandler struct {
	repo   *repository.MaterialRepository
	logger *zap.Logger
}

func NewMaterialHandler(repo *repository.MaterialRepository, logger *zap.Logger) *MaterialHandler {
	return &MaterialHandler{repo: repo, logger: logger}
}

func (h *MaterialHandler) List(c *gin.Context) {
	materials, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("List: failed to fetch materials", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch materials"})
		return
	}

	if materials == nil {
		materials = []model.Material{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    materials,
		"count":   len(materials),
	})
}

func (h *MaterialHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid material id"})
		return
	}

	material, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Get: failed to fetch material", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch material"})
		return
	}
	if material == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "material not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": material})
}

type materialRequest struct {
	Name     string  `json:"name" binding:"required"`
	Unit     string  `json:"unit"`
	Stock    float64 `json:"stock"`
	MinStock float64 `json:"min_stock"`
	Price    string  `json:"price"`
}

func (h *MaterialHandler) Create(c *gin.Context) {
	var req materialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "stock must not be negative"})
		return
	}

	price := decimal.Zero
	if req.Price != "" {
		p, err := decimal.NewFromString(req.Price)
		if err != nil || p.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid price"})
			return
		}
		price = p
	}

	material := &model.Material{
		Name:     req.Name,
		Unit:     req.Unit,
		Stock:    req.Stock,
		MinStock: req.MinStock,
		Price:    price,
	}

	id, err := h.repo.Insert(c.Request.Context(), material)
	if err != nil {
		h.logger.Error("Create: failed to insert material", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create material"})
		return
	}
	material.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Material created",
		"data":    material,
	})
}

type restockRequest struct {
	MaterialID int      `json:"material_id" binding:"required"`
	Quantity   *float64 `json:"quantity" binding:"required"`
}

func (h *MaterialHandler) Restock(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if *req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "quantity must be positive"})
		return
	}

	ok, err := h.repo.Restock(c.Request.Context(), req.MaterialID, *req.Quantity)
	if err != nil {
		h.logger.Error("Restock failed", zap.Int("material_id", req.MaterialID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to restock material"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "material not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Material restocked"})
}

type updatePriceRequest struct {
	MaterialID int    `json:"material_id" binding:"required"`
	Price      string `json:"price" binding:"required"`
}

func (h *MaterialHandler) UpdatePrice(c *gin.Context) {
	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid price"})
		return
	}

	ok, err := h.repo.UpdatePrice(c.Request.Context(), req.MaterialID, price)
	if err != nil {
		h.logger.Error("UpdatePrice failed", zap.Int("material_id", req.MaterialID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update price"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "material not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Price updated"})
}

type usageRequest struct {
	MaterialID int      `json:"material_id" binding:"required"`
	ProjectID  int      `json:"project_id" binding:"required"`
	Quantity   *float64 `json:"quantity" binding:"required"`
	UsageDate  string   `json:"usage_date"`
	Notes      string   `json:"notes"`
}

func (h *MaterialHandler) RecordUsage(c *gin.Context) {
	var req usageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if *req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "quantity must be positive"})
		return
	}

	usageDate := time.Now()
	if req.UsageDate != "" {
		d, err := time.Parse("2006-01-02", req.UsageDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "usage_date must be YYYY-MM-DD"})
			return
		}
		usageDate = d
	}

	usage := &model.MaterialUsage{
		MaterialID: req.MaterialID,
		ProjectID:  req.ProjectID,
		Quantity:   *req.Quantity,
		UsageDate:  usageDate,
		Notes:      req.Notes,
	}

	id, err := h.repo.RecordUsage(c.Request.Context(), usage)
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("RecordUsage failed", zap.Int("material_id", req.MaterialID), zap.Error(err))
			c.JSON(status, gin.H{"success": false, "message": "failed to record usage"})
			return
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}
	usage.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Material usage recorded",
		"data":    usage,
	})
}

func (h *MaterialHandler) ListUsageByProject(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid project id"})
		return
	}

	usages, err := h.repo.ListUsageByProject(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("ListUsageByProject failed", zap.Int("project_id", projectID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch material usage"})
		return
	}

	if usages == nil {
		usages = []model.MaterialUsage{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    usages,
		"count":   len(usages),
	})
}
