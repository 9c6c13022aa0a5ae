package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/internal/vendorsvc/model"
	"buildpro/internal/vendorsvc/repository"
)

type VendorMaterialHandler struct {
	repo   *repository.VendorMaterialRepository
	logger *zap.Logger
}

func NewVendorMaterialHandler(repo *repository.VendorMaterialRepository, logger *zap.Logger) *VendorMaterialHandler {
	return &VendorMaterialHandler{repo: repo, logger: logger}
}

func (h *VendorMaterialHandler) List(c *gin.Context) {
	materials, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("List: failed to fetch vendor materials", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch vendor materials"})
		return
	}

	if materials == nil {
		materials = []model.VendorMaterial{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    materials,
		"count":   len(materials),
	})
}

func (h *VendorMaterialHandler) ListByVendor(c *gin.Context) {
	vendorID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid vendor id"})
		return
	}

	materials, err := h.repo.ListByVendor(c.Request.Context(), vendorID)
	if err != nil {
		h.logger.Error("ListByVendor: failed to fetch vendor materials", zap.Int("vendor_id", vendorID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch vendor materials"})
		return
	}

	if materials == nil {
		materials = []model.VendorMaterial{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    materials,
		"count":   len(materials),
	})
}

type vendorMaterialRequest struct {
	VendorID     int    `json:"vendor_id"`
	MaterialName string `json:"material_name" binding:"required"`
	Price        string `json:"price" binding:"required"`
	Unit         string `json:"unit"`
}

func (h *VendorMaterialHandler) Create(c *gin.Context) {
	var req vendorMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.VendorID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "vendor_id is required"})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid price"})
		return
	}

	material := &model.VendorMaterial{
		VendorID:     req.VendorID,
		MaterialName: req.MaterialName,
		Price:        price,
		Unit:         req.Unit,
	}

	id, err := h.repo.Insert(c.Request.Context(), material)
	if err != nil {
		h.logger.Error("Create: failed to insert vendor material", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create vendor material"})
		return
	}
	material.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Vendor material created",
		"data":    material,
	})
}

func (h *VendorMaterialHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid vendor material id"})
		return
	}

	existing, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Update: failed to fetch vendor material", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch vendor material"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "vendor material not found"})
		return
	}

	var req vendorMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid price"})
		return
	}

	existing.MaterialName = req.MaterialName
	existing.Price = price
	existing.Unit = req.Unit

	updated, err := h.repo.Update(c.Request.Context(), existing)
	if err != nil {
		h.logger.Error("Update: failed to update vendor material", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update vendor material"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "vendor material not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vendor material updated", "data": existing})
}

func (h *VendorMaterialHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid vendor material id"})
		return
	}

	deleted, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Delete: failed to delete vendor material", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete vendor material"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "vendor material not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vendor material deleted"})
}

// PriceComparison 返回同名材料的报价，便宜的在前
func (h *VendorMaterialHandler) PriceComparison(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "material name required"})
		return
	}

	offers, err := h.repo.PriceComparison(c.Request.Context(), name)
	if err != nil {
		h.logger.Error("PriceComparison failed", zap.String("material", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to compare prices"})
		return
	}

	if offers == nil {
		offers = []model.PriceOffer{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    offers,
		"count":   len(offers),
	})
}
