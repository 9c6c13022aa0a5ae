package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buildpro/internal/vendorsvc/model"
	"buildpro/internal/vendorsvc/repository"
)

type VendorHandler struct {
	repo   *repository.VendorRepository
	logger *zap.Logger
}

func NewVendorHandler(repo *repository.VendorRepository, logger *zap.Logger) *VendorHandler {
	return &VendorHandler{repo: repo, logger: logger}
}

func (h *VendorHandler) List(c *gin.Context) {
	vendors, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("List: failed to fetch vendors", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch vendors"})
		return
	}

	if vendors == nil {
		vendors = []model.Vendor{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    vendors,
		"count":   len(vendors),
	})
}

func (h *VendorHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid vendor id"})
		return
	}

	vendor, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Get: failed to fetch vendor", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch vendor"})
		return
	}
	if vendor == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "vendor not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": vendor})
}

type vendorRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

func (h *VendorHandler) Create(c *gin.Context) {
	var req vendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	vendor := &model.Vendor{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	}

	id, err := h.repo.Insert(c.Request.Context(), vendor)
	if err != nil {
		h.logger.Error("Create: failed to insert vendor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create vendor"})
		return
	}
	vendor.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Vendor created",
		"data":    vendor,
	})
}

func (h *VendorHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid vendor id"})
		return
	}

	var req vendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	vendor := &model.Vendor{
		ID:            id,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	}

	updated, err := h.repo.Update(c.Request.Context(), vendor)
	if err != nil {
		h.logger.Error("Update: failed to update vendor", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update vendor"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "vendor not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vendor updated", "data": vendor})
}

func (h *VendorHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid vendor id"})
		return
	}

	deleted, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Delete: failed to delete vendor", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete vendor"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "vendor not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vendor deleted"})
}
