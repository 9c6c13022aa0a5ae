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

type PurchaseOrderHandler struct {
	repo   *repository.PurchaseOrderRepository
	logger *zap.Logger
}

func NewPurchaseOrderHandler(repo *repository.PurchaseOrderRepository, logger *zap.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{repo: repo, logger: logger}
}

func (h *PurchaseOrderHandler) List(c *gin.Context) {
	orders, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("List: failed to fetch purchase orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch purchase orders"})
		return
	}

	if orders == nil {
		orders = []model.PurchaseOrder{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"count":   len(orders),
	})
}

func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid purchase order id"})
		return
	}

	order, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Get: failed to fetch purchase order", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch purchase order"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "purchase order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

type orderItemRequest struct {
	MaterialID int      `json:"material_id" binding:"required"`
	Quantity   *float64 `json:"quantity" binding:"required"`
	UnitPrice  string   `json:"unit_price" binding:"required"`
}

type createOrderRequest struct {
	VendorID  int                `json:"vendor_id" binding:"required"`
	OrderDate string             `json:"order_date"`
	Items     []orderItemRequest `json:"items" binding:"required"`
}

func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	order := &model.PurchaseOrder{VendorID: req.VendorID}
	if req.OrderDate != "" {
		d, err := time.Parse("2006-01-02", req.OrderDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "order_date must be YYYY-MM-DD"})
			return
		}
		order.OrderDate = d
	}

	for _, it := range req.Items {
		if *it.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "item quantity must be positive"})
			return
		}
		price, err := decimal.NewFromString(it.UnitPrice)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid unit price"})
			return
		}
		order.Items = append(order.Items, model.PurchaseOrderItem{
			MaterialID: it.MaterialID,
			Quantity:   *it.Quantity,
			UnitPrice:  price,
		})
	}

	if err := h.repo.Create(c.Request.Context(), order); err != nil {
		status := apperr.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Create: failed to create purchase order", zap.Error(err))
			c.JSON(status, gin.H{"success": false, "message": "failed to create purchase order"})
			return
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Purchase order created",
		"data":    order,
	})
}

func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid purchase order id"})
		return
	}

	order, err := h.repo.Receive(c.Request.Context(), id)
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Receive failed", zap.Int("id", id), zap.Error(err))
			c.JSON(status, gin.H{"success": false, "message": "failed to receive purchase order"})
			return
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Purchase order received",
		"data":    order,
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid purchase order id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if !model.ValidPOStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unknown status: " + req.Status})
		return
	}
	if req.Status == model.POStatusReceived {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "use the receive endpoint to book stock"})
		return
	}

	ok, err := h.repo.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.logger.Error("UpdateStatus failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update status"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "purchase order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated"})
}
