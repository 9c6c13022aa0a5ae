package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buildpro/internal/auth"
	"buildpro/pkg/config"
)

// ProxyHandler 按路径前缀把 /api 请求转发到对应的服务
type ProxyHandler struct {
	services config.ServicesConfig
	client   *http.Client
	logger   *zap.Logger
}

func NewProxyHandler(services config.ServicesConfig, logger *zap.Logger) *ProxyHandler {
	return &ProxyHandler{
		services: services,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// targetFor 路径前缀到服务地址的映射
// /materials/price-comparison 属于 vendor 服务，要在 /materials 之前匹配
func (h *ProxyHandler) targetFor(path string) string {
	switch {
	case strings.HasPrefix(path, "/materials/price-comparison"),
		strings.HasPrefix(path, "/vendors"),
		strings.HasPrefix(path, "/vendor-materials"):
		return h.services.VendorURL
	case strings.HasPrefix(path, "/materials"),
		strings.HasPrefix(path, "/purchase-orders"):
		return h.services.MaterialURL
	case strings.HasPrefix(path, "/payment-terms"),
		strings.HasPrefix(path, "/payments"),
		strings.HasPrefix(path, "/budget"):
		return h.services.PaymentURL
	case strings.HasPrefix(path, "/projects"),
		strings.HasPrefix(path, "/update-progress"),
		strings.HasPrefix(path, "/daily-logs"),
		strings.HasPrefix(path, "/progress-history"),
		strings.HasPrefix(path, "/timeline-notes"):
		return h.services.ProjectURL
	}
	return ""
}

// Forward 转发请求并带上已认证身份的 headers
func (h *ProxyHandler) Forward(c *gin.Context) {
	path := strings.TrimPrefix(c.Request.URL.Path, "/api")

	target := h.targetFor(path)
	if target == "" {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "unknown route"})
		return
	}

	url := target + path
	if c.Request.URL.RawQuery != "" {
		url += "?" + c.Request.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, url, c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create request"})
		return
	}
	if ct := c.GetHeader("Content-Type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	if identity, exists := c.Get("identity"); exists {
		if id, ok := identity.(auth.Identity); ok {
			id.Forward(req)
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error("Upstream request failed",
			zap.String("url", url),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "upstream service unreachable"})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to read response"})
		return
	}

	c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), body)
}
