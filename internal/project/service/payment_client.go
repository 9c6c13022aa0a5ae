package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/pkg/apperr"
)

// PaymentClient 是项目服务对付款服务的 HTTP 客户端
type PaymentClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewPaymentClient(baseURL string, logger *zap.Logger) *PaymentClient {
	return &PaymentClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (c *PaymentClient) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return apperr.UpstreamUnavailable("payment service unreachable", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return apperr.UpstreamUnavailable("payment service error", fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("payment service rejected %s: status %d", path, resp.StatusCode)
	}
	return nil
}

// ProcessMilestone 请求付款服务按新进度评估付款节点
func (c *PaymentClient) ProcessMilestone(ctx context.Context, projectID int, progress float64) error {
	return c.post(ctx, "/payments/process-milestone", map[string]any{
		"project_id": projectID,
		"progress":   progress,
	})
}

// GenerateDefaultTerms 建项目时请求生成默认付款期
func (c *PaymentClient) GenerateDefaultTerms(ctx context.Context, projectID int, budget decimal.Decimal) error {
	return c.post(ctx, "/payments/generate-terms", map[string]any{
		"project_id": projectID,
		"budget":     budget.String(),
	})
}

// GetBudgetSummary 透传付款服务的预算汇总
func (c *PaymentClient) GetBudgetSummary(ctx context.Context, projectID int) (json.RawMessage, int, error) {
	url := fmt.Sprintf("%s/budget/summary/%d", c.baseURL, projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, apperr.UpstreamUnavailable("payment service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
