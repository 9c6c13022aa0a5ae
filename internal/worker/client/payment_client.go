package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// PaymentClient 是 worker 对付款服务的 HTTP 客户端
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

// ProcessMilestone 请求付款服务按进度评估付款节点
func (c *PaymentClient) ProcessMilestone(ctx context.Context, projectID int, progress float64) error {
	payload, err := json.Marshal(map[string]any{
		"project_id": projectID,
		"progress":   progress,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/payments/process-milestone", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("payment service unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("process-milestone returned status %d", resp.StatusCode)
	}
	return nil
}
