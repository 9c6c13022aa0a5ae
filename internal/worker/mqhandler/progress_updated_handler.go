package mqhandler

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"buildpro/contracts/mq"
)

// PaymentProcessor 调用付款服务评估付款节点
type PaymentProcessor interface {
	ProcessMilestone(ctx context.Context, projectID int, progress float64) error
}

// Deduper 按事件 id 去重，AcquireOnce 返回 false 表示已处理过
type Deduper interface {
	AcquireOnce(ctx context.Context, handler string, key string) bool
	Release(ctx context.Context, handler string, key string)
}

// ProgressUpdatedHandler consumes progress.updated events and drives milestone
// evaluation on the payment service. The dispatcher may deliver an event more
// than once; redis dedup by event id bounds the double processing.
type ProgressUpdatedHandler struct {
	processor PaymentProcessor
	deduper   Deduper
	logger    *zap.Logger
}

func NewProgressUpdatedHandler(processor PaymentProcessor, deduper Deduper, logger *zap.Logger) *ProgressUpdatedHandler {
	return &ProgressUpdatedHandler{
		processor: processor,
		deduper:   deduper,
		logger:    logger,
	}
}

// Handle 处理一条消息；返回错误会触发 nack 重回队列
func (h *ProgressUpdatedHandler) Handle(ctx context.Context, body json.RawMessage) error {
	var event mq.ProgressUpdated
	if err := json.Unmarshal(body, &event); err != nil {
		// 消息格式不对，重试也没用，ack 掉
		h.logger.Warn("Skipping malformed progress event", zap.Error(err))
		return nil
	}

	if event.ProjectID == 0 {
		h.logger.Warn("Skipping progress event without project_id")
		return nil
	}

	var dedupKey string
	if event.EventID != 0 {
		dedupKey = strconv.FormatInt(event.EventID, 10)
		if !h.deduper.AcquireOnce(ctx, "progress_updated", dedupKey) {
			h.logger.Info("Skipping already processed event",
				zap.Int64("event_id", event.EventID),
			)
			return nil
		}
	}

	if err := h.processor.ProcessMilestone(ctx, event.ProjectID, event.Progress); err != nil {
		// 释放去重 key，否则 nack 重回队列的消息会被当成重复直接 ack 掉
		if dedupKey != "" {
			h.deduper.Release(ctx, "progress_updated", dedupKey)
		}
		h.logger.Error("Milestone processing failed",
			zap.Int64("event_id", event.EventID),
			zap.Int("project_id", event.ProjectID),
			zap.Float64("progress", event.Progress),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("Progress event processed",
		zap.Int64("event_id", event.EventID),
		zap.Int("project_id", event.ProjectID),
		zap.Float64("progress", event.Progress),
	)
	return nil
}
