package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"buildpro/pkg/metrics"
)

// RoutingKeyProgressUpdated 是 PROGRESS_UPDATE 事件对应的 MQ routing key
const RoutingKeyProgressUpdated = "progress.updated"

// routingKeys 将事件类型映射为 routing key；不认识的类型直接跳过
var routingKeys = map[string]string{
	EventProgressUpdate: RoutingKeyProgressUpdated,
}

// EventStore 是 Dispatcher 对 outbox 存储的依赖
type EventStore interface {
	GetPendingEvents(ctx context.Context, limit int) ([]*Event, error)
	MarkAsProcessed(ctx context.Context, eventID int64) error
	MarkAsFailed(ctx context.Context, eventID int64, maxRetries int) error
}

// EventPublisher 是 Dispatcher 对 MQ 的依赖
type EventPublisher interface {
	PublishWithContext(ctx context.Context, routingKey string, payload any) error
}

// Dispatcher 负责从 event_queue 中读取 PENDING 事件并发布到 MQ
type Dispatcher struct {
	store      EventStore
	publisher  EventPublisher
	logger     *zap.Logger
	maxRetries int
	interval   time.Duration
	batchSize  int
}

// NewDispatcher 创建新的 Dispatcher
func NewDispatcher(
	store EventStore,
	publisher EventPublisher,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:      store,
		publisher:  publisher,
		logger:     logger,
		maxRetries: 5,
		interval:   5 * time.Second,
		batchSize:  100,
	}
}

// WithMaxRetries 设置最大重试次数
func (d *Dispatcher) WithMaxRetries(maxRetries int) *Dispatcher {
	d.maxRetries = maxRetries
	return d
}

// WithInterval 设置扫描间隔
func (d *Dispatcher) WithInterval(interval time.Duration) *Dispatcher {
	d.interval = interval
	return d
}

// WithBatchSize 设置批次大小
func (d *Dispatcher) WithBatchSize(batchSize int) *Dispatcher {
	d.batchSize = batchSize
	return d
}

// Start 启动 Dispatcher（在 goroutine 中运行），ctx 取消时退出
func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("Starting outbox dispatcher",
		zap.Int("max_retries", d.maxRetries),
		zap.Duration("interval", d.interval),
		zap.Int("batch_size", d.batchSize),
	)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	// 启动时先跑一轮，不等第一个 tick
	d.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Outbox dispatcher stopped")
			return
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick 处理一批待发送的事件
func (d *Dispatcher) Tick(ctx context.Context) {
	events, err := d.store.GetPendingEvents(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("Failed to get pending events", zap.Error(err))
		return
	}

	if len(events) == 0 {
		return
	}

	d.logger.Debug("Processing pending events",
		zap.Int("count", len(events)),
	)

	for _, event := range events {
		routingKey, ok := routingKeys[event.EventType]
		if !ok {
			// 未知事件类型：忽略并标记完成，避免堵住队列
			d.logger.Warn("Skipping event with unknown type",
				zap.Int64("event_id", event.ID),
				zap.String("event_type", event.EventType),
			)
			if err := d.store.MarkAsProcessed(ctx, event.ID); err != nil {
				d.logger.Error("Failed to mark unknown event as processed",
					zap.Int64("event_id", event.ID),
					zap.Error(err),
				)
			}
			continue
		}

		if err := d.publishEvent(ctx, routingKey, event); err != nil {
			d.logger.Error("Failed to publish event",
				zap.Int64("event_id", event.ID),
				zap.String("routing_key", routingKey),
				zap.Error(err),
			)
			metrics.IncrementOutboxDispatch("failed")

			if err := d.store.MarkAsFailed(ctx, event.ID, d.maxRetries); err != nil {
				d.logger.Error("Failed to mark event as failed",
					zap.Int64("event_id", event.ID),
					zap.Error(err),
				)
			}
			continue
		}

		metrics.IncrementOutboxDispatch("processed")
		if err := d.store.MarkAsProcessed(ctx, event.ID); err != nil {
			d.logger.Error("Failed to mark event as processed",
				zap.Int64("event_id", event.ID),
				zap.Error(err),
			)
		} else {
			d.logger.Debug("Event published successfully",
				zap.Int64("event_id", event.ID),
				zap.String("routing_key", routingKey),
			)
		}
	}
}

// publishEvent 发布单个事件到 MQ，payload 中补上事件 id 供消费端去重
func (d *Dispatcher) publishEvent(ctx context.Context, routingKey string, event *Event) error {
	var payload map[string]any
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	payload["event_id"] = event.ID

	if err := d.publisher.PublishWithContext(ctx, routingKey, payload); err != nil {
		return fmt.Errorf("failed to publish to MQ: %w", err)
	}

	return nil
}
