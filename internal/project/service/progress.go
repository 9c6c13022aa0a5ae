package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"buildpro/internal/project/model"
	"buildpro/pkg/apperr"
	"buildpro/pkg/circuitbreaker"
	"buildpro/pkg/metrics"
)

// ProgressStore 是进度写入的事务入口，一次调用落进度、历史和事件
type ProgressStore interface {
	ApplyProgress(ctx context.Context, projectID int, progress float64, phase string, recordDate time.Time, note string) (bool, error)
}

// LogStore 提供日报进度汇总
type LogStore interface {
	SumProgress(ctx context.Context, projectID int) (float64, error)
}

// MilestoneClient 调用付款服务评估付款节点
type MilestoneClient interface {
	ProcessMilestone(ctx context.Context, projectID int, progress float64) error
}

type ProgressService struct {
	store   ProgressStore
	logs    LogStore
	client  MilestoneClient
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
	now     func() time.Time
}

func NewProgressService(store ProgressStore, logs LogStore, client MilestoneClient, logger *zap.Logger) *ProgressService {
	return &ProgressService{
		store:   store,
		logs:    logs,
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig()),
		logger:  logger,
		now:     time.Now,
	}
}

// RecomputeProgress recalculates a project's progress as the clamped sum of
// its daily-log increments and persists it. Called after every daily-log
// mutation; always a full recompute over the remaining logs.
func (s *ProgressService) RecomputeProgress(ctx context.Context, projectID int, recordDate time.Time, note string) (float64, error) {
	sum, err := s.logs.SumProgress(ctx, projectID)
	if err != nil {
		return 0, err
	}

	progress := sum
	if progress > 100 {
		progress = 100
	}

	applied, err := s.store.ApplyProgress(ctx, projectID, progress, "", recordDate, note)
	if err != nil {
		return 0, err
	}
	if !applied {
		return 0, apperr.NotFound("project %d not found", projectID)
	}

	metrics.IncrementProgressUpdate("daily_log")
	s.notifyMilestone(ctx, projectID, progress)
	return progress, nil
}

// OverrideProgress writes a progress value directly, bypassing the log sum,
// and derives the construction phase from the value. The next daily-log
// mutation recomputes from logs and overwrites this value.
func (s *ProgressService) OverrideProgress(ctx context.Context, projectID int, progress float64) error {
	if progress < 0 || progress > 100 {
		return apperr.Validation("progress must be between 0 and 100")
	}

	phase := model.PhaseForProgress(progress)
	applied, err := s.store.ApplyProgress(ctx, projectID, progress, phase, s.now(), "Manual progress update")
	if err != nil {
		return err
	}
	if !applied {
		return apperr.NotFound("project %d not found", projectID)
	}

	metrics.IncrementProgressUpdate("manual")
	s.notifyMilestone(ctx, projectID, progress)
	return nil
}

// notifyMilestone 尽力通知付款服务，失败只记日志不影响进度更新
// outbox 里的事件保证 worker 最终会补上这次评估
func (s *ProgressService) notifyMilestone(ctx context.Context, projectID int, progress float64) {
	start := time.Now()
	err := s.breaker.Execute(func() error {
		return s.client.ProcessMilestone(ctx, projectID, progress)
	})
	if err != nil {
		metrics.RecordMilestoneCallLatency("error", time.Since(start))
		s.logger.Warn("Milestone notification failed, relying on event relay",
			zap.Int("project_id", projectID),
			zap.Float64("progress", progress),
			zap.Error(err),
		)
		return
	}
	metrics.RecordMilestoneCallLatency("ok", time.Since(start))
}
