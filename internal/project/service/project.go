package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/internal/project/model"
	"buildpro/internal/project/repository"
	"buildpro/pkg/apperr"
)

// TermGenerator 建项目时生成默认付款期
type TermGenerator interface {
	GenerateDefaultTerms(ctx context.Context, projectID int, budget decimal.Decimal) error
}

type ProjectService struct {
	repo   *repository.ProjectRepository
	terms  TermGenerator
	logger *zap.Logger
	now    func() time.Time
}

func NewProjectService(repo *repository.ProjectRepository, terms TermGenerator, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		repo:   repo,
		terms:  terms,
		logger: logger,
		now:    time.Now,
	}
}

// Create inserts the project and asks the payment service to generate the
// default term schedule. Term generation failure does not fail the create:
// the project exists either way and terms can be added manually.
func (s *ProjectService) Create(ctx context.Context, p *model.Project) (int, error) {
	if p.Name == "" {
		return 0, apperr.Validation("project name is required")
	}
	if p.Budget.IsNegative() {
		return 0, apperr.Validation("budget must not be negative")
	}

	if p.PlannedProgress == 0 && p.StartDate != nil && p.EndDate != nil {
		p.PlannedProgress = model.PlannedProgressFor(*p.StartDate, *p.EndDate, s.now())
	}
	if p.CurrentPhase == "" {
		p.CurrentPhase = model.PhasePlanning
	}
	if p.Status == "" {
		p.Status = "active"
	}

	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		return 0, err
	}

	if s.terms != nil && p.Budget.IsPositive() {
		if err := s.terms.GenerateDefaultTerms(ctx, id, p.Budget); err != nil {
			if apperr.Is(err, apperr.KindUpstreamUnavailable) {
				s.logger.Warn("Payment service unreachable, default terms skipped",
					zap.Int("project_id", id),
					zap.Error(err),
				)
			} else {
				s.logger.Error("Default payment term generation failed",
					zap.Int("project_id", id),
					zap.Error(err),
				)
			}
		}
	}

	return id, nil
}
