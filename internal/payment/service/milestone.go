package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/internal/auth"
	"buildpro/internal/payment/model"
	"buildpro/pkg/apperr"
	"buildpro/pkg/metrics"
	"buildpro/pkg/rbac"
)

// TermStore 是 milestone 处理器对付款期存储的依赖
type TermStore interface {
	ListByProject(ctx context.Context, projectID int) ([]model.PaymentTerm, error)
	FindByID(ctx context.Context, id int) (*model.PaymentTerm, error)
	MarkEligible(ctx context.Context, id int) (bool, error)
	MarkPaid(ctx context.Context, id int, paidDate time.Time) (bool, error)
	Insert(ctx context.Context, t *model.PaymentTerm) (int, error)
}

// BudgetStore 提供项目预算查询
type BudgetStore interface {
	GetBudget(ctx context.Context, projectID int) (decimal.Decimal, bool, error)
}

type MilestoneService struct {
	terms   TermStore
	budgets BudgetStore
	logger  *zap.Logger
	now     func() time.Time
}

func NewMilestoneService(terms TermStore, budgets BudgetStore, logger *zap.Logger) *MilestoneService {
	return &MilestoneService{
		terms:   terms,
		budgets: budgets,
		logger:  logger,
		now:     time.Now,
	}
}

// ProcessMilestone evaluates all of a project's payment terms against the
// given progress and flips every still-PENDING term whose trigger threshold
// is reached to ELIGIBLE. Returns the number of terms that changed state in
// this call. Repeated calls at the same progress trigger nothing: only
// PENDING terms qualify, and the transition is one-way.
func (s *MilestoneService) ProcessMilestone(ctx context.Context, projectID int, progress float64) (int, error) {
	if progress < 0 || progress > 100 {
		return 0, apperr.Validation("progress must be between 0 and 100")
	}

	terms, err := s.terms.ListByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}

	triggered := 0
	for _, term := range terms {
		if term.Status != model.StatusPending {
			continue
		}
		if term.TriggerPercentage > progress {
			continue
		}

		changed, err := s.terms.MarkEligible(ctx, term.ID)
		if err != nil {
			return triggered, err
		}
		if !changed {
			// 并发调用已经翻过了这一期，算对方的
			continue
		}

		triggered++
		s.logger.Info("Payment term triggered",
			zap.Int("project_id", projectID),
			zap.Int("term_id", term.ID),
			zap.String("termin_name", term.TerminName),
			zap.Float64("milestone_percentage", term.TriggerPercentage),
			zap.Float64("progress", progress),
		)
	}

	if triggered > 0 {
		metrics.AddMilestoneTriggered(triggered)
	}

	return triggered, nil
}

// ConfirmPayment is the explicit human confirmation that moves an ELIGIBLE
// term to PAID. Only ADMIN and PROJECT_MANAGER may confirm.
func (s *MilestoneService) ConfirmPayment(ctx context.Context, identity auth.Identity, termID int) (*model.PaymentTerm, error) {
	if err := rbac.CheckPermission(identity.Role, rbac.PermissionConfirmPayment); err != nil {
		return nil, apperr.PermissionDenied("role %q may not confirm payments", identity.Role)
	}

	term, err := s.terms.FindByID(ctx, termID)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, apperr.NotFound("payment term %d not found", termID)
	}

	switch term.Status {
	case model.StatusPaid:
		return nil, apperr.InvalidState("payment term %d is already paid", termID)
	case model.StatusPending:
		return nil, apperr.InvalidState("payment term %d is not yet eligible for payment", termID)
	}

	paidDate := s.now()
	changed, err := s.terms.MarkPaid(ctx, termID, paidDate)
	if err != nil {
		return nil, err
	}
	if !changed {
		// 状态在读取和更新之间被别人改了
		return nil, apperr.InvalidState("payment term %d changed state concurrently", termID)
	}

	s.logger.Info("Payment confirmed",
		zap.Int("term_id", termID),
		zap.Int("confirmed_by", identity.UserID),
		zap.String("role", identity.Role),
	)

	confirmed := *term
	confirmed.Status = model.StatusPaid
	confirmed.PaidDate = &paidDate
	return &confirmed, nil
}

// GenerateDefaultTerms creates the fixed four-term schedule for a freshly
// created project: DP 20%@0, Termin 1 30%@25, Termin 2 40%@75, Retensi 10%@100.
func (s *MilestoneService) GenerateDefaultTerms(ctx context.Context, projectID int, budget decimal.Decimal) ([]model.PaymentTerm, error) {
	if budget.IsNegative() {
		return nil, apperr.Validation("project budget must not be negative")
	}

	now := s.now()
	created := make([]model.PaymentTerm, 0, len(model.DefaultTerms))
	for _, spec := range model.DefaultTerms {
		due := spec.EstimatedDueDate(now)
		term := model.PaymentTerm{
			ProjectID:         projectID,
			TerminName:        spec.Name,
			TriggerPercentage: spec.Trigger,
			Amount:            spec.AmountFor(budget),
			Status:            model.StatusPending,
			DueDate:           &due,
		}

		id, err := s.terms.Insert(ctx, &term)
		if err != nil {
			return created, err
		}
		term.ID = id
		created = append(created, term)
	}

	return created, nil
}
