package service

import (
	"context"

	"github.com/shopspring/decimal"

	"buildpro/internal/payment/model"
	"buildpro/pkg/apperr"
)

// TermSummer 按状态汇总一个项目的付款期金额
type TermSummer interface {
	SumByStatus(ctx context.Context, projectID int) (map[model.Status]decimal.Decimal, error)
}

// BudgetSummary is the financial snapshot of a project: the contract total
// from the project budget and the term amounts bucketed by payment status.
type BudgetSummary struct {
	ProjectID       int             `json:"project_id"`
	TotalContract   decimal.Decimal `json:"totalContract"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	PendingAmount   decimal.Decimal `json:"pendingAmount"`
	UnpaidAmount    decimal.Decimal `json:"unpaidAmount"`
	RemainingBudget decimal.Decimal `json:"remainingBudget"`
	PercentageUsed  decimal.Decimal `json:"percentageUsed"`
}

type BudgetSummaryService struct {
	sums    TermSummer
	budgets BudgetStore
}

func NewBudgetSummaryService(sums TermSummer, budgets BudgetStore) *BudgetSummaryService {
	return &BudgetSummaryService{
		sums:    sums,
		budgets: budgets,
	}
}

// Summarize assembles the project budget summary. pendingAmount counts terms
// that are ELIGIBLE but not yet confirmed, unpaidAmount counts terms whose
// milestone has not been reached.
func (s *BudgetSummaryService) Summarize(ctx context.Context, projectID int) (*BudgetSummary, error) {
	budget, found, err := s.budgets.GetBudget(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("project %d not found", projectID)
	}

	sums, err := s.sums.SumByStatus(ctx, projectID)
	if err != nil {
		return nil, err
	}

	paid := sums[model.StatusPaid]
	pending := sums[model.StatusEligible]
	unpaid := sums[model.StatusPending]

	summary := &BudgetSummary{
		ProjectID:       projectID,
		TotalContract:   budget,
		PaidAmount:      paid,
		PendingAmount:   pending,
		UnpaidAmount:    unpaid,
		RemainingBudget: budget.Sub(paid),
	}
	if budget.IsPositive() {
		summary.PercentageUsed = paid.Mul(decimal.NewFromInt(100)).DivRound(budget, 2)
	}

	return summary, nil
}
