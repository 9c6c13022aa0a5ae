package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/internal/auth"
	"buildpro/internal/payment/model"
	"buildpro/pkg/apperr"
)

type fakeTermStore struct {
	terms  map[int]*model.PaymentTerm
	nextID int
}

func newFakeTermStore() *fakeTermStore {
	return &fakeTermStore{
		terms:  make(map[int]*model.PaymentTerm),
		nextID: 1,
	}
}

func (f *fakeTermStore) seedDefaults(projectID int, budget decimal.Decimal) {
	for _, spec := range model.DefaultTerms {
		f.terms[f.nextID] = &model.PaymentTerm{
			ID:                f.nextID,
			ProjectID:         projectID,
			TerminName:        spec.Name,
			TriggerPercentage: spec.Trigger,
			Amount:            spec.AmountFor(budget),
			Status:            model.StatusPending,
		}
		f.nextID++
	}
}

func (f *fakeTermStore) ListByProject(_ context.Context, projectID int) ([]model.PaymentTerm, error) {
	var out []model.PaymentTerm
	for id := 1; id < f.nextID; id++ {
		t, ok := f.terms[id]
		if ok && t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTermStore) FindByID(_ context.Context, id int) (*model.PaymentTerm, error) {
	t, ok := f.terms[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTermStore) MarkEligible(_ context.Context, id int) (bool, error) {
	t, ok := f.terms[id]
	if !ok || t.Status != model.StatusPending {
		return false, nil
	}
	t.Status = model.StatusEligible
	return true, nil
}

func (f *fakeTermStore) MarkPaid(_ context.Context, id int, paidDate time.Time) (bool, error) {
	t, ok := f.terms[id]
	if !ok || t.Status != model.StatusEligible {
		return false, nil
	}
	t.Status = model.StatusPaid
	t.PaidDate = &paidDate
	return true, nil
}

func (f *fakeTermStore) Insert(_ context.Context, t *model.PaymentTerm) (int, error) {
	id := f.nextID
	f.nextID++
	copied := *t
	copied.ID = id
	f.terms[id] = &copied
	return id, nil
}

func (f *fakeTermStore) SumByStatus(_ context.Context, projectID int) (map[model.Status]decimal.Decimal, error) {
	sums := make(map[model.Status]decimal.Decimal)
	for _, t := range f.terms {
		if t.ProjectID != projectID {
			continue
		}
		sums[t.Status] = sums[t.Status].Add(t.Amount)
	}
	return sums, nil
}

type fakeBudgetStore struct {
	budgets map[int]decimal.Decimal
}

func (f *fakeBudgetStore) GetBudget(_ context.Context, projectID int) (decimal.Decimal, bool, error) {
	b, ok := f.budgets[projectID]
	return b, ok, nil
}

func newMilestoneService(store *fakeTermStore) *MilestoneService {
	return NewMilestoneService(store, &fakeBudgetStore{budgets: map[int]decimal.Decimal{}}, zap.NewNop())
}

func TestProcessMilestone(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects progress outside range", func(t *testing.T) {
		svc := newMilestoneService(newFakeTermStore())
		for _, progress := range []float64{-1, 101} {
			_, err := svc.ProcessMilestone(ctx, 1, progress)
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("progress %v: expected validation error, got %v", progress, err)
			}
		}
	})

	t.Run("repeated calls at same progress are idempotent", func(t *testing.T) {
		store := newFakeTermStore()
		store.seedDefaults(1, decimal.NewFromInt(1000000))
		svc := newMilestoneService(store)

		n, err := svc.ProcessMilestone(ctx, 1, 30)
		if err != nil {
			t.Fatal(err)
		}
		if n != 2 {
			t.Fatalf("first call: expected 2 triggered (DP + Termin 1), got %d", n)
		}

		n, err = svc.ProcessMilestone(ctx, 1, 30)
		if err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Fatalf("second call: expected 0 triggered, got %d", n)
		}
	})

	t.Run("multi-threshold jump triggers every crossed term", func(t *testing.T) {
		store := newFakeTermStore()
		store.seedDefaults(1, decimal.NewFromInt(1000000))
		svc := newMilestoneService(store)

		if _, err := svc.ProcessMilestone(ctx, 1, 0); err != nil {
			t.Fatal(err)
		}
		n, err := svc.ProcessMilestone(ctx, 1, 80)
		if err != nil {
			t.Fatal(err)
		}
		if n != 2 {
			t.Fatalf("0 then 80: expected 2 triggered (25%% and 75%%), got %d", n)
		}
	})

	t.Run("paid terms are never re-triggered", func(t *testing.T) {
		store := newFakeTermStore()
		store.seedDefaults(1, decimal.NewFromInt(1000000))
		svc := newMilestoneService(store)

		if _, err := svc.ProcessMilestone(ctx, 1, 0); err != nil {
			t.Fatal(err)
		}
		admin := auth.Identity{UserID: 7, Role: "ADMIN"}
		if _, err := svc.ConfirmPayment(ctx, admin, 1); err != nil {
			t.Fatal(err)
		}

		n, err := svc.ProcessMilestone(ctx, 1, 100)
		if err != nil {
			t.Fatal(err)
		}
		if n != 3 {
			t.Fatalf("expected 3 triggered (the unpaid terms), got %d", n)
		}
		if got := store.terms[1].Status; got != model.StatusPaid {
			t.Fatalf("DP should stay PAID, got %s", got)
		}
	})

	t.Run("progress sequence drives cumulative eligible amounts", func(t *testing.T) {
		store := newFakeTermStore()
		budget := decimal.NewFromInt(1000000)
		store.seedDefaults(1, budget)
		svc := newMilestoneService(store)

		steps := []struct {
			progress      float64
			wantTriggered int
			wantEligible  int64
		}{
			{0, 1, 200000},
			{10, 0, 200000},
			{30, 1, 500000},
			{80, 1, 900000},
			{100, 1, 1000000},
		}
		for _, step := range steps {
			n, err := svc.ProcessMilestone(ctx, 1, step.progress)
			if err != nil {
				t.Fatal(err)
			}
			if n != step.wantTriggered {
				t.Fatalf("progress %v: expected %d triggered, got %d", step.progress, step.wantTriggered, n)
			}

			eligible := decimal.Zero
			for _, term := range store.terms {
				if term.Status == model.StatusEligible {
					eligible = eligible.Add(term.Amount)
				}
			}
			if !eligible.Equal(decimal.NewFromInt(step.wantEligible)) {
				t.Fatalf("progress %v: expected eligible total %d, got %s", step.progress, step.wantEligible, eligible)
			}
		}
	})
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()
	admin := auth.Identity{UserID: 7, Role: "ADMIN"}

	setup := func() (*fakeTermStore, *MilestoneService) {
		store := newFakeTermStore()
		store.seedDefaults(1, decimal.NewFromInt(1000000))
		return store, newMilestoneService(store)
	}

	t.Run("admin confirms an eligible term", func(t *testing.T) {
		store, svc := setup()
		store.terms[2].Status = model.StatusEligible

		term, err := svc.ConfirmPayment(ctx, admin, 2)
		if err != nil {
			t.Fatal(err)
		}
		if term.Status != model.StatusPaid {
			t.Fatalf("expected PAID, got %s", term.Status)
		}
		if term.PaidDate == nil {
			t.Fatal("expected paid_date to be set")
		}
		if store.terms[2].Status != model.StatusPaid {
			t.Fatal("store was not updated")
		}
	})

	t.Run("vendor and viewer are rejected", func(t *testing.T) {
		store, svc := setup()
		store.terms[2].Status = model.StatusEligible

		for _, role := range []string{"VENDOR", "VIEWER", ""} {
			_, err := svc.ConfirmPayment(ctx, auth.Identity{UserID: 9, Role: role}, 2)
			if apperr.KindOf(err) != apperr.KindPermissionDenied {
				t.Fatalf("role %q: expected permission denied, got %v", role, err)
			}
		}
		if store.terms[2].Status != model.StatusEligible {
			t.Fatal("term must stay ELIGIBLE after rejected confirmations")
		}
	})

	t.Run("pending term cannot be confirmed", func(t *testing.T) {
		_, svc := setup()
		_, err := svc.ConfirmPayment(ctx, admin, 2)
		if apperr.KindOf(err) != apperr.KindInvalidState {
			t.Fatalf("expected invalid state, got %v", err)
		}
	})

	t.Run("paid term cannot be confirmed twice", func(t *testing.T) {
		store, svc := setup()
		store.terms[2].Status = model.StatusEligible
		if _, err := svc.ConfirmPayment(ctx, admin, 2); err != nil {
			t.Fatal(err)
		}
		_, err := svc.ConfirmPayment(ctx, admin, 2)
		if apperr.KindOf(err) != apperr.KindInvalidState {
			t.Fatalf("expected invalid state, got %v", err)
		}
	})

	t.Run("unknown term is not found", func(t *testing.T) {
		_, svc := setup()
		_, err := svc.ConfirmPayment(ctx, admin, 99)
		if apperr.KindOf(err) != apperr.KindNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestGenerateDefaultTerms(t *testing.T) {
	ctx := context.Background()
	store := newFakeTermStore()
	svc := newMilestoneService(store)

	terms, err := svc.GenerateDefaultTerms(ctx, 1, decimal.NewFromInt(1000000))
	if err != nil {
		t.Fatal(err)
	}
	if len(terms) != 4 {
		t.Fatalf("expected 4 terms, got %d", len(terms))
	}

	wantAmounts := []int64{200000, 300000, 400000, 100000}
	for i, term := range terms {
		if !term.Amount.Equal(decimal.NewFromInt(wantAmounts[i])) {
			t.Fatalf("term %d: expected amount %d, got %s", i, wantAmounts[i], term.Amount)
		}
		if term.Status != model.StatusPending {
			t.Fatalf("term %d: expected PENDING, got %s", i, term.Status)
		}
	}

	_, err = svc.GenerateDefaultTerms(ctx, 1, decimal.NewFromInt(-5))
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("negative budget: expected validation error, got %v", err)
	}
}

func TestBudgetSummary(t *testing.T) {
	ctx := context.Background()
	store := newFakeTermStore()
	budget := decimal.NewFromInt(1000000)
	store.seedDefaults(1, budget)
	store.terms[1].Status = model.StatusPaid
	store.terms[2].Status = model.StatusEligible

	budgets := &fakeBudgetStore{budgets: map[int]decimal.Decimal{1: budget}}
	svc := NewBudgetSummaryService(store, budgets)

	summary, err := svc.Summarize(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !summary.PaidAmount.Equal(decimal.NewFromInt(200000)) {
		t.Fatalf("paid: got %s", summary.PaidAmount)
	}
	if !summary.PendingAmount.Equal(decimal.NewFromInt(300000)) {
		t.Fatalf("pending: got %s", summary.PendingAmount)
	}
	if !summary.UnpaidAmount.Equal(decimal.NewFromInt(500000)) {
		t.Fatalf("unpaid: got %s", summary.UnpaidAmount)
	}
	if !summary.RemainingBudget.Equal(decimal.NewFromInt(800000)) {
		t.Fatalf("remaining: got %s", summary.RemainingBudget)
	}
	if !summary.PercentageUsed.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("percentage used: got %s", summary.PercentageUsed)
	}

	_, err = svc.Summarize(ctx, 99)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("unknown project: expected not found, got %v", err)
	}
}
