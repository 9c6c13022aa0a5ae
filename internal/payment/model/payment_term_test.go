package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"PENDING", StatusPending},
		{"pending", StatusPending},
		{"Unpaid", StatusPending},
		{" UNPAID ", StatusPending},
		{"ELIGIBLE", StatusEligible},
		{"eligible", StatusEligible},
		{"PAID", StatusPaid},
		{"Paid", StatusPaid},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.raw)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned error: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseStatus(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}

	for _, raw := range []string{"", "DONE", "CANCELLED"} {
		if _, err := ParseStatus(raw); err == nil {
			t.Errorf("ParseStatus(%q) should fail", raw)
		}
	}
}

func TestDefaultTermPercentagesSumToHundred(t *testing.T) {
	var total int64
	for _, spec := range DefaultTerms {
		total += spec.Percentage
	}
	if total != 100 {
		t.Fatalf("default terms cover %d%% of the budget, want 100%%", total)
	}
}

func TestAmountFor(t *testing.T) {
	budget := decimal.NewFromInt(1_000_000)
	want := []int64{200_000, 300_000, 400_000, 100_000}
	for i, spec := range DefaultTerms {
		if got := spec.AmountFor(budget); !got.Equal(decimal.NewFromInt(want[i])) {
			t.Errorf("%s: amount %s, want %d", spec.Name, got, want[i])
		}
	}
}

func TestEstimatedDueDate(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		trigger float64
		months  int
	}{
		{0, 0},
		{25, 1},
		{75, 3},
		{100, 4},
	}
	for _, tc := range cases {
		spec := DefaultTermSpec{Trigger: tc.trigger}
		want := now.AddDate(0, tc.months, 0)
		if got := spec.EstimatedDueDate(now); !got.Equal(want) {
			t.Errorf("trigger %.0f: due %s, want %s", tc.trigger, got, want)
		}
	}
}
