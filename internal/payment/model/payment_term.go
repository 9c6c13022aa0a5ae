package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the canonical payment-term lifecycle:
// PENDING → ELIGIBLE (milestone reached) → PAID (human confirmation).
// Transitions are one-way; a PAID term is never reopened.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusEligible Status = "ELIGIBLE"
	StatusPaid     Status = "PAID"
)

// ParseStatus normalizes the status spellings that older clients still send
// (Unpaid / Pending / Paid) onto the canonical enum.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING", "UNPAID":
		return StatusPending, nil
	case "ELIGIBLE":
		return StatusEligible, nil
	case "PAID":
		return StatusPaid, nil
	}
	return "", fmt.Errorf("unknown payment status: %q", raw)
}

// PaymentTerm 是项目的一期付款（termin）
type PaymentTerm struct {
	ID                int             `json:"id"`
	ProjectID         int             `json:"project_id"`
	TerminName        string          `json:"termin_name"`
	TriggerPercentage float64         `json:"milestone_percentage"`
	Amount            decimal.Decimal `json:"amount"`
	Status            Status          `json:"status"`
	DueDate           *time.Time      `json:"due_date"`
	PaidDate          *time.Time      `json:"paid_date"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// DefaultTermSpec describes one auto-generated term at project creation.
type DefaultTermSpec struct {
	Name       string
	Percentage int64
	Trigger    float64
}

// DefaultTerms is the fixed sequence generated for every new project.
// Amounts are budget × percentage at creation time and never recomputed.
var DefaultTerms = []DefaultTermSpec{
	{Name: "Down Payment (DP)", Percentage: 20, Trigger: 0},
	{Name: "Termin 1 (Pondasi)", Percentage: 30, Trigger: 25},
	{Name: "Termin 2 (Struktur)", Percentage: 40, Trigger: 75},
	{Name: "Retensi (Serah Terima)", Percentage: 10, Trigger: 100},
}

// AmountFor computes the term amount for a given project budget.
func (s DefaultTermSpec) AmountFor(budget decimal.Decimal) decimal.Decimal {
	return budget.Mul(decimal.NewFromInt(s.Percentage)).Div(decimal.NewFromInt(100))
}

// EstimatedDueDate mirrors the placeholder estimate used at creation:
// DP is due now, later terms one month per 25% trigger step.
func (s DefaultTermSpec) EstimatedDueDate(now time.Time) time.Time {
	if s.Trigger == 0 {
		return now
	}
	return now.AddDate(0, int(s.Trigger/25), 0)
}
