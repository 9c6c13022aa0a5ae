package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project 是一个施工项目
// progress 只通过日志汇总或手动覆盖两条路径写入
type Project struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Location        string          `json:"location"`
	ClientName      string          `json:"client_name"`
	Budget          decimal.Decimal `json:"budget"`
	StartDate       *time.Time      `json:"start_date"`
	EndDate         *time.Time      `json:"end_date"`
	Progress        float64         `json:"progress"`
	PlannedProgress float64         `json:"planned_progress"`
	CurrentPhase    string          `json:"current_phase"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// 项目阶段，手动进度覆盖时按进度区间推导
const (
	PhasePlanning   = "Perencanaan"
	PhaseFoundation = "Fondasi"
	PhaseStructure  = "Struktur"
	PhaseFinishing  = "Finishing"
	PhaseDone       = "Selesai"
)

// PhaseForProgress maps a manual progress value onto the construction phase.
func PhaseForProgress(progress float64) string {
	switch {
	case progress <= 0:
		return PhasePlanning
	case progress <= 20:
		return PhaseFoundation
	case progress <= 60:
		return PhaseStructure
	case progress < 100:
		return PhaseFinishing
	default:
		return PhaseDone
	}
}

// PlannedProgressFor interpolates expected progress linearly between the
// project's start and end dates. Zero before start, 100 after end.
func PlannedProgressFor(start, end, at time.Time) float64 {
	if !end.After(start) {
		return 0
	}
	if at.Before(start) {
		return 0
	}
	if !at.Before(end) {
		return 100
	}
	elapsed := at.Sub(start).Hours()
	total := end.Sub(start).Hours()
	return 100 * elapsed / total
}
