package model

import "time"

// DailyLog 是工地日报，progress_added 是这一天贡献的进度增量
type DailyLog struct {
	ID            int       `json:"id"`
	ProjectID     int       `json:"project_id"`
	LogDate       time.Time `json:"log_date"`
	Activity      string    `json:"activity"`
	ProgressAdded float64   `json:"progress_added"`
	Weather       string    `json:"weather"`
	WorkerCount   int       `json:"worker_count"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProgressHistory 每个项目每天一行，计划值与实际值并排
type ProgressHistory struct {
	ID              int       `json:"id"`
	ProjectID       int       `json:"project_id"`
	RecordDate      time.Time `json:"record_date"`
	PlannedProgress float64   `json:"planned_progress"`
	ActualProgress  float64   `json:"actual_progress"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TimelineNote 是项目时间线上的备注
type TimelineNote struct {
	ID        int       `json:"id"`
	ProjectID int       `json:"project_id"`
	NoteDate  time.Time `json:"note_date"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
