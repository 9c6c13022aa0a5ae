// Package mq holds the event payloads shared between producers and consumers.
package mq

// ProgressUpdated is published whenever a project's progress changes,
// either from a daily-log recompute or a manual override.
// EventID is filled in by the outbox dispatcher and used for consumer dedup.
type ProgressUpdated struct {
	EventID   int64   `json:"event_id,omitempty"`
	ProjectID int     `json:"project_id"`
	Progress  float64 `json:"progress"`
	Timestamp string  `json:"timestamp"`
}
