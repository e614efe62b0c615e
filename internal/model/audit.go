package model

import "time"

// AuditAction is the kind of linkage decision being recorded.
type AuditAction string

const (
	ActionUserLinked    AuditAction = "user_linked"
	ActionPlayerCreated AuditAction = "player_created"
)

// AuditEntry is an immutable record of a linkage decision: who made it and
// what changed. Entries are append-only, never mutated or deleted.
type AuditEntry struct {
	ID          string         `json:"id" db:"id"`
	Action      AuditAction    `json:"action" db:"action"`
	UserID      string         `json:"user_id" db:"user_id"`
	PlayerID    string         `json:"player_id" db:"player_id"`
	PerformedBy string         `json:"performed_by" db:"performed_by"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}
