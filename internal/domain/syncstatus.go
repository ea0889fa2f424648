package domain

import "time"

// SyncOutcome is the terminal state of one mirror attempt.
type SyncOutcome string

const (
	SyncOK     SyncOutcome = "ok"
	SyncFailed SyncOutcome = "failed"
)

// SyncStatus records the last mirror attempt per entity, so a failed
// best-effort write is visible afterwards instead of silently swallowed.
type SyncStatus struct {
	Collection  string      `json:"collection"`
	EntityID    string      `json:"entity_id"`
	Outcome     SyncOutcome `json:"outcome"`
	Detail      string      `json:"detail,omitempty"`
	AttemptedAt time.Time   `json:"attempted_at"`
}
