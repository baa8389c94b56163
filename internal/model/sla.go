package model

import "time"

// SlaState is the classification of a timer at a given instant.
type SlaState string

const (
	SlaStateOnTime   SlaState = "on_time"
	SlaStateWarning  SlaState = "warning"
	SlaStateBreached SlaState = "breached"
	SlaStatePaused   SlaState = "paused"
	SlaStateStopped  SlaState = "stopped"
)

type SlaEventType string

const (
	SlaEventTypeBreach   SlaEventType = "breach"
	SlaEventTypeResponse SlaEventType = "response"
)

// SlaTimer is one response-deadline cycle for a conversation. A new customer
// message after an agent reply starts a fresh cycle in the same row.
type SlaTimer struct {
	ConversationID          int64      `json:"conversation_id"`
	TenantID                int64      `json:"tenant_id"`
	PolicyID                *int64     `json:"policy_id,omitempty"`
	ResponseSeconds         int32      `json:"response_seconds"`
	WarningThresholdPercent int32      `json:"warning_threshold_percent"`
	StartedAt               time.Time  `json:"started_at"`
	DueAt                   time.Time  `json:"due_at"`
	PausedAt                *time.Time `json:"paused_at,omitempty"`
	BreachedAt              *time.Time `json:"breached_at,omitempty"`
	StoppedAt               *time.Time `json:"stopped_at,omitempty"`
}

func (t SlaTimer) IsPaused() bool {
	return t.PausedAt != nil
}

func (t SlaTimer) IsStopped() bool {
	return t.StoppedAt != nil
}

// IsRunning reports whether breach evaluation applies to the timer.
func (t SlaTimer) IsRunning() bool {
	return t.PausedAt == nil && t.StoppedAt == nil
}

// SlaPolicy scopes a response deadline to a funnel stage and/or contact
// category. Nil scope fields match anything.
type SlaPolicy struct {
	ID                      int64     `json:"id"`
	TenantID                int64     `json:"tenant_id"`
	StageID                 *int64    `json:"stage_id,omitempty"`
	ContactCategory         *string   `json:"contact_category,omitempty"`
	ResponseSeconds         int32     `json:"response_seconds"`
	WarningThresholdPercent int32     `json:"warning_threshold_percent"`
	CreatedAt               time.Time `json:"created_at"`
}

type SlaEvent struct {
	ID              int64        `json:"id"`
	TenantID        int64        `json:"tenant_id"`
	ConversationID  int64        `json:"conversation_id"`
	AssignedAgentID *int64       `json:"assigned_agent_id,omitempty"`
	Type            SlaEventType `json:"type"`
	PolicyID        *int64       `json:"policy_id,omitempty"`
	StartedAt       time.Time    `json:"started_at"`
	DueAt           time.Time    `json:"due_at"`
	OccurredAt      time.Time    `json:"occurred_at"`
	ResponseSeconds *int32       `json:"response_seconds,omitempty"`
}
