package model

import "time"

// PauseReasonKind is the stored discriminator of a pause reason.
type PauseReasonKind string

const (
	PauseReasonMeal     PauseReasonKind = "meal"
	PauseReasonCoffee   PauseReasonKind = "coffee"
	PauseReasonRestroom PauseReasonKind = "restroom"
	PauseReasonOther    PauseReasonKind = "other"
)

func (k PauseReasonKind) IsValid() bool {
	switch k {
	case PauseReasonMeal, PauseReasonCoffee, PauseReasonRestroom, PauseReasonOther:
		return true
	}
	return false
}

type AgentShift struct {
	ID                 int64      `json:"id"`
	TenantID           int64      `json:"tenant_id"`
	AgentID            int64      `json:"agent_id"`
	StartedAt          time.Time  `json:"started_at"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
	TotalMinutesWorked int32      `json:"total_minutes_worked"`
	TotalMinutesPaused int32      `json:"total_minutes_paused"`
}

func (s AgentShift) IsOpen() bool {
	return s.EndedAt == nil
}

type AgentPause struct {
	ID              int64           `json:"id"`
	ShiftID         int64           `json:"shift_id"`
	Reason          PauseReasonKind `json:"reason"`
	ReasonDetail    *string         `json:"reason_detail,omitempty"`
	StartedAt       time.Time       `json:"started_at"`
	EndedAt         *time.Time      `json:"ended_at,omitempty"`
	MinutesDuration int32           `json:"minutes_duration"`
}

func (p AgentPause) IsOpen() bool {
	return p.EndedAt == nil
}

// ShiftWithPauses is a closed shift together with its pause history.
type ShiftWithPauses struct {
	AgentShift
	Pauses []AgentPause `json:"pauses"`
}
