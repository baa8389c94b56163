package domain

import (
	"time"

	"supportdesk.app/engine/internal/model"
)

// MinutesBetween is floor((to - from) / 1m), never negative.
func MinutesBetween(from, to time.Time) int32 {
	if !to.After(from) {
		return 0
	}
	return int32(to.Sub(from) / time.Minute)
}

// ShiftTotals are the finalized minute counters written when a shift ends.
type ShiftTotals struct {
	Worked int32
	Paused int32
}

// FinalizeShift computes end-of-shift totals. pauses must already include
// any open pause closed at now.
func FinalizeShift(shift model.AgentShift, pauses []model.AgentPause, now time.Time) ShiftTotals {
	var paused int32
	for _, p := range pauses {
		paused += p.MinutesDuration
	}
	worked := MinutesBetween(shift.StartedAt, now) - paused
	if worked < 0 {
		worked = 0
	}
	return ShiftTotals{Worked: worked, Paused: paused}
}

// AgentStatus is the live projection of an agent's ledger state.
type AgentStatus struct {
	HasActiveShift       bool              `json:"has_active_shift"`
	IsPaused             bool              `json:"is_paused"`
	Shift                *model.AgentShift `json:"shift,omitempty"`
	Pause                *model.AgentPause `json:"pause,omitempty"`
	ElapsedWorkedMinutes int32             `json:"elapsed_worked_minutes"`
	ElapsedPausedMinutes int32             `json:"elapsed_paused_minutes"`
}

// ProjectStatus combines the open shift and open pause at now. Paused time is
// the shift's closed-pause running total plus the open pause so far.
func ProjectStatus(shift *model.AgentShift, openPause *model.AgentPause, now time.Time) AgentStatus {
	if shift == nil {
		return AgentStatus{}
	}

	paused := shift.TotalMinutesPaused
	if openPause != nil {
		paused += MinutesBetween(openPause.StartedAt, now)
	}
	worked := MinutesBetween(shift.StartedAt, now) - paused
	if worked < 0 {
		worked = 0
	}

	return AgentStatus{
		HasActiveShift:       true,
		IsPaused:             openPause != nil,
		Shift:                shift,
		Pause:                openPause,
		ElapsedWorkedMinutes: worked,
		ElapsedPausedMinutes: paused,
	}
}
