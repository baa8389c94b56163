package domain

import (
	"time"

	"supportdesk.app/engine/internal/model"
)

// SlaEvaluation is the read-only view of a timer at an instant.
type SlaEvaluation struct {
	State      model.SlaState `json:"state"`
	DueAt      time.Time      `json:"due_at"`
	BreachedAt *time.Time     `json:"breached_at,omitempty"`
	// Remaining is nil while the clock is frozen (paused or stopped).
	Remaining *time.Duration `json:"-"`
	// Latch is set when this evaluation is the first to observe the breach;
	// the caller persists BreachedAt exactly once.
	Latch bool `json:"-"`
}

// RemainingSeconds truncates Remaining toward zero; negative once overdue.
func (e SlaEvaluation) RemainingSeconds() *int64 {
	if e.Remaining == nil {
		return nil
	}
	secs := int64(*e.Remaining / time.Second)
	return &secs
}

// NewTimerCycle starts a fresh cycle at now with the resolved policy.
func NewTimerCycle(conv *model.Conversation, policy ResolvedPolicy, now time.Time) model.SlaTimer {
	return model.SlaTimer{
		ConversationID:          conv.ID,
		TenantID:                conv.TenantID,
		PolicyID:                policy.PolicyID,
		ResponseSeconds:         policy.ResponseSeconds,
		WarningThresholdPercent: policy.WarningThresholdPercent,
		StartedAt:               now,
		DueAt:                   now.Add(time.Duration(policy.ResponseSeconds) * time.Second),
	}
}

// WarningWindow is the remaining time at or below which a running timer is
// in Warning: response_seconds * (1 - warning_threshold_percent/100).
func WarningWindow(t model.SlaTimer) time.Duration {
	pct := int64(t.WarningThresholdPercent)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return time.Duration(int64(t.ResponseSeconds)*(100-pct)) * time.Second / 100
}

// EvaluateTimer classifies t at now. It has no side effects; a first
// observed breach is reported through Latch and BreachedAt = now.
func EvaluateTimer(t model.SlaTimer, now time.Time) SlaEvaluation {
	eval := SlaEvaluation{DueAt: t.DueAt, BreachedAt: t.BreachedAt}

	switch {
	case t.StoppedAt != nil:
		eval.State = model.SlaStateStopped
		return eval
	case t.PausedAt != nil:
		eval.State = model.SlaStatePaused
		return eval
	}

	remaining := t.DueAt.Sub(now)
	eval.Remaining = &remaining

	if t.BreachedAt != nil {
		eval.State = model.SlaStateBreached
		return eval
	}

	if !now.Before(t.DueAt) {
		at := now
		eval.State = model.SlaStateBreached
		eval.BreachedAt = &at
		eval.Latch = true
		return eval
	}

	if remaining <= WarningWindow(t) {
		eval.State = model.SlaStateWarning
		return eval
	}

	eval.State = model.SlaStateOnTime
	return eval
}

// PauseLatchesBreach reports whether pausing t at now must first record a
// breach. A pause at exactly due_at does not.
func PauseLatchesBreach(t model.SlaTimer, now time.Time) bool {
	return t.IsRunning() && t.BreachedAt == nil && now.After(t.DueAt)
}

// ResponseSeconds is the whole seconds between the cycle start and a reply.
func ResponseSeconds(t model.SlaTimer, repliedAt time.Time) int32 {
	if !repliedAt.After(t.StartedAt) {
		return 0
	}
	return int32(repliedAt.Sub(t.StartedAt) / time.Second)
}

// ShouldStartCycle reports whether a customer message opens a new timer
// cycle. An unanswered cycle keeps its original deadline.
func ShouldStartCycle(existing *model.SlaTimer, conv *model.Conversation) bool {
	if existing == nil || existing.IsStopped() {
		return true
	}
	if conv.LastAgentMessageAt != nil && !conv.LastAgentMessageAt.Before(existing.StartedAt) {
		return true
	}
	return false
}
