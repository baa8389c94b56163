package domain

import "errors"

// Kind classifies a failure so callers can tell "you cannot do this" from
// "this cannot be done right now" from "bad input".
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindValidation   Kind = "validation"
)

// Error is a per-request failure with a stable machine code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// Is matches on kind and code so a sentinel still matches after WithMessage.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithMessage returns a copy carrying a request-specific message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: msg}
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrUnauthorized = newError(KindUnauthorized, "unauthorized", "no valid caller identity")

	ErrForbidden = newError(KindForbidden, "forbidden", "caller lacks the required capability")
	ErrNotOwner  = newError(KindForbidden, "not_owner", "conversation is assigned to another agent")

	ErrConversationNotFound = newError(KindNotFound, "conversation_not_found", "conversation not found")
	ErrAgentNotFound        = newError(KindNotFound, "agent_not_found", "agent not found")
	ErrNoActiveShift        = newError(KindNotFound, "no_active_shift", "agent has no active shift")
	ErrNoActivePause        = newError(KindNotFound, "no_active_pause", "agent has no active pause")
	ErrTimerNotFound        = newError(KindNotFound, "timer_not_found", "conversation has no sla timer")

	ErrAgentOffShift      = newError(KindConflict, "no_active_shift", "agent must hold an active shift")
	ErrAgentPaused        = newError(KindConflict, "agent_paused", "agent shift is paused")
	ErrShiftAlreadyActive = newError(KindConflict, "shift_already_active", "agent already has an active shift")
	ErrAlreadyPaused      = newError(KindConflict, "already_paused", "agent is already paused")
	ErrAlreadyClaimed     = newError(KindConflict, "already_claimed", "conversation was claimed by another agent")
	ErrAssignmentChanged  = newError(KindConflict, "assignment_changed", "conversation owner changed concurrently")

	ErrAlreadyClosed   = newError(KindInvalidState, "already_closed", "conversation is closed")
	ErrNotInProgress   = newError(KindInvalidState, "not_in_progress", "conversation is not in progress")
	ErrAlreadyAtStage  = newError(KindInvalidState, "already_at_stage", "conversation is already at this stage")
	ErrTimerNotRunning = newError(KindInvalidState, "timer_not_running", "sla timer is not running")
	ErrTimerNotPaused  = newError(KindInvalidState, "timer_not_paused", "sla timer is not paused")

	ErrMissingDetail = newError(KindValidation, "missing_detail", "reason \"other\" requires a detail")
	ErrInvalidReason = newError(KindValidation, "invalid_reason", "unknown pause reason")
	ErrSameAgent     = newError(KindValidation, "same_agent", "source and target agent are the same")
	ErrInvalidInput  = newError(KindValidation, "invalid_input", "invalid input")
)

// KindOf returns the kind of a domain error anywhere in err's chain, or "".
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
