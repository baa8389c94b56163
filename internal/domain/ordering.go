package domain

import (
	"cmp"
	"slices"
	"time"

	"supportdesk.app/engine/internal/model"
)

// QueueEntry is a conversation with its timer evaluated at list time.
type QueueEntry struct {
	Conversation model.Conversation
	Timer        *model.SlaTimer
	Evaluation   *SlaEvaluation
}

// NewQueueEntry evaluates timer (if any) at now.
func NewQueueEntry(conv model.Conversation, timer *model.SlaTimer, now time.Time) QueueEntry {
	entry := QueueEntry{Conversation: conv, Timer: timer}
	if timer != nil {
		eval := EvaluateTimer(*timer, now)
		entry.Evaluation = &eval
	}
	return entry
}

// deadlineGroup: breached first, then running deadlines, then entries with
// no live deadline (no timer, paused, stopped).
func (e QueueEntry) deadlineGroup() int {
	if e.Evaluation == nil || e.Evaluation.Remaining == nil {
		return 2
	}
	if e.Evaluation.State == model.SlaStateBreached {
		return 0
	}
	return 1
}

// SortQueue orders entries canonically: breached first, then remaining time
// ascending, then priority descending, then updated_at descending. ID breaks
// remaining ties so the order is total.
func SortQueue(entries []QueueEntry) {
	slices.SortStableFunc(entries, compareQueueEntries)
}

func compareQueueEntries(a, b QueueEntry) int {
	if c := cmp.Compare(a.deadlineGroup(), b.deadlineGroup()); c != 0 {
		return c
	}
	if a.Evaluation != nil && a.Evaluation.Remaining != nil && b.Evaluation != nil && b.Evaluation.Remaining != nil {
		if c := cmp.Compare(*a.Evaluation.Remaining, *b.Evaluation.Remaining); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(b.Conversation.Priority, a.Conversation.Priority); c != 0 {
		return c
	}
	if c := b.Conversation.UpdatedAt.Compare(a.Conversation.UpdatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.Conversation.ID, b.Conversation.ID)
}
