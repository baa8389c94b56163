package store

import (
	"context"
	"errors"
	"time"

	"supportdesk.app/engine/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrUniqueViolation is returned when an insert hits a unique index, such as
// the one-open-shift-per-agent or one-open-pause-per-shift index.
var ErrUniqueViolation = errors.New("unique violation")

// ConversationStore defines the contract for conversation data access.
// Mutating methods that return (bool, ...) are compare-and-set updates: false
// means the row no longer matched the expected state and nothing changed.
type ConversationStore interface {
	GetByID(ctx context.Context, tenantID, id int64) (*model.Conversation, error)
	GetOpenByContact(ctx context.Context, tenantID, contactID int64) (*model.Conversation, error)
	Create(ctx context.Context, conv *model.Conversation) error
	ClaimIfWaiting(ctx context.Context, tenantID, id, agentID int64, now time.Time) (bool, *model.Conversation, error)
	Reassign(ctx context.Context, tenantID, id, fromAgentID, toAgentID int64, now time.Time) (bool, *model.Conversation, error)
	Release(ctx context.Context, tenantID, id, expectedAgentID int64, now time.Time) (bool, *model.Conversation, error)
	ReleaseByAgent(ctx context.Context, tenantID, agentID int64, now time.Time) ([]int64, error)
	Close(ctx context.Context, tenantID, id int64, now time.Time) (bool, *model.Conversation, error)
	RecordCustomerMessage(ctx context.Context, tenantID, id int64, at, now time.Time) (*model.Conversation, error)
	RecordAgentMessage(ctx context.Context, tenantID, id int64, at, now time.Time) (*model.Conversation, error)
	MoveStage(ctx context.Context, tenantID, id int64, stageID *int64, now time.Time) (*model.Conversation, error)
	ListOpen(ctx context.Context, tenantID int64, limit int32) ([]model.Conversation, error)
	ListIdleAssigned(ctx context.Context, cutoff time.Time, limit int32) ([]model.Conversation, error)
}

// SlaTimerStore defines the contract for SLA timer data access
type SlaTimerStore interface {
	Get(ctx context.Context, conversationID int64) (*model.SlaTimer, error)
	Start(ctx context.Context, timer *model.SlaTimer) error
	Pause(ctx context.Context, conversationID int64, now time.Time) (bool, *model.SlaTimer, error)
	Resume(ctx context.Context, conversationID int64) (bool, *model.SlaTimer, error)
	LatchBreach(ctx context.Context, conversationID int64, now time.Time) (bool, *model.SlaTimer, error)
	Stop(ctx context.Context, conversationID int64, now time.Time) error
	Delete(ctx context.Context, conversationID int64) error
	ListForConversations(ctx context.Context, conversationIDs []int64) ([]model.SlaTimer, error)
	ListDue(ctx context.Context, now time.Time, limit int32) ([]model.SlaTimer, error)
}

type SlaPolicyStore interface {
	ListByTenant(ctx context.Context, tenantID int64) ([]model.SlaPolicy, error)
}

type SlaEventStore interface {
	Create(ctx context.Context, event *model.SlaEvent) error
}

// ShiftStore defines the contract for agent shift data access
type ShiftStore interface {
	GetOpen(ctx context.Context, tenantID, agentID int64) (*model.AgentShift, error)
	// LockOpen reads the open shift FOR UPDATE; pause and end serialize on it.
	LockOpen(ctx context.Context, tenantID, agentID int64) (*model.AgentShift, error)
	// ShareOpen reads the open shift FOR SHARE so an assignment cannot race a pause.
	ShareOpen(ctx context.Context, tenantID, agentID int64) (*model.AgentShift, error)
	Create(ctx context.Context, shift *model.AgentShift) error
	AddPausedMinutes(ctx context.Context, shiftID int64, minutes int32) error
	Finish(ctx context.Context, shiftID int64, endedAt time.Time, worked, paused int32) (*model.AgentShift, error)
	ListClosed(ctx context.Context, tenantID, agentID int64, limit int32) ([]model.AgentShift, error)
}

// PauseStore defines the contract for agent pause data access
type PauseStore interface {
	GetOpen(ctx context.Context, shiftID int64) (*model.AgentPause, error)
	Create(ctx context.Context, pause *model.AgentPause) error
	Finish(ctx context.Context, pauseID int64, endedAt time.Time, minutes int32) (*model.AgentPause, error)
	ListByShift(ctx context.Context, shiftID int64) ([]model.AgentPause, error)
	ListByShifts(ctx context.Context, shiftIDs []int64) ([]model.AgentPause, error)
}

type AgentStore interface {
	GetByID(ctx context.Context, id int64) (*model.Agent, error)
	GetInTenant(ctx context.Context, tenantID, id int64) (*model.Agent, error)
}

type SessionStore interface {
	GetValid(ctx context.Context, id int64) (*model.Session, error) // checks expiry
}

type AuditLogStore interface {
	Create(ctx context.Context, entry *model.AuditLog) error
}
