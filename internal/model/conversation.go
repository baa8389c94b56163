package model

import "time"

// ConversationStatus is the queue state of a conversation.
type ConversationStatus string

const (
	ConversationStatusWaiting    ConversationStatus = "waiting"
	ConversationStatusInProgress ConversationStatus = "in_progress"
	ConversationStatusClosed     ConversationStatus = "closed"
)

func (s ConversationStatus) IsValid() bool {
	switch s {
	case ConversationStatusWaiting, ConversationStatusInProgress, ConversationStatusClosed:
		return true
	}
	return false
}

// DefaultConversationPriority is assigned to conversations opened by an inbound message.
const DefaultConversationPriority int32 = 100

type Conversation struct {
	ID                    int64              `json:"id"`
	TenantID              int64              `json:"tenant_id"`
	ContactID             int64              `json:"contact_id"`
	ContactCategory       *string            `json:"contact_category,omitempty"`
	CurrentStageID        *int64             `json:"current_stage_id,omitempty"`
	Status                ConversationStatus `json:"status"`
	AssignedAgentID       *int64             `json:"assigned_agent_id,omitempty"`
	Priority              int32              `json:"priority"`
	LastCustomerMessageAt *time.Time         `json:"last_customer_message_at,omitempty"`
	LastAgentMessageAt    *time.Time         `json:"last_agent_message_at,omitempty"`
	LastStageMovedAt      *time.Time         `json:"last_stage_moved_at,omitempty"`
	ClosedAt              *time.Time         `json:"closed_at,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

func (c Conversation) IsClosed() bool {
	return c.Status == ConversationStatusClosed
}

// IsAssignedTo reports whether agentID currently owns the conversation.
func (c Conversation) IsAssignedTo(agentID int64) bool {
	return c.AssignedAgentID != nil && *c.AssignedAgentID == agentID
}
