package dto

import (
	"time"

	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/model"
	"supportdesk.app/engine/internal/service"
)

type ClaimRequest struct {
	AgentID *int64 `json:"agent_id,omitempty,string"`
}

type TransferRequest struct {
	FromAgentID *int64  `json:"from_agent_id,omitempty,string"`
	ToAgentID   int64   `json:"to_agent_id,string" binding:"required"`
	Reason      *string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

type UnclaimRequest struct {
	Reason *string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

// MoveStageRequest moves the conversation to StageID; null clears the stage.
type MoveStageRequest struct {
	StageID *int64 `json:"stage_id,string"`
}

type ConversationResponse struct {
	ID                    int64      `json:"id,string"`
	TenantID              int64      `json:"tenant_id,string"`
	ContactID             int64      `json:"contact_id,string"`
	ContactCategory       *string    `json:"contact_category,omitempty"`
	CurrentStageID        *int64     `json:"current_stage_id,omitempty,string"`
	Status                string     `json:"status"`
	AssignedAgentID       *int64     `json:"assigned_agent_id,omitempty,string"`
	Priority              int32      `json:"priority"`
	LastCustomerMessageAt *time.Time `json:"last_customer_message_at,omitempty"`
	LastAgentMessageAt    *time.Time `json:"last_agent_message_at,omitempty"`
	LastStageMovedAt      *time.Time `json:"last_stage_moved_at,omitempty"`
	ClosedAt              *time.Time `json:"closed_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func ToConversationResponse(c *model.Conversation) *ConversationResponse {
	return &ConversationResponse{
		ID:                    c.ID,
		TenantID:              c.TenantID,
		ContactID:             c.ContactID,
		ContactCategory:       c.ContactCategory,
		CurrentStageID:        c.CurrentStageID,
		Status:                string(c.Status),
		AssignedAgentID:       c.AssignedAgentID,
		Priority:              c.Priority,
		LastCustomerMessageAt: c.LastCustomerMessageAt,
		LastAgentMessageAt:    c.LastAgentMessageAt,
		LastStageMovedAt:      c.LastStageMovedAt,
		ClosedAt:              c.ClosedAt,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

// SlaResponse is a timer with its evaluation at read time.
type SlaResponse struct {
	State                   string     `json:"state"`
	PolicyID                *int64     `json:"policy_id,omitempty,string"`
	ResponseSeconds         int32      `json:"response_seconds"`
	WarningThresholdPercent int32      `json:"warning_threshold_percent"`
	StartedAt               time.Time  `json:"started_at"`
	DueAt                   time.Time  `json:"due_at"`
	PausedAt                *time.Time `json:"paused_at,omitempty"`
	BreachedAt              *time.Time `json:"breached_at,omitempty"`
	StoppedAt               *time.Time `json:"stopped_at,omitempty"`
	RemainingSeconds        *int64     `json:"remaining_seconds"`
}

// ToSlaResponse returns nil when there is no timer.
func ToSlaResponse(timer *model.SlaTimer, eval *domain.SlaEvaluation) *SlaResponse {
	if timer == nil || eval == nil {
		return nil
	}
	return &SlaResponse{
		State:                   string(eval.State),
		PolicyID:                timer.PolicyID,
		ResponseSeconds:         timer.ResponseSeconds,
		WarningThresholdPercent: timer.WarningThresholdPercent,
		StartedAt:               timer.StartedAt,
		DueAt:                   timer.DueAt,
		PausedAt:                timer.PausedAt,
		BreachedAt:              eval.BreachedAt,
		StoppedAt:               timer.StoppedAt,
		RemainingSeconds:        eval.RemainingSeconds(),
	}
}

type SlaViewResponse struct {
	ConversationID int64        `json:"conversation_id,string"`
	SLA            *SlaResponse `json:"sla"`
}

func ToSlaViewResponse(conversationID int64, view *service.SlaView) *SlaViewResponse {
	return &SlaViewResponse{
		ConversationID: conversationID,
		SLA:            ToSlaResponse(view.Timer, view.Evaluation),
	}
}

type QueueEntryResponse struct {
	Conversation *ConversationResponse `json:"conversation"`
	SLA          *SlaResponse          `json:"sla"`
}

type QueueResponse struct {
	View    string               `json:"view"`
	Entries []QueueEntryResponse `json:"entries"`
}

func ToQueueResponse(view service.QueueView, entries []domain.QueueEntry) *QueueResponse {
	out := make([]QueueEntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		out = append(out, QueueEntryResponse{
			Conversation: ToConversationResponse(&e.Conversation),
			SLA:          ToSlaResponse(e.Timer, e.Evaluation),
		})
	}
	return &QueueResponse{View: string(view), Entries: out}
}
