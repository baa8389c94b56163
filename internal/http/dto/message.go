package dto

import "time"

// InboundMessageRequest is posted by the messaging channel integration.
type InboundMessageRequest struct {
	TenantID        int64      `json:"tenant_id,string" binding:"required"`
	ContactID       int64      `json:"contact_id,string" binding:"required"`
	ContactCategory *string    `json:"contact_category,omitempty" binding:"omitempty,max=100"`
	StageID         *int64     `json:"stage_id,omitempty,string"`
	At              *time.Time `json:"at,omitempty"`
}

type OutboundMessageRequest struct {
	ConversationID int64      `json:"conversation_id,string" binding:"required"`
	At             *time.Time `json:"at,omitempty"`
}
