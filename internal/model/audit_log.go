package model

import (
	"encoding/json"
	"time"
)

type AuditAction string

const (
	AuditActionClaim      AuditAction = "claim"
	AuditActionTransfer   AuditAction = "transfer"
	AuditActionUnclaim    AuditAction = "unclaim"
	AuditActionClose      AuditAction = "close"
	AuditActionAutoReturn AuditAction = "auto_return"
	AuditActionPauseShift AuditAction = "pause_release"
	AuditActionEndShift   AuditAction = "end_shift_release"
)

type AuditLog struct {
	ID           int64           `json:"id"`
	TenantID     int64           `json:"tenant_id"`
	ActorAgentID *int64          `json:"actor_agent_id,omitempty"`
	Action       AuditAction     `json:"action"`
	EntityType   string          `json:"entity_type"`
	EntityID     int64           `json:"entity_id"`
	Before       json.RawMessage `json:"before,omitempty"`
	After        json.RawMessage `json:"after,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
