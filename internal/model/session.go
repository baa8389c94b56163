package model

import "time"

type Session struct {
	ID        int64     `json:"id"`
	AgentID   int64     `json:"agent_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
