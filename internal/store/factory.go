package store

import (
	"supportdesk.app/engine/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Conversations() ConversationStore {
	return newConversationStore(s.queries)
}

func (s *Stores) SlaTimers() SlaTimerStore {
	return newSlaTimerStore(s.queries)
}

func (s *Stores) SlaPolicies() SlaPolicyStore {
	return newSlaPolicyStore(s.queries)
}

func (s *Stores) SlaEvents() SlaEventStore {
	return newSlaEventStore(s.queries)
}

func (s *Stores) Shifts() ShiftStore {
	return newShiftStore(s.queries)
}

func (s *Stores) Pauses() PauseStore {
	return newPauseStore(s.queries)
}

func (s *Stores) Agents() AgentStore {
	return newAgentStore(s.queries)
}

func (s *Stores) Sessions() SessionStore {
	return newSessionStore(s.queries)
}

func (s *Stores) AuditLogs() AuditLogStore {
	return newAuditLogStore(s.queries)
}
