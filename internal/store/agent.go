package store

import (
	"context"
	"encoding/json"

	"supportdesk.app/engine/core/db/sqlc"
	"supportdesk.app/engine/internal/model"
)

type agentStore struct {
	queries *sqlc.Queries
}

func newAgentStore(queries *sqlc.Queries) AgentStore {
	return &agentStore{queries: queries}
}

// GetByID returns active agents only.
func (s *agentStore) GetByID(ctx context.Context, id int64) (*model.Agent, error) {
	row, err := s.queries.GetAgentByID(ctx, id)
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toAgentModel(row), nil
}

func (s *agentStore) GetInTenant(ctx context.Context, tenantID, id int64) (*model.Agent, error) {
	row, err := s.queries.GetAgent(ctx, sqlc.GetAgentParams{TenantID: tenantID, ID: id})
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toAgentModel(row), nil
}

func toAgentModel(row sqlc.Agent) *model.Agent {
	roles := make([]model.Role, 0, len(row.Roles))
	for _, r := range row.Roles {
		roles = append(roles, model.Role(r))
	}
	return &model.Agent{
		ID:        row.ID,
		TenantID:  row.TenantID,
		Name:      row.Name,
		Email:     row.Email,
		Roles:     roles,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

type sessionStore struct {
	queries *sqlc.Queries
}

func newSessionStore(queries *sqlc.Queries) SessionStore {
	return &sessionStore{queries: queries}
}

func (s *sessionStore) GetValid(ctx context.Context, id int64) (*model.Session, error) {
	row, err := s.queries.GetValidSession(ctx, id)
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &model.Session{
		ID:        row.ID,
		AgentID:   row.AgentID,
		CreatedAt: row.CreatedAt.Time,
		ExpiresAt: row.ExpiresAt.Time,
	}, nil
}

type auditLogStore struct {
	queries *sqlc.Queries
}

func newAuditLogStore(queries *sqlc.Queries) AuditLogStore {
	return &auditLogStore{queries: queries}
}

func (s *auditLogStore) Create(ctx context.Context, entry *model.AuditLog) error {
	return s.queries.CreateAuditLog(ctx, sqlc.CreateAuditLogParams{
		ID:           entry.ID,
		TenantID:     entry.TenantID,
		ActorAgentID: entry.ActorAgentID,
		Action:       string(entry.Action),
		EntityType:   entry.EntityType,
		EntityID:     entry.EntityID,
		BeforeJson:   nullableJSON(entry.Before),
		AfterJson:    nullableJSON(entry.After),
		CreatedAt:    timestamptz(entry.CreatedAt),
	})
}

func nullableJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
