package service

import (
	"context"
	"errors"
	"fmt"

	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/model"
	"supportdesk.app/engine/internal/store"
)

// AuthService resolves a session into the Caller every facade operation
// receives. Capabilities are computed here once per request.
type AuthService interface {
	Authenticate(ctx context.Context, sessionID int64) (*model.Caller, error)
}

type authService struct {
	sessionStore      store.SessionStore
	agentStore        store.AgentStore
	allowSelfTransfer bool
}

func NewAuthService(sessionStore store.SessionStore, agentStore store.AgentStore, allowSelfTransfer bool) AuthService {
	return &authService{
		sessionStore:      sessionStore,
		agentStore:        agentStore,
		allowSelfTransfer: allowSelfTransfer,
	}
}

func (s *authService) Authenticate(ctx context.Context, sessionID int64) (*model.Caller, error) {
	session, err := s.sessionStore.GetValid(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	agent, err := s.agentStore.GetByID(ctx, session.AgentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("loading agent: %w", err)
	}
	if !agent.IsActive {
		return nil, domain.ErrUnauthorized.WithMessage("agent is deactivated")
	}

	return &model.Caller{
		AgentID:      agent.ID,
		TenantID:     agent.TenantID,
		Roles:        agent.Roles,
		Capabilities: domain.CapabilitiesFor(agent.Roles, s.allowSelfTransfer),
	}, nil
}
