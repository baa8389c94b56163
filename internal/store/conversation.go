package store

import (
	"context"
	"time"

	"supportdesk.app/engine/core/db/sqlc"
	"supportdesk.app/engine/internal/model"
)

type conversationStore struct {
	queries *sqlc.Queries
}

func newConversationStore(queries *sqlc.Queries) ConversationStore {
	return &conversationStore{queries: queries}
}

func (s *conversationStore) GetByID(ctx context.Context, tenantID, id int64) (*model.Conversation, error) {
	row, err := s.queries.GetConversation(ctx, sqlc.GetConversationParams{
		TenantID: tenantID,
		ID:       id,
	})
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toConversationModel(row), nil
}

func (s *conversationStore) GetOpenByContact(ctx context.Context, tenantID, contactID int64) (*model.Conversation, error) {
	row, err := s.queries.GetOpenConversationByContact(ctx, sqlc.GetOpenConversationByContactParams{
		TenantID:  tenantID,
		ContactID: contactID,
	})
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toConversationModel(row), nil
}

func (s *conversationStore) Create(ctx context.Context, conv *model.Conversation) error {
	row, err := s.queries.CreateConversation(ctx, sqlc.CreateConversationParams{
		ID:              conv.ID,
		TenantID:        conv.TenantID,
		ContactID:       conv.ContactID,
		ContactCategory: conv.ContactCategory,
		CurrentStageID:  conv.CurrentStageID,
		Priority:        conv.Priority,
		Now:             timestamptz(conv.CreatedAt),
	})
	if err != nil {
		return wrapUnique(err)
	}
	*conv = *toConversationModel(row)
	return nil
}

func (s *conversationStore) ClaimIfWaiting(ctx context.Context, tenantID, id, agentID int64, now time.Time) (bool, *model.Conversation, error) {
	row, err := s.queries.ClaimWaitingConversation(ctx, sqlc.ClaimWaitingConversationParams{
		AgentID:  &agentID,
		Now:      timestamptz(now),
		TenantID: tenantID,
		ID:       id,
	})
	if err != nil {
		if noRows(err) {
			// Not waiting any more: claimed, closed, or gone.
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, toConversationModel(row), nil
}

func (s *conversationStore) Reassign(ctx context.Context, tenantID, id, fromAgentID, toAgentID int64, now time.Time) (bool, *model.Conversation, error) {
	row, err := s.queries.ReassignConversation(ctx, sqlc.ReassignConversationParams{
		ToAgentID:   &toAgentID,
		Now:         timestamptz(now),
		TenantID:    tenantID,
		ID:          id,
		FromAgentID: &fromAgentID,
	})
	if err != nil {
		if noRows(err) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, toConversationModel(row), nil
}

func (s *conversationStore) Release(ctx context.Context, tenantID, id, expectedAgentID int64, now time.Time) (bool, *model.Conversation, error) {
	row, err := s.queries.ReleaseConversation(ctx, sqlc.ReleaseConversationParams{
		Now:             timestamptz(now),
		TenantID:        tenantID,
		ID:              id,
		ExpectedAgentID: &expectedAgentID,
	})
	if err != nil {
		if noRows(err) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, toConversationModel(row), nil
}

func (s *conversationStore) ReleaseByAgent(ctx context.Context, tenantID, agentID int64, now time.Time) ([]int64, error) {
	return s.queries.ReleaseAgentConversations(ctx, sqlc.ReleaseAgentConversationsParams{
		Now:      timestamptz(now),
		TenantID: tenantID,
		AgentID:  &agentID,
	})
}

func (s *conversationStore) Close(ctx context.Context, tenantID, id int64, now time.Time) (bool, *model.Conversation, error) {
	row, err := s.queries.CloseConversation(ctx, sqlc.CloseConversationParams{
		Now:      timestamptz(now),
		TenantID: tenantID,
		ID:       id,
	})
	if err != nil {
		if noRows(err) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, toConversationModel(row), nil
}

func (s *conversationStore) RecordCustomerMessage(ctx context.Context, tenantID, id int64, at, now time.Time) (*model.Conversation, error) {
	row, err := s.queries.RecordCustomerMessage(ctx, sqlc.RecordCustomerMessageParams{
		At:       timestamptz(at),
		Now:      timestamptz(now),
		TenantID: tenantID,
		ID:       id,
	})
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toConversationModel(row), nil
}

func (s *conversationStore) RecordAgentMessage(ctx context.Context, tenantID, id int64, at, now time.Time) (*model.Conversation, error) {
	row, err := s.queries.RecordAgentMessage(ctx, sqlc.RecordAgentMessageParams{
		At:       timestamptz(at),
		Now:      timestamptz(now),
		TenantID: tenantID,
		ID:       id,
	})
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toConversationModel(row), nil
}

func (s *conversationStore) MoveStage(ctx context.Context, tenantID, id int64, stageID *int64, now time.Time) (*model.Conversation, error) {
	row, err := s.queries.MoveConversationStage(ctx, sqlc.MoveConversationStageParams{
		StageID:  stageID,
		Now:      timestamptz(now),
		TenantID: tenantID,
		ID:       id,
	})
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toConversationModel(row), nil
}

func (s *conversationStore) ListOpen(ctx context.Context, tenantID int64, limit int32) ([]model.Conversation, error) {
	rows, err := s.queries.ListOpenConversations(ctx, sqlc.ListOpenConversationsParams{
		TenantID: tenantID,
		RowLimit: limit,
	})
	if err != nil {
		return nil, err
	}
	return toConversationModels(rows), nil
}

func (s *conversationStore) ListIdleAssigned(ctx context.Context, cutoff time.Time, limit int32) ([]model.Conversation, error) {
	rows, err := s.queries.ListIdleAssignedConversations(ctx, sqlc.ListIdleAssignedConversationsParams{
		Cutoff:   timestamptz(cutoff),
		RowLimit: limit,
	})
	if err != nil {
		return nil, err
	}
	return toConversationModels(rows), nil
}

func toConversationModels(rows []sqlc.Conversation) []model.Conversation {
	out := make([]model.Conversation, 0, len(rows))
	for _, row := range rows {
		out = append(out, *toConversationModel(row))
	}
	return out
}

func toConversationModel(row sqlc.Conversation) *model.Conversation {
	return &model.Conversation{
		ID:                    row.ID,
		TenantID:              row.TenantID,
		ContactID:             row.ContactID,
		ContactCategory:       row.ContactCategory,
		CurrentStageID:        row.CurrentStageID,
		Status:                model.ConversationStatus(row.Status),
		AssignedAgentID:       row.AssignedAgentID,
		Priority:              row.Priority,
		LastCustomerMessageAt: optionalTime(row.LastCustomerMessageAt),
		LastAgentMessageAt:    optionalTime(row.LastAgentMessageAt),
		LastStageMovedAt:      optionalTime(row.LastStageMovedAt),
		ClosedAt:              optionalTime(row.ClosedAt),
		CreatedAt:             row.CreatedAt.Time,
		UpdatedAt:             row.UpdatedAt.Time,
	}
}
