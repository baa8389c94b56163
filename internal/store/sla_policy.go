package store

import (
	"context"

	"supportdesk.app/engine/core/db/sqlc"
	"supportdesk.app/engine/internal/model"
)

type slaPolicyStore struct {
	queries *sqlc.Queries
}

func newSlaPolicyStore(queries *sqlc.Queries) SlaPolicyStore {
	return &slaPolicyStore{queries: queries}
}

func (s *slaPolicyStore) ListByTenant(ctx context.Context, tenantID int64) ([]model.SlaPolicy, error) {
	rows, err := s.queries.ListSlaPoliciesByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	policies := make([]model.SlaPolicy, 0, len(rows))
	for _, row := range rows {
		policies = append(policies, model.SlaPolicy{
			ID:                      row.ID,
			TenantID:                row.TenantID,
			StageID:                 row.StageID,
			ContactCategory:         row.ContactCategory,
			ResponseSeconds:         row.ResponseSeconds,
			WarningThresholdPercent: row.WarningThresholdPercent,
			CreatedAt:               row.CreatedAt.Time,
		})
	}
	return policies, nil
}

type slaEventStore struct {
	queries *sqlc.Queries
}

func newSlaEventStore(queries *sqlc.Queries) SlaEventStore {
	return &slaEventStore{queries: queries}
}

func (s *slaEventStore) Create(ctx context.Context, event *model.SlaEvent) error {
	return s.queries.CreateSlaEvent(ctx, sqlc.CreateSlaEventParams{
		ID:              event.ID,
		TenantID:        event.TenantID,
		ConversationID:  event.ConversationID,
		AssignedAgentID: event.AssignedAgentID,
		Type:            string(event.Type),
		PolicyID:        event.PolicyID,
		StartedAt:       timestamptz(event.StartedAt),
		DueAt:           timestamptz(event.DueAt),
		OccurredAt:      timestamptz(event.OccurredAt),
		ResponseSeconds: event.ResponseSeconds,
	})
}
