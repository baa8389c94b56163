package store

import (
	"context"
	"time"

	"supportdesk.app/engine/core/db/sqlc"
	"supportdesk.app/engine/internal/model"
)

type slaTimerStore struct {
	queries *sqlc.Queries
}

func newSlaTimerStore(queries *sqlc.Queries) SlaTimerStore {
	return &slaTimerStore{queries: queries}
}

func (s *slaTimerStore) Get(ctx context.Context, conversationID int64) (*model.SlaTimer, error) {
	row, err := s.queries.GetSlaTimer(ctx, conversationID)
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toSlaTimerModel(row), nil
}

// Start writes a fresh cycle, replacing any previous one for the conversation.
func (s *slaTimerStore) Start(ctx context.Context, timer *model.SlaTimer) error {
	row, err := s.queries.UpsertSlaTimer(ctx, sqlc.UpsertSlaTimerParams{
		ConversationID:          timer.ConversationID,
		TenantID:                timer.TenantID,
		PolicyID:                timer.PolicyID,
		ResponseSeconds:         timer.ResponseSeconds,
		WarningThresholdPercent: timer.WarningThresholdPercent,
		StartedAt:               timestamptz(timer.StartedAt),
		DueAt:                   timestamptz(timer.DueAt),
	})
	if err != nil {
		return err
	}
	*timer = *toSlaTimerModel(row)
	return nil
}

func (s *slaTimerStore) Pause(ctx context.Context, conversationID int64, now time.Time) (bool, *model.SlaTimer, error) {
	row, err := s.queries.PauseSlaTimer(ctx, sqlc.PauseSlaTimerParams{
		Now:            timestamptz(now),
		ConversationID: conversationID,
	})
	if err != nil {
		if noRows(err) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, toSlaTimerModel(row), nil
}

func (s *slaTimerStore) Resume(ctx context.Context, conversationID int64) (bool, *model.SlaTimer, error) {
	row, err := s.queries.ResumeSlaTimer(ctx, conversationID)
	if err != nil {
		if noRows(err) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, toSlaTimerModel(row), nil
}

// LatchBreach sets breached_at once. It returns false when another caller
// latched first, or the timer is paused, stopped, or not yet due.
func (s *slaTimerStore) LatchBreach(ctx context.Context, conversationID int64, now time.Time) (bool, *model.SlaTimer, error) {
	row, err := s.queries.LatchSlaBreach(ctx, sqlc.LatchSlaBreachParams{
		Now:            timestamptz(now),
		ConversationID: conversationID,
	})
	if err != nil {
		if noRows(err) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, toSlaTimerModel(row), nil
}

func (s *slaTimerStore) Stop(ctx context.Context, conversationID int64, now time.Time) error {
	return s.queries.StopSlaTimer(ctx, sqlc.StopSlaTimerParams{
		Now:            timestamptz(now),
		ConversationID: conversationID,
	})
}

func (s *slaTimerStore) Delete(ctx context.Context, conversationID int64) error {
	return s.queries.DeleteSlaTimer(ctx, conversationID)
}

func (s *slaTimerStore) ListForConversations(ctx context.Context, conversationIDs []int64) ([]model.SlaTimer, error) {
	if len(conversationIDs) == 0 {
		return []model.SlaTimer{}, nil
	}
	rows, err := s.queries.ListSlaTimersForConversations(ctx, conversationIDs)
	if err != nil {
		return nil, err
	}
	return toSlaTimerModels(rows), nil
}

func (s *slaTimerStore) ListDue(ctx context.Context, now time.Time, limit int32) ([]model.SlaTimer, error) {
	rows, err := s.queries.ListDueSlaTimers(ctx, sqlc.ListDueSlaTimersParams{
		Now:      timestamptz(now),
		RowLimit: limit,
	})
	if err != nil {
		return nil, err
	}
	return toSlaTimerModels(rows), nil
}

func toSlaTimerModels(rows []sqlc.SlaTimer) []model.SlaTimer {
	out := make([]model.SlaTimer, 0, len(rows))
	for _, row := range rows {
		out = append(out, *toSlaTimerModel(row))
	}
	return out
}

func toSlaTimerModel(row sqlc.SlaTimer) *model.SlaTimer {
	return &model.SlaTimer{
		ConversationID:          row.ConversationID,
		TenantID:                row.TenantID,
		PolicyID:                row.PolicyID,
		ResponseSeconds:         row.ResponseSeconds,
		WarningThresholdPercent: row.WarningThresholdPercent,
		StartedAt:               row.StartedAt.Time,
		DueAt:                   row.DueAt.Time,
		PausedAt:                optionalTime(row.PausedAt),
		BreachedAt:              optionalTime(row.BreachedAt),
		StoppedAt:               optionalTime(row.StoppedAt),
	}
}
