package store

import (
	"context"
	"time"

	"supportdesk.app/engine/core/db/sqlc"
	"supportdesk.app/engine/internal/model"
)

type shiftStore struct {
	queries *sqlc.Queries
}

func newShiftStore(queries *sqlc.Queries) ShiftStore {
	return &shiftStore{queries: queries}
}

func (s *shiftStore) GetOpen(ctx context.Context, tenantID, agentID int64) (*model.AgentShift, error) {
	row, err := s.queries.GetOpenShift(ctx, sqlc.GetOpenShiftParams{TenantID: tenantID, AgentID: agentID})
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toShiftModel(row), nil
}

func (s *shiftStore) LockOpen(ctx context.Context, tenantID, agentID int64) (*model.AgentShift, error) {
	row, err := s.queries.LockOpenShift(ctx, sqlc.LockOpenShiftParams{TenantID: tenantID, AgentID: agentID})
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toShiftModel(row), nil
}

func (s *shiftStore) ShareOpen(ctx context.Context, tenantID, agentID int64) (*model.AgentShift, error) {
	row, err := s.queries.ShareOpenShift(ctx, sqlc.ShareOpenShiftParams{TenantID: tenantID, AgentID: agentID})
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toShiftModel(row), nil
}

// Create returns ErrUniqueViolation when the agent already has an open shift.
func (s *shiftStore) Create(ctx context.Context, shift *model.AgentShift) error {
	row, err := s.queries.CreateShift(ctx, sqlc.CreateShiftParams{
		ID:        shift.ID,
		TenantID:  shift.TenantID,
		AgentID:   shift.AgentID,
		StartedAt: timestamptz(shift.StartedAt),
	})
	if err != nil {
		return wrapUnique(err)
	}
	*shift = *toShiftModel(row)
	return nil
}

func (s *shiftStore) AddPausedMinutes(ctx context.Context, shiftID int64, minutes int32) error {
	return s.queries.AddShiftPausedMinutes(ctx, sqlc.AddShiftPausedMinutesParams{
		Minutes: minutes,
		ID:      shiftID,
	})
}

func (s *shiftStore) Finish(ctx context.Context, shiftID int64, endedAt time.Time, worked, paused int32) (*model.AgentShift, error) {
	row, err := s.queries.FinishShift(ctx, sqlc.FinishShiftParams{
		EndedAt:            timestamptz(endedAt),
		TotalMinutesWorked: worked,
		TotalMinutesPaused: paused,
		ID:                 shiftID,
	})
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toShiftModel(row), nil
}

func (s *shiftStore) ListClosed(ctx context.Context, tenantID, agentID int64, limit int32) ([]model.AgentShift, error) {
	rows, err := s.queries.ListClosedShifts(ctx, sqlc.ListClosedShiftsParams{
		TenantID: tenantID,
		AgentID:  agentID,
		RowLimit: limit,
	})
	if err != nil {
		return nil, err
	}
	shifts := make([]model.AgentShift, 0, len(rows))
	for _, row := range rows {
		shifts = append(shifts, *toShiftModel(row))
	}
	return shifts, nil
}

func toShiftModel(row sqlc.AgentShift) *model.AgentShift {
	return &model.AgentShift{
		ID:                 row.ID,
		TenantID:           row.TenantID,
		AgentID:            row.AgentID,
		StartedAt:          row.StartedAt.Time,
		EndedAt:            optionalTime(row.EndedAt),
		TotalMinutesWorked: row.TotalMinutesWorked,
		TotalMinutesPaused: row.TotalMinutesPaused,
	}
}

type pauseStore struct {
	queries *sqlc.Queries
}

func newPauseStore(queries *sqlc.Queries) PauseStore {
	return &pauseStore{queries: queries}
}

func (s *pauseStore) GetOpen(ctx context.Context, shiftID int64) (*model.AgentPause, error) {
	row, err := s.queries.GetOpenPause(ctx, shiftID)
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toPauseModel(row), nil
}

// Create returns ErrUniqueViolation when the shift already has an open pause.
func (s *pauseStore) Create(ctx context.Context, pause *model.AgentPause) error {
	row, err := s.queries.CreatePause(ctx, sqlc.CreatePauseParams{
		ID:           pause.ID,
		ShiftID:      pause.ShiftID,
		Reason:       string(pause.Reason),
		ReasonDetail: pause.ReasonDetail,
		StartedAt:    timestamptz(pause.StartedAt),
	})
	if err != nil {
		return wrapUnique(err)
	}
	*pause = *toPauseModel(row)
	return nil
}

func (s *pauseStore) Finish(ctx context.Context, pauseID int64, endedAt time.Time, minutes int32) (*model.AgentPause, error) {
	row, err := s.queries.FinishPause(ctx, sqlc.FinishPauseParams{
		EndedAt:         timestamptz(endedAt),
		MinutesDuration: minutes,
		ID:              pauseID,
	})
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toPauseModel(row), nil
}

func (s *pauseStore) ListByShift(ctx context.Context, shiftID int64) ([]model.AgentPause, error) {
	rows, err := s.queries.ListPausesByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	return toPauseModels(rows), nil
}

func (s *pauseStore) ListByShifts(ctx context.Context, shiftIDs []int64) ([]model.AgentPause, error) {
	if len(shiftIDs) == 0 {
		return []model.AgentPause{}, nil
	}
	rows, err := s.queries.ListPausesByShifts(ctx, shiftIDs)
	if err != nil {
		return nil, err
	}
	return toPauseModels(rows), nil
}

func toPauseModels(rows []sqlc.AgentPause) []model.AgentPause {
	out := make([]model.AgentPause, 0, len(rows))
	for _, row := range rows {
		out = append(out, *toPauseModel(row))
	}
	return out
}

func toPauseModel(row sqlc.AgentPause) *model.AgentPause {
	return &model.AgentPause{
		ID:              row.ID,
		ShiftID:         row.ShiftID,
		Reason:          model.PauseReasonKind(row.Reason),
		ReasonDetail:    row.ReasonDetail,
		StartedAt:       row.StartedAt.Time,
		EndedAt:         optionalTime(row.EndedAt),
		MinutesDuration: row.MinutesDuration,
	}
}
