package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"supportdesk.app/engine/common/id"
	"supportdesk.app/engine/common/logger"
	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/events"
	"supportdesk.app/engine/internal/model"
	"supportdesk.app/engine/internal/store"
)

const (
	shiftComponent      = "engine.service.shift"
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type PauseShiftParams struct {
	Reason string
	Detail *string
}

// PauseResult is the opened pause and the conversations the cascade
// returned to the queue.
type PauseResult struct {
	Pause    *model.AgentPause `json:"pause"`
	Released []int64           `json:"released_conversation_ids"`
}

type EndShiftResult struct {
	Shift    *model.AgentShift `json:"shift"`
	Released []int64           `json:"released_conversation_ids"`
}

type ShiftService interface {
	Start(ctx context.Context, caller model.Caller) (*model.AgentShift, error)
	Pause(ctx context.Context, caller model.Caller, params PauseShiftParams) (*PauseResult, error)
	Resume(ctx context.Context, caller model.Caller) (*model.AgentPause, error)
	End(ctx context.Context, caller model.Caller) (*EndShiftResult, error)
	// Status projects the ledger of agentID (the caller when nil).
	Status(ctx context.Context, caller model.Caller, agentID *int64) (*domain.AgentStatus, error)
	History(ctx context.Context, caller model.Caller, agentID *int64, limit int32) ([]model.ShiftWithPauses, error)
}

type shiftService struct {
	stores    StoreProvider
	txRunner  TxRunner
	publisher events.Publisher
	clock     domain.Clock
}

func NewShiftService(stores StoreProvider, txRunner TxRunner, publisher events.Publisher, clock domain.Clock) ShiftService {
	if clock == nil {
		clock = domain.SystemClock()
	}
	return &shiftService{
		stores:    stores,
		txRunner:  txRunner,
		publisher: publisher,
		clock:     clock,
	}
}

func (s *shiftService) Start(ctx context.Context, caller model.Caller) (*model.AgentShift, error) {
	ctx = callerContext(ctx, caller, shiftComponent, "start_shift")
	now := s.clock.Now()

	shift := &model.AgentShift{
		ID:        id.New(),
		TenantID:  caller.TenantID,
		AgentID:   caller.AgentID,
		StartedAt: now,
	}

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		_, err := stores.Shifts().GetOpen(ctx, caller.TenantID, caller.AgentID)
		if err == nil {
			return domain.ErrShiftAlreadyActive
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("loading open shift: %w", err)
		}

		if err := stores.Shifts().Create(ctx, shift); err != nil {
			if errors.Is(err, store.ErrUniqueViolation) {
				return domain.ErrShiftAlreadyActive
			}
			return fmt.Errorf("creating shift: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{ShiftID: logger.Ptr(shift.ID)})
	publish(ctx, s.publisher, shiftEvent(events.TypeShiftStarted, caller, shift.ID, now, shift))
	slog.InfoContext(ctx, "shift started")
	return shift, nil
}

func (s *shiftService) Pause(ctx context.Context, caller model.Caller, params PauseShiftParams) (*PauseResult, error) {
	ctx = callerContext(ctx, caller, shiftComponent, "pause_shift")
	now := s.clock.Now()

	reason, err := domain.ParsePauseReason(params.Reason, params.Detail)
	if err != nil {
		return nil, err
	}

	result := &PauseResult{}
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		shift, err := stores.Shifts().LockOpen(ctx, caller.TenantID, caller.AgentID)
		if err != nil {
			return notFoundAs(err, domain.ErrNoActiveShift, "locking open shift")
		}

		_, err = stores.Pauses().GetOpen(ctx, shift.ID)
		if err == nil {
			return domain.ErrAlreadyPaused
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("loading open pause: %w", err)
		}

		pause := &model.AgentPause{
			ID:           id.New(),
			ShiftID:      shift.ID,
			Reason:       reason.Kind(),
			ReasonDetail: reason.Detail(),
			StartedAt:    now,
		}
		if err := stores.Pauses().Create(ctx, pause); err != nil {
			if errors.Is(err, store.ErrUniqueViolation) {
				return domain.ErrAlreadyPaused
			}
			return fmt.Errorf("creating pause: %w", err)
		}
		result.Pause = pause

		released, err := releaseAgentConversations(ctx, stores, caller, model.AuditActionPauseShift, shift.ID, now)
		if err != nil {
			return err
		}
		result.Released = released
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{ShiftID: logger.Ptr(result.Pause.ShiftID)})
	publish(ctx, s.publisher, shiftEvent(events.TypeShiftPaused, caller, result.Pause.ShiftID, now, result))
	publish(ctx, s.publisher, releaseEvents(caller, result.Released, now)...)
	slog.InfoContext(ctx, "shift paused", "reason", result.Pause.Reason, "released_count", len(result.Released))
	return result, nil
}

func (s *shiftService) Resume(ctx context.Context, caller model.Caller) (*model.AgentPause, error) {
	ctx = callerContext(ctx, caller, shiftComponent, "resume_shift")
	now := s.clock.Now()

	var finished *model.AgentPause
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		shift, err := stores.Shifts().LockOpen(ctx, caller.TenantID, caller.AgentID)
		if err != nil {
			return notFoundAs(err, domain.ErrNoActivePause, "locking open shift")
		}

		pause, err := stores.Pauses().GetOpen(ctx, shift.ID)
		if err != nil {
			return notFoundAs(err, domain.ErrNoActivePause, "loading open pause")
		}

		minutes := domain.MinutesBetween(pause.StartedAt, now)
		finished, err = stores.Pauses().Finish(ctx, pause.ID, now, minutes)
		if err != nil {
			return notFoundAs(err, domain.ErrNoActivePause, "finishing pause")
		}

		if err := stores.Shifts().AddPausedMinutes(ctx, shift.ID, minutes); err != nil {
			return fmt.Errorf("accumulating paused minutes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{ShiftID: logger.Ptr(finished.ShiftID)})
	publish(ctx, s.publisher, shiftEvent(events.TypeShiftResumed, caller, finished.ShiftID, now, finished))
	slog.InfoContext(ctx, "shift resumed", "minutes_paused", finished.MinutesDuration)
	return finished, nil
}

func (s *shiftService) End(ctx context.Context, caller model.Caller) (*EndShiftResult, error) {
	ctx = callerContext(ctx, caller, shiftComponent, "end_shift")
	now := s.clock.Now()

	result := &EndShiftResult{}
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		shift, err := stores.Shifts().LockOpen(ctx, caller.TenantID, caller.AgentID)
		if err != nil {
			return notFoundAs(err, domain.ErrNoActiveShift, "locking open shift")
		}

		open, err := stores.Pauses().GetOpen(ctx, shift.ID)
		switch {
		case err == nil:
			if _, err := stores.Pauses().Finish(ctx, open.ID, now, domain.MinutesBetween(open.StartedAt, now)); err != nil {
				return fmt.Errorf("closing open pause: %w", err)
			}
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("loading open pause: %w", err)
		}

		pauses, err := stores.Pauses().ListByShift(ctx, shift.ID)
		if err != nil {
			return fmt.Errorf("listing pauses: %w", err)
		}

		totals := domain.FinalizeShift(*shift, pauses, now)
		ended, err := stores.Shifts().Finish(ctx, shift.ID, now, totals.Worked, totals.Paused)
		if err != nil {
			return notFoundAs(err, domain.ErrNoActiveShift, "finishing shift")
		}
		result.Shift = ended

		released, err := releaseAgentConversations(ctx, stores, caller, model.AuditActionEndShift, shift.ID, now)
		if err != nil {
			return err
		}
		result.Released = released
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{ShiftID: logger.Ptr(result.Shift.ID)})
	publish(ctx, s.publisher, shiftEvent(events.TypeShiftEnded, caller, result.Shift.ID, now, result))
	publish(ctx, s.publisher, releaseEvents(caller, result.Released, now)...)
	slog.InfoContext(ctx, "shift ended",
		"minutes_worked", result.Shift.TotalMinutesWorked,
		"minutes_paused", result.Shift.TotalMinutesPaused,
		"released_count", len(result.Released))
	return result, nil
}

// releaseAgentConversations is the cascade shared by pause and end: every
// in-progress conversation of the caller goes back to the queue.
func releaseAgentConversations(ctx context.Context, stores StoreProvider, caller model.Caller, action model.AuditAction, shiftID int64, now time.Time) ([]int64, error) {
	ids, err := stores.Conversations().ReleaseByAgent(ctx, caller.TenantID, caller.AgentID, now)
	if err != nil {
		return nil, fmt.Errorf("releasing agent conversations: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}

	for _, conversationID := range ids {
		if err := writeAudit(ctx, stores, caller.TenantID, auditEntry{
			actor:    logger.Ptr(caller.AgentID),
			action:   action,
			entityID: conversationID,
			before: map[string]any{
				"status":            model.ConversationStatusInProgress,
				"assigned_agent_id": caller.AgentID,
			},
			after: map[string]any{
				"status":   model.ConversationStatusWaiting,
				"shift_id": shiftID,
			},
		}, now); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (s *shiftService) Status(ctx context.Context, caller model.Caller, agentID *int64) (*domain.AgentStatus, error) {
	ctx = callerContext(ctx, caller, shiftComponent, "agent_status")
	now := s.clock.Now()

	target, err := s.resolveTarget(ctx, caller, agentID)
	if err != nil {
		return nil, err
	}

	shift, err := s.stores.Shifts().GetOpen(ctx, caller.TenantID, target)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			status := domain.ProjectStatus(nil, nil, now)
			return &status, nil
		}
		return nil, fmt.Errorf("loading open shift: %w", err)
	}

	pause, err := s.stores.Pauses().GetOpen(ctx, shift.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading open pause: %w", err)
	}

	status := domain.ProjectStatus(shift, pause, now)
	return &status, nil
}

func (s *shiftService) History(ctx context.Context, caller model.Caller, agentID *int64, limit int32) ([]model.ShiftWithPauses, error) {
	ctx = callerContext(ctx, caller, shiftComponent, "shift_history")

	target, err := s.resolveTarget(ctx, caller, agentID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	shifts, err := s.stores.Shifts().ListClosed(ctx, caller.TenantID, target, limit)
	if err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}

	shiftIDs := make([]int64, 0, len(shifts))
	for _, shift := range shifts {
		shiftIDs = append(shiftIDs, shift.ID)
	}
	pauses, err := s.stores.Pauses().ListByShifts(ctx, shiftIDs)
	if err != nil {
		return nil, fmt.Errorf("listing pauses: %w", err)
	}

	byShift := make(map[int64][]model.AgentPause, len(shifts))
	for _, pause := range pauses {
		byShift[pause.ShiftID] = append(byShift[pause.ShiftID], pause)
	}

	history := make([]model.ShiftWithPauses, 0, len(shifts))
	for _, shift := range shifts {
		p := byShift[shift.ID]
		if p == nil {
			p = []model.AgentPause{}
		}
		history = append(history, model.ShiftWithPauses{AgentShift: shift, Pauses: p})
	}
	return history, nil
}

// resolveTarget returns the agent a read refers to. Reading another agent's
// ledger requires view_all_shifts and the agent must be in the tenant.
func (s *shiftService) resolveTarget(ctx context.Context, caller model.Caller, agentID *int64) (int64, error) {
	if agentID == nil || *agentID == caller.AgentID {
		return caller.AgentID, nil
	}
	if !caller.Can(model.CapabilityViewAllShifts) {
		return 0, domain.ErrForbidden
	}
	if _, err := s.stores.Agents().GetInTenant(ctx, caller.TenantID, *agentID); err != nil {
		return 0, notFoundAs(err, domain.ErrAgentNotFound, "loading agent")
	}
	return *agentID, nil
}

func shiftEvent(typ events.Type, caller model.Caller, shiftID int64, now time.Time, data any) events.Event {
	return events.Event{
		Type:       typ,
		TenantID:   caller.TenantID,
		AgentID:    logger.Ptr(caller.AgentID),
		ShiftID:    logger.Ptr(shiftID),
		OccurredAt: now,
	}.WithData(data)
}

func releaseEvents(caller model.Caller, conversationIDs []int64, now time.Time) []events.Event {
	out := make([]events.Event, 0, len(conversationIDs))
	for _, conversationID := range conversationIDs {
		out = append(out, events.Event{
			Type:           events.TypeConversationReleased,
			TenantID:       caller.TenantID,
			ConversationID: logger.Ptr(conversationID),
			AgentID:        logger.Ptr(caller.AgentID),
			OccurredAt:     now,
		})
	}
	return out
}
