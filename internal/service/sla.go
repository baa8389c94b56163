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

const slaComponent = "engine.service.sla"

// SlaView is a conversation's timer with its evaluation at read time. Both
// are nil when the conversation has no timer.
type SlaView struct {
	Timer      *model.SlaTimer       `json:"timer"`
	Evaluation *domain.SlaEvaluation `json:"evaluation"`
}

type SlaService interface {
	Get(ctx context.Context, caller model.Caller, conversationID int64) (*SlaView, error)
	Pause(ctx context.Context, caller model.Caller, conversationID int64) (*SlaView, error)
	Resume(ctx context.Context, caller model.Caller, conversationID int64) (*SlaView, error)
	// SweepBreaches latches every overdue running timer and returns how many
	// it latched.
	SweepBreaches(ctx context.Context, limit int32) (int, error)
}

type slaService struct {
	stores    StoreProvider
	txRunner  TxRunner
	publisher events.Publisher
	clock     domain.Clock
}

func NewSlaService(stores StoreProvider, txRunner TxRunner, publisher events.Publisher, clock domain.Clock) SlaService {
	if clock == nil {
		clock = domain.SystemClock()
	}
	return &slaService{
		stores:    stores,
		txRunner:  txRunner,
		publisher: publisher,
		clock:     clock,
	}
}

func (s *slaService) Get(ctx context.Context, caller model.Caller, conversationID int64) (*SlaView, error) {
	ctx = withConversation(callerContext(ctx, caller, slaComponent, "get_sla"), conversationID)
	now := s.clock.Now()

	conv, err := s.stores.Conversations().GetByID(ctx, caller.TenantID, conversationID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrConversationNotFound, "loading conversation")
	}

	timer, err := s.stores.SlaTimers().Get(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &SlaView{}, nil
		}
		return nil, fmt.Errorf("loading sla timer: %w", err)
	}

	eval := domain.EvaluateTimer(*timer, now)
	if eval.Latch {
		latched, err := s.latch(ctx, conv, now)
		if err != nil {
			return nil, err
		}
		if latched != nil {
			timer = latched
			eval = domain.EvaluateTimer(*timer, now)
		}
	}

	return &SlaView{Timer: timer, Evaluation: &eval}, nil
}

// latch persists a first observed breach in its own transaction. It returns
// nil when another caller latched first.
func (s *slaService) latch(ctx context.Context, conv *model.Conversation, now time.Time) (*model.SlaTimer, error) {
	var latched *model.SlaTimer
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		var err error
		latched, err = latchBreach(ctx, stores, conv, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	if latched != nil {
		publish(ctx, s.publisher, breachEvent(conv, latched))
	}
	return latched, nil
}

func (s *slaService) Pause(ctx context.Context, caller model.Caller, conversationID int64) (*SlaView, error) {
	ctx = withConversation(callerContext(ctx, caller, slaComponent, "pause_sla"), conversationID)
	now := s.clock.Now()

	var (
		conv     *model.Conversation
		paused   *model.SlaTimer
		breached *model.SlaTimer
	)
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		var err error
		conv, err = loadManagedConversation(ctx, stores, caller, conversationID)
		if err != nil {
			return err
		}

		timer, err := stores.SlaTimers().Get(ctx, conversationID)
		if err != nil {
			return notFoundAs(err, domain.ErrTimerNotFound, "loading sla timer")
		}
		if !timer.IsRunning() {
			return domain.ErrTimerNotRunning
		}

		if domain.PauseLatchesBreach(*timer, now) {
			breached, err = latchBreach(ctx, stores, conv, now)
			if err != nil {
				return err
			}
		}

		ok, updated, err := stores.SlaTimers().Pause(ctx, conversationID, now)
		if err != nil {
			return fmt.Errorf("pausing sla timer: %w", err)
		}
		if !ok {
			return domain.ErrTimerNotRunning
		}
		paused = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if breached != nil {
		publish(ctx, s.publisher, breachEvent(conv, breached))
	}
	publish(ctx, s.publisher, timerEvent(events.TypeSlaPaused, conv, paused, caller.AgentID, now))
	slog.InfoContext(ctx, "sla timer paused", "due_at", paused.DueAt)

	eval := domain.EvaluateTimer(*paused, now)
	return &SlaView{Timer: paused, Evaluation: &eval}, nil
}

func (s *slaService) Resume(ctx context.Context, caller model.Caller, conversationID int64) (*SlaView, error) {
	ctx = withConversation(callerContext(ctx, caller, slaComponent, "resume_sla"), conversationID)
	now := s.clock.Now()

	var (
		conv    *model.Conversation
		resumed *model.SlaTimer
	)
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		var err error
		conv, err = loadManagedConversation(ctx, stores, caller, conversationID)
		if err != nil {
			return err
		}

		timer, err := stores.SlaTimers().Get(ctx, conversationID)
		if err != nil {
			return notFoundAs(err, domain.ErrTimerNotFound, "loading sla timer")
		}
		if !timer.IsPaused() || timer.IsStopped() {
			return domain.ErrTimerNotPaused
		}

		// due_at is left untouched: the clock was frozen, not extended.
		ok, updated, err := stores.SlaTimers().Resume(ctx, conversationID)
		if err != nil {
			return fmt.Errorf("resuming sla timer: %w", err)
		}
		if !ok {
			return domain.ErrTimerNotPaused
		}
		resumed = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, timerEvent(events.TypeSlaResumed, conv, resumed, caller.AgentID, now))
	slog.InfoContext(ctx, "sla timer resumed", "due_at", resumed.DueAt)

	eval := domain.EvaluateTimer(*resumed, now)
	return &SlaView{Timer: resumed, Evaluation: &eval}, nil
}

func (s *slaService) SweepBreaches(ctx context.Context, limit int32) (int, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: slaComponent, Operation: logger.Ptr("sweep_breaches")})
	now := s.clock.Now()

	due, err := s.stores.SlaTimers().ListDue(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("listing due sla timers: %w", err)
	}

	latched := 0
	for _, timer := range due {
		timerCtx := logger.WithLogFields(ctx, logger.LogFields{
			TenantID:       logger.Ptr(timer.TenantID),
			ConversationID: logger.Ptr(timer.ConversationID),
		})

		conv, err := s.stores.Conversations().GetByID(timerCtx, timer.TenantID, timer.ConversationID)
		if err != nil {
			slog.WarnContext(timerCtx, "skipping due timer", "error", err)
			continue
		}

		updated, err := s.latch(timerCtx, conv, now)
		if err != nil {
			slog.ErrorContext(timerCtx, "failed to latch sla breach", "error", err)
			continue
		}
		if updated != nil {
			latched++
			slog.InfoContext(timerCtx, "sla breached", "due_at", updated.DueAt)
		}
	}

	return latched, nil
}

// loadManagedConversation loads an open conversation the caller may manage
// the timer of: its owner, or anyone with manage_sla.
func loadManagedConversation(ctx context.Context, stores StoreProvider, caller model.Caller, conversationID int64) (*model.Conversation, error) {
	conv, err := stores.Conversations().GetByID(ctx, caller.TenantID, conversationID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrConversationNotFound, "loading conversation")
	}
	if !caller.Can(model.CapabilityManageSLA) && !conv.IsAssignedTo(caller.AgentID) {
		return nil, domain.ErrForbidden
	}
	if conv.IsClosed() {
		return nil, domain.ErrAlreadyClosed
	}
	return conv, nil
}

// latchBreach sets breached_at = now on a running, overdue, unbreached timer
// and records the breach event. It returns nil when the timer did not
// qualify, which includes losing the latch to a concurrent caller.
func latchBreach(ctx context.Context, stores StoreProvider, conv *model.Conversation, now time.Time) (*model.SlaTimer, error) {
	ok, timer, err := stores.SlaTimers().LatchBreach(ctx, conv.ID, now)
	if err != nil {
		return nil, fmt.Errorf("latching sla breach: %w", err)
	}
	if !ok {
		return nil, nil
	}

	event := &model.SlaEvent{
		ID:              id.New(),
		TenantID:        conv.TenantID,
		ConversationID:  conv.ID,
		AssignedAgentID: conv.AssignedAgentID,
		Type:            model.SlaEventTypeBreach,
		PolicyID:        timer.PolicyID,
		StartedAt:       timer.StartedAt,
		DueAt:           timer.DueAt,
		OccurredAt:      now,
	}
	if err := stores.SlaEvents().Create(ctx, event); err != nil {
		return nil, fmt.Errorf("recording breach event: %w", err)
	}
	return timer, nil
}

func breachEvent(conv *model.Conversation, timer *model.SlaTimer) events.Event {
	return events.Event{
		Type:           events.TypeSlaBreached,
		TenantID:       conv.TenantID,
		ConversationID: logger.Ptr(conv.ID),
		AgentID:        conv.AssignedAgentID,
		OccurredAt:     *timer.BreachedAt,
	}.WithData(timer)
}

func timerEvent(typ events.Type, conv *model.Conversation, timer *model.SlaTimer, actor int64, now time.Time) events.Event {
	return events.Event{
		Type:           typ,
		TenantID:       conv.TenantID,
		ConversationID: logger.Ptr(conv.ID),
		AgentID:        logger.Ptr(actor),
		OccurredAt:     now,
	}.WithData(timer)
}
