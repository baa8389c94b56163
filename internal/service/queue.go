package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"supportdesk.app/engine/common/logger"
	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/events"
	"supportdesk.app/engine/internal/model"
	"supportdesk.app/engine/internal/store"
)

const (
	queueComponent = "engine.service.queue"
	queueListLimit = 1000
)

// QueueView filters the queue listing.
type QueueView string

const (
	QueueViewMine     QueueView = "mine"
	QueueViewWaiting  QueueView = "waiting"
	QueueViewAssigned QueueView = "assigned"
	QueueViewAll      QueueView = "all"
)

func (v QueueView) IsValid() bool {
	switch v {
	case QueueViewMine, QueueViewWaiting, QueueViewAssigned, QueueViewAll:
		return true
	}
	return false
}

type TransferParams struct {
	ConversationID int64
	// FromAgentID, when set, must still be the owner or the transfer fails
	// with assignment_changed.
	FromAgentID *int64
	ToAgentID   int64
	Reason      *string
}

type QueueService interface {
	Claim(ctx context.Context, caller model.Caller, conversationID int64, agentID *int64) (*model.Conversation, error)
	Transfer(ctx context.Context, caller model.Caller, params TransferParams) (*model.Conversation, error)
	Unclaim(ctx context.Context, caller model.Caller, conversationID int64, reason *string) (*model.Conversation, error)
	Close(ctx context.Context, caller model.Caller, conversationID int64) (*model.Conversation, error)
	MoveStage(ctx context.Context, caller model.Caller, conversationID int64, stageID *int64) (*model.Conversation, error)
	List(ctx context.Context, caller model.Caller, view QueueView) ([]domain.QueueEntry, error)
	// ReturnIdle releases in-progress conversations whose last customer
	// message has gone unanswered for idleFor. It returns the count released.
	ReturnIdle(ctx context.Context, idleFor time.Duration, limit int32) (int, error)
}

type queueService struct {
	stores    StoreProvider
	txRunner  TxRunner
	publisher events.Publisher
	clock     domain.Clock
}

func NewQueueService(stores StoreProvider, txRunner TxRunner, publisher events.Publisher, clock domain.Clock) QueueService {
	if clock == nil {
		clock = domain.SystemClock()
	}
	return &queueService{
		stores:    stores,
		txRunner:  txRunner,
		publisher: publisher,
		clock:     clock,
	}
}

func (s *queueService) Claim(ctx context.Context, caller model.Caller, conversationID int64, agentID *int64) (*model.Conversation, error) {
	ctx = withConversation(callerContext(ctx, caller, queueComponent, "claim"), conversationID)
	now := s.clock.Now()

	target := caller.AgentID
	if agentID != nil && *agentID != caller.AgentID {
		if !caller.Can(model.CapabilityTransferAny) {
			return nil, domain.ErrForbidden
		}
		target = *agentID
	}

	var (
		result  *model.Conversation
		changed bool
	)
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		conv, err := stores.Conversations().GetByID(ctx, caller.TenantID, conversationID)
		if err != nil {
			return notFoundAs(err, domain.ErrConversationNotFound, "loading conversation")
		}
		if conv.IsClosed() {
			return domain.ErrAlreadyClosed
		}
		if conv.IsAssignedTo(target) {
			result = conv
			return nil
		}
		if conv.Status == model.ConversationStatusInProgress && !caller.Can(model.CapabilityTransferAny) {
			return domain.ErrAlreadyClaimed
		}

		if target != caller.AgentID {
			if _, err := stores.Agents().GetInTenant(ctx, caller.TenantID, target); err != nil {
				return notFoundAs(err, domain.ErrAgentNotFound, "loading target agent")
			}
		}
		if !caller.Can(model.CapabilityAssignWithoutShift) {
			if err := requireAvailable(ctx, stores, caller.TenantID, target); err != nil {
				return err
			}
		}

		var (
			ok      bool
			updated *model.Conversation
		)
		if conv.Status == model.ConversationStatusWaiting {
			ok, updated, err = stores.Conversations().ClaimIfWaiting(ctx, caller.TenantID, conversationID, target, now)
		} else {
			ok, updated, err = stores.Conversations().Reassign(ctx, caller.TenantID, conversationID, *conv.AssignedAgentID, target, now)
		}
		if err != nil {
			return fmt.Errorf("claiming conversation: %w", err)
		}
		if !ok {
			return domain.ErrAlreadyClaimed
		}

		if err := writeAudit(ctx, stores, caller.TenantID, auditEntry{
			actor:    logger.Ptr(caller.AgentID),
			action:   model.AuditActionClaim,
			entityID: conversationID,
			before:   conv,
			after:    updated,
		}, now); err != nil {
			return err
		}

		result = updated
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		publish(ctx, s.publisher, conversationEvent(events.TypeConversationClaimed, result, logger.Ptr(caller.AgentID), now))
		slog.InfoContext(ctx, "conversation claimed", "assigned_agent_id", target)
	}
	return result, nil
}

func (s *queueService) Transfer(ctx context.Context, caller model.Caller, params TransferParams) (*model.Conversation, error) {
	ctx = withConversation(callerContext(ctx, caller, queueComponent, "transfer"), params.ConversationID)
	now := s.clock.Now()

	var result *model.Conversation
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		conv, err := stores.Conversations().GetByID(ctx, caller.TenantID, params.ConversationID)
		if err != nil {
			return notFoundAs(err, domain.ErrConversationNotFound, "loading conversation")
		}
		if conv.IsClosed() {
			return domain.ErrAlreadyClosed
		}
		if conv.Status != model.ConversationStatusInProgress {
			return domain.ErrNotInProgress
		}

		owner := *conv.AssignedAgentID
		if !caller.Can(model.CapabilityTransferAny) &&
			!(caller.Can(model.CapabilityTransferOwn) && owner == caller.AgentID) {
			return domain.ErrForbidden
		}

		if params.FromAgentID != nil {
			if _, err := stores.Agents().GetInTenant(ctx, caller.TenantID, *params.FromAgentID); err != nil {
				return notFoundAs(err, domain.ErrAgentNotFound, "loading source agent")
			}
			if *params.FromAgentID != owner {
				return domain.ErrAssignmentChanged
			}
		}
		if params.ToAgentID == owner {
			return domain.ErrSameAgent
		}
		if _, err := stores.Agents().GetInTenant(ctx, caller.TenantID, params.ToAgentID); err != nil {
			return notFoundAs(err, domain.ErrAgentNotFound, "loading target agent")
		}
		if !caller.Can(model.CapabilityAssignWithoutShift) {
			if err := requireAvailable(ctx, stores, caller.TenantID, params.ToAgentID); err != nil {
				return err
			}
		}

		ok, updated, err := stores.Conversations().Reassign(ctx, caller.TenantID, params.ConversationID, owner, params.ToAgentID, now)
		if err != nil {
			return fmt.Errorf("transferring conversation: %w", err)
		}
		if !ok {
			return domain.ErrAssignmentChanged
		}

		if err := writeAudit(ctx, stores, caller.TenantID, auditEntry{
			actor:    logger.Ptr(caller.AgentID),
			action:   model.AuditActionTransfer,
			entityID: params.ConversationID,
			before:   conv,
			after: map[string]any{
				"conversation": updated,
				"reason":       params.Reason,
			},
		}, now); err != nil {
			return err
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, conversationEvent(events.TypeConversationTransferred, result, logger.Ptr(caller.AgentID), now))
	slog.InfoContext(ctx, "conversation transferred", "to_agent_id", params.ToAgentID)
	return result, nil
}

func (s *queueService) Unclaim(ctx context.Context, caller model.Caller, conversationID int64, reason *string) (*model.Conversation, error) {
	ctx = withConversation(callerContext(ctx, caller, queueComponent, "unclaim"), conversationID)
	now := s.clock.Now()

	var (
		result  *model.Conversation
		changed bool
	)
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		conv, err := stores.Conversations().GetByID(ctx, caller.TenantID, conversationID)
		if err != nil {
			return notFoundAs(err, domain.ErrConversationNotFound, "loading conversation")
		}
		if conv.IsClosed() {
			return domain.ErrAlreadyClosed
		}
		if conv.Status == model.ConversationStatusWaiting {
			result = conv
			return nil
		}
		owner := *conv.AssignedAgentID
		if owner != caller.AgentID && !caller.Can(model.CapabilityUnclaimAny) {
			return domain.ErrNotOwner
		}

		ok, updated, err := stores.Conversations().Release(ctx, caller.TenantID, conversationID, owner, now)
		if err != nil {
			return fmt.Errorf("releasing conversation: %w", err)
		}
		if !ok {
			return domain.ErrAssignmentChanged
		}

		if err := writeAudit(ctx, stores, caller.TenantID, auditEntry{
			actor:    logger.Ptr(caller.AgentID),
			action:   model.AuditActionUnclaim,
			entityID: conversationID,
			before:   conv,
			after: map[string]any{
				"conversation": updated,
				"reason":       reason,
			},
		}, now); err != nil {
			return err
		}

		result = updated
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		publish(ctx, s.publisher, conversationEvent(events.TypeConversationUnclaimed, result, logger.Ptr(caller.AgentID), now))
		slog.InfoContext(ctx, "conversation returned to queue")
	}
	return result, nil
}

func (s *queueService) Close(ctx context.Context, caller model.Caller, conversationID int64) (*model.Conversation, error) {
	ctx = withConversation(callerContext(ctx, caller, queueComponent, "close"), conversationID)
	now := s.clock.Now()

	var (
		original *model.Conversation
		result   *model.Conversation
		breached *model.SlaTimer
	)
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		conv, err := stores.Conversations().GetByID(ctx, caller.TenantID, conversationID)
		if err != nil {
			return notFoundAs(err, domain.ErrConversationNotFound, "loading conversation")
		}
		if conv.IsClosed() {
			return domain.ErrAlreadyClosed
		}
		if conv.AssignedAgentID != nil && !conv.IsAssignedTo(caller.AgentID) && !caller.Can(model.CapabilityUnclaimAny) {
			return domain.ErrNotOwner
		}
		original = conv

		// An overdue deadline nobody observed yet is recorded before the
		// timer stops, so the closed conversation still reports the breach.
		timer, err := stores.SlaTimers().Get(ctx, conversationID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("loading sla timer: %w", err)
		}
		if timer != nil && domain.EvaluateTimer(*timer, now).Latch {
			if breached, err = latchBreach(ctx, stores, conv, now); err != nil {
				return err
			}
		}

		ok, updated, err := stores.Conversations().Close(ctx, caller.TenantID, conversationID, now)
		if err != nil {
			return fmt.Errorf("closing conversation: %w", err)
		}
		if !ok {
			return domain.ErrAlreadyClosed
		}

		if timer != nil {
			if err := stores.SlaTimers().Stop(ctx, conversationID, now); err != nil {
				return fmt.Errorf("stopping sla timer: %w", err)
			}
		}

		if err := writeAudit(ctx, stores, caller.TenantID, auditEntry{
			actor:    logger.Ptr(caller.AgentID),
			action:   model.AuditActionClose,
			entityID: conversationID,
			before:   conv,
			after:    updated,
		}, now); err != nil {
			return err
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if breached != nil {
		publish(ctx, s.publisher, breachEvent(original, breached))
	}
	publish(ctx, s.publisher, conversationEvent(events.TypeConversationClosed, result, logger.Ptr(caller.AgentID), now))
	slog.InfoContext(ctx, "conversation closed")
	return result, nil
}

func (s *queueService) MoveStage(ctx context.Context, caller model.Caller, conversationID int64, stageID *int64) (*model.Conversation, error) {
	ctx = withConversation(callerContext(ctx, caller, queueComponent, "move_stage"), conversationID)
	now := s.clock.Now()

	var result *model.Conversation
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		conv, err := stores.Conversations().GetByID(ctx, caller.TenantID, conversationID)
		if err != nil {
			return notFoundAs(err, domain.ErrConversationNotFound, "loading conversation")
		}
		if conv.IsClosed() {
			return domain.ErrAlreadyClosed
		}
		if sameStage(conv.CurrentStageID, stageID) {
			return domain.ErrAlreadyAtStage
		}

		// Running timers keep their deadline; the new stage's policy
		// applies from the next cycle.
		updated, err := stores.Conversations().MoveStage(ctx, caller.TenantID, conversationID, stageID, now)
		if err != nil {
			return notFoundAs(err, domain.ErrAlreadyClosed, "moving conversation stage")
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, conversationEvent(events.TypeConversationStageMoved, result, logger.Ptr(caller.AgentID), now))
	return result, nil
}

func sameStage(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *queueService) List(ctx context.Context, caller model.Caller, view QueueView) ([]domain.QueueEntry, error) {
	ctx = callerContext(ctx, caller, queueComponent, "list_queue")
	now := s.clock.Now()

	if view == "" {
		view = QueueViewAll
	}
	if !view.IsValid() {
		return nil, domain.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown queue view %q", view))
	}

	convs, err := s.stores.Conversations().ListOpen(ctx, caller.TenantID, queueListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	filtered := make([]model.Conversation, 0, len(convs))
	ids := make([]int64, 0, len(convs))
	for _, conv := range convs {
		if !inView(conv, view, caller.AgentID) {
			continue
		}
		filtered = append(filtered, conv)
		ids = append(ids, conv.ID)
	}

	timers, err := s.stores.SlaTimers().ListForConversations(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing sla timers: %w", err)
	}
	byConversation := make(map[int64]*model.SlaTimer, len(timers))
	for i := range timers {
		byConversation[timers[i].ConversationID] = &timers[i]
	}

	entries := make([]domain.QueueEntry, 0, len(filtered))
	for i := range filtered {
		conv := filtered[i]
		entry := domain.NewQueueEntry(conv, byConversation[conv.ID], now)
		if entry.Evaluation != nil && entry.Evaluation.Latch {
			s.persistLatch(ctx, &conv, now)
		}
		entries = append(entries, entry)
	}

	domain.SortQueue(entries)
	return entries, nil
}

// persistLatch records a breach first observed by a queue read. A failure
// only delays the latch until the next read or sweep.
func (s *queueService) persistLatch(ctx context.Context, conv *model.Conversation, now time.Time) {
	var latched *model.SlaTimer
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		var err error
		latched, err = latchBreach(ctx, stores, conv, now)
		return err
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to latch sla breach", "error", err, "conversation_id", conv.ID)
		return
	}
	if latched != nil {
		publish(ctx, s.publisher, breachEvent(conv, latched))
	}
}

func inView(conv model.Conversation, view QueueView, agentID int64) bool {
	switch view {
	case QueueViewMine:
		return conv.IsAssignedTo(agentID)
	case QueueViewWaiting:
		return conv.Status == model.ConversationStatusWaiting
	case QueueViewAssigned:
		return conv.Status == model.ConversationStatusInProgress
	default:
		return true
	}
}

func (s *queueService) ReturnIdle(ctx context.Context, idleFor time.Duration, limit int32) (int, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: queueComponent, Operation: logger.Ptr("return_idle")})
	now := s.clock.Now()

	idle, err := s.stores.Conversations().ListIdleAssigned(ctx, now.Add(-idleFor), limit)
	if err != nil {
		return 0, fmt.Errorf("listing idle conversations: %w", err)
	}

	returned := 0
	for i := range idle {
		conv := idle[i]
		convCtx := logger.WithLogFields(ctx, logger.LogFields{
			TenantID:       logger.Ptr(conv.TenantID),
			ConversationID: logger.Ptr(conv.ID),
			AgentID:        conv.AssignedAgentID,
		})

		var released *model.Conversation
		err := s.txRunner.WithTx(convCtx, func(stores StoreProvider) error {
			ok, updated, err := stores.Conversations().Release(convCtx, conv.TenantID, conv.ID, *conv.AssignedAgentID, now)
			if err != nil {
				return fmt.Errorf("releasing idle conversation: %w", err)
			}
			if !ok {
				return nil
			}
			released = updated
			return writeAudit(convCtx, stores, conv.TenantID, auditEntry{
				action:   model.AuditActionAutoReturn,
				entityID: conv.ID,
				before:   conv,
				after:    updated,
			}, now)
		})
		if err != nil {
			slog.ErrorContext(convCtx, "failed to return idle conversation", "error", err)
			continue
		}
		if released == nil {
			continue
		}

		returned++
		publish(convCtx, s.publisher, conversationEvent(events.TypeConversationReleased, released, nil, now))
		slog.InfoContext(convCtx, "idle conversation returned to queue", "idle_for", idleFor)
	}

	return returned, nil
}
