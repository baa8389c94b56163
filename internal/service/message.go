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

const messageComponent = "engine.service.message"

type InboundMessageParams struct {
	TenantID        int64
	ContactID       int64
	ContactCategory *string
	// StageID seeds the funnel stage of a newly opened conversation.
	StageID *int64
	// At is the customer's message time; zero means now.
	At time.Time
}

type MessageService interface {
	// RecordInbound attaches a customer message to the contact's open
	// conversation, opening one if needed, and starts a timer cycle unless
	// an unanswered one is already running.
	RecordInbound(ctx context.Context, params InboundMessageParams) (*model.Conversation, error)
	// RecordOutbound records an agent reply and answers the current cycle.
	RecordOutbound(ctx context.Context, caller model.Caller, conversationID int64, at time.Time) (*model.Conversation, error)
}

type messageService struct {
	stores    StoreProvider
	txRunner  TxRunner
	publisher events.Publisher
	clock     domain.Clock
	fallback  domain.ResolvedPolicy
}

// NewMessageService builds the message facade. fallback is the policy used
// when a tenant has no matching sla_policies row.
func NewMessageService(stores StoreProvider, txRunner TxRunner, publisher events.Publisher, clock domain.Clock, fallback domain.ResolvedPolicy) MessageService {
	if clock == nil {
		clock = domain.SystemClock()
	}
	return &messageService{
		stores:    stores,
		txRunner:  txRunner,
		publisher: publisher,
		clock:     clock,
		fallback:  fallback,
	}
}

func (s *messageService) RecordInbound(ctx context.Context, params InboundMessageParams) (*model.Conversation, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		TenantID:  logger.Ptr(params.TenantID),
		Operation: logger.Ptr("inbound_message"),
		Component: messageComponent,
	})
	if params.TenantID == 0 || params.ContactID == 0 {
		return nil, domain.ErrInvalidInput.WithMessage("tenant_id and contact_id are required")
	}

	now := s.clock.Now()
	at := params.At
	if at.IsZero() {
		at = now
	}

	conv, timer, err := s.recordInbound(ctx, params, at, now)
	if errors.Is(err, store.ErrUniqueViolation) {
		// Another delivery for the same contact opened the conversation
		// first; the retry finds it.
		conv, timer, err = s.recordInbound(ctx, params, at, now)
	}
	if err != nil {
		return nil, err
	}

	ctx = withConversation(ctx, conv.ID)
	ev := conversationEvent(events.TypeConversationInbound, conv, nil, now)
	publish(ctx, s.publisher, ev)
	if timer != nil {
		slog.InfoContext(ctx, "sla cycle started", "due_at", timer.DueAt, "policy_id", timer.PolicyID)
	}
	return conv, nil
}

// recordInbound runs one attempt. The returned timer is non-nil when a new
// cycle started.
func (s *messageService) recordInbound(ctx context.Context, params InboundMessageParams, at, now time.Time) (*model.Conversation, *model.SlaTimer, error) {
	var (
		result  *model.Conversation
		started *model.SlaTimer
	)
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		conv, err := stores.Conversations().GetOpenByContact(ctx, params.TenantID, params.ContactID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("loading open conversation: %w", err)
			}
			conv = &model.Conversation{
				ID:              id.New(),
				TenantID:        params.TenantID,
				ContactID:       params.ContactID,
				ContactCategory: params.ContactCategory,
				CurrentStageID:  params.StageID,
				Status:          model.ConversationStatusWaiting,
				Priority:        model.DefaultConversationPriority,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := stores.Conversations().Create(ctx, conv); err != nil {
				if errors.Is(err, store.ErrUniqueViolation) {
					return err
				}
				return fmt.Errorf("creating conversation: %w", err)
			}
		}

		updated, err := stores.Conversations().RecordCustomerMessage(ctx, params.TenantID, conv.ID, at, now)
		if err != nil {
			return fmt.Errorf("recording customer message: %w", err)
		}
		result = updated

		existing, err := stores.SlaTimers().Get(ctx, conv.ID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("loading sla timer: %w", err)
			}
			existing = nil
		}
		if !domain.ShouldStartCycle(existing, updated) {
			return nil
		}

		policies, err := stores.SlaPolicies().ListByTenant(ctx, params.TenantID)
		if err != nil {
			return fmt.Errorf("listing sla policies: %w", err)
		}
		policy := domain.ResolvePolicy(policies, updated.CurrentStageID, updated.ContactCategory, s.fallback)

		timer := domain.NewTimerCycle(updated, policy, now)
		if err := stores.SlaTimers().Start(ctx, &timer); err != nil {
			return fmt.Errorf("starting sla timer: %w", err)
		}
		started = &timer
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, started, nil
}

func (s *messageService) RecordOutbound(ctx context.Context, caller model.Caller, conversationID int64, at time.Time) (*model.Conversation, error) {
	ctx = withConversation(callerContext(ctx, caller, messageComponent, "outbound_message"), conversationID)
	now := s.clock.Now()
	if at.IsZero() {
		at = now
	}

	var (
		result   *model.Conversation
		breached *model.SlaTimer
		answered *model.SlaEvent
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

		timer, err := stores.SlaTimers().Get(ctx, conversationID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("loading sla timer: %w", err)
		}
		if timer != nil && domain.EvaluateTimer(*timer, now).Latch {
			latched, err := latchBreach(ctx, stores, conv, now)
			if err != nil {
				return err
			}
			if latched != nil {
				breached, timer = latched, latched
			}
		}

		updated, err := stores.Conversations().RecordAgentMessage(ctx, caller.TenantID, conversationID, at, now)
		if err != nil {
			return notFoundAs(err, domain.ErrAlreadyClosed, "recording agent message")
		}
		result = updated

		if timer == nil {
			return nil
		}

		responseSeconds := domain.ResponseSeconds(*timer, at)
		answered = &model.SlaEvent{
			ID:              id.New(),
			TenantID:        caller.TenantID,
			ConversationID:  conversationID,
			AssignedAgentID: updated.AssignedAgentID,
			Type:            model.SlaEventTypeResponse,
			PolicyID:        timer.PolicyID,
			StartedAt:       timer.StartedAt,
			DueAt:           timer.DueAt,
			OccurredAt:      at,
			ResponseSeconds: &responseSeconds,
		}
		if err := stores.SlaEvents().Create(ctx, answered); err != nil {
			return fmt.Errorf("recording response event: %w", err)
		}
		if err := stores.SlaTimers().Delete(ctx, conversationID); err != nil {
			return fmt.Errorf("deleting answered sla timer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if breached != nil {
		publish(ctx, s.publisher, breachEvent(result, breached))
	}
	publish(ctx, s.publisher, conversationEvent(events.TypeConversationOutbound, result, logger.Ptr(caller.AgentID), now))
	if answered != nil {
		slog.InfoContext(ctx, "sla cycle answered", "response_seconds", *answered.ResponseSeconds)
	}
	return result, nil
}
