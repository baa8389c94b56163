package service

import (
	"context"
	"encoding/json"
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

const entityConversation = "conversation"

// notFoundAs maps store.ErrNotFound to the given domain error and wraps
// anything else.
func notFoundAs(err error, notFound *domain.Error, action string) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound
	}
	return fmt.Errorf("%s: %w", action, err)
}

// callerContext stamps the caller's identity and the operation name on ctx.
func callerContext(ctx context.Context, caller model.Caller, component, operation string) context.Context {
	return logger.WithLogFields(ctx, logger.LogFields{
		TenantID:  logger.Ptr(caller.TenantID),
		AgentID:   logger.Ptr(caller.AgentID),
		Operation: logger.Ptr(operation),
		Component: component,
	})
}

func withConversation(ctx context.Context, conversationID int64) context.Context {
	return logger.WithLogFields(ctx, logger.LogFields{ConversationID: logger.Ptr(conversationID)})
}

// requireAvailable checks that agentID holds an active, unpaused shift. The
// shift row is read FOR SHARE so a concurrent pause waits for this
// transaction.
func requireAvailable(ctx context.Context, stores StoreProvider, tenantID, agentID int64) error {
	shift, err := stores.Shifts().ShareOpen(ctx, tenantID, agentID)
	if err != nil {
		return notFoundAs(err, domain.ErrAgentOffShift, "loading open shift")
	}

	_, err = stores.Pauses().GetOpen(ctx, shift.ID)
	switch {
	case err == nil:
		return domain.ErrAgentPaused
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("loading open pause: %w", err)
	}
}

type auditEntry struct {
	actor    *int64
	action   model.AuditAction
	entityID int64
	before   any
	after    any
}

func writeAudit(ctx context.Context, stores StoreProvider, tenantID int64, entry auditEntry, now time.Time) error {
	before, err := marshalSnapshot(entry.before)
	if err != nil {
		return err
	}
	after, err := marshalSnapshot(entry.after)
	if err != nil {
		return err
	}

	log := &model.AuditLog{
		ID:           id.New(),
		TenantID:     tenantID,
		ActorAgentID: entry.actor,
		Action:       entry.action,
		EntityType:   entityConversation,
		EntityID:     entry.entityID,
		Before:       before,
		After:        after,
		CreatedAt:    now,
	}
	if err := stores.AuditLogs().Create(ctx, log); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}
	return nil
}

func marshalSnapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshalling audit snapshot: %w", err)
	}
	return raw, nil
}

// publish sends events after commit. Failures are logged and dropped; the
// committed state is authoritative.
func publish(ctx context.Context, publisher events.Publisher, evs ...events.Event) {
	if publisher == nil {
		return
	}
	for _, e := range evs {
		if err := publisher.Publish(ctx, e); err != nil {
			slog.WarnContext(ctx, "failed to publish event", "error", err, "type", e.Type)
		}
	}
}

func conversationEvent(typ events.Type, conv *model.Conversation, actor *int64, now time.Time) events.Event {
	return events.Event{
		Type:           typ,
		TenantID:       conv.TenantID,
		ConversationID: logger.Ptr(conv.ID),
		AgentID:        actor,
		OccurredAt:     now,
	}.WithData(conv)
}
