package events

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Type string

const (
	TypeConversationInbound     Type = "conversation.inbound"
	TypeConversationOutbound    Type = "conversation.outbound"
	TypeConversationClaimed     Type = "conversation.claimed"
	TypeConversationTransferred Type = "conversation.transferred"
	TypeConversationUnclaimed   Type = "conversation.unclaimed"
	TypeConversationClosed      Type = "conversation.closed"
	TypeConversationStageMoved  Type = "conversation.stage_moved"
	// TypeConversationReleased is the cascade return-to-queue on shift pause
	// or end, and the idle auto-return.
	TypeConversationReleased Type = "conversation.released"

	TypeSlaBreached Type = "sla.breached"
	TypeSlaPaused   Type = "sla.paused"
	TypeSlaResumed  Type = "sla.resumed"

	TypeShiftStarted Type = "shift.started"
	TypeShiftPaused  Type = "shift.paused"
	TypeShiftResumed Type = "shift.resumed"
	TypeShiftEnded   Type = "shift.ended"
)

// Event is a live-update notification for one tenant. Delivery is best
// effort; clients refetch state on reconnect.
type Event struct {
	ID             string          `json:"id,omitempty"`
	Type           Type            `json:"type"`
	TenantID       int64           `json:"tenant_id"`
	ConversationID *int64          `json:"conversation_id,omitempty"`
	AgentID        *int64          `json:"agent_id,omitempty"`
	ShiftID        *int64          `json:"shift_id,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// WithData marshals v into the event payload. A value that cannot be
// marshalled leaves Data empty.
func (e Event) WithData(v any) Event {
	raw, err := json.Marshal(v)
	if err == nil {
		e.Data = raw
	}
	return e
}

// StreamName is the per-tenant redis stream key.
func StreamName(prefix string, tenantID int64) string {
	return fmt.Sprintf("%s:tenant-%d", prefix, tenantID)
}

func eventValues(e Event) map[string]any {
	values := map[string]any{
		"type":        string(e.Type),
		"tenant_id":   e.TenantID,
		"occurred_at": e.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
	if e.ConversationID != nil {
		values["conversation_id"] = *e.ConversationID
	}
	if e.AgentID != nil {
		values["agent_id"] = *e.AgentID
	}
	if e.ShiftID != nil {
		values["shift_id"] = *e.ShiftID
	}
	if len(e.Data) > 0 {
		values["data"] = string(e.Data)
	}
	return values
}

// ParseMessage decodes a stream entry written by the redis publisher.
func ParseMessage(msg redis.XMessage) (Event, error) {
	typ, err := parseString(msg.Values, "type")
	if err != nil {
		return Event{}, err
	}
	tenantID, err := parseInt64(msg.Values, "tenant_id")
	if err != nil {
		return Event{}, err
	}
	conversationID, err := parseOptionalInt64(msg.Values, "conversation_id")
	if err != nil {
		return Event{}, err
	}
	agentID, err := parseOptionalInt64(msg.Values, "agent_id")
	if err != nil {
		return Event{}, err
	}
	shiftID, err := parseOptionalInt64(msg.Values, "shift_id")
	if err != nil {
		return Event{}, err
	}

	var occurredAt time.Time
	if raw, ok := msg.Values["occurred_at"]; ok {
		occurredAt, err = time.Parse(time.RFC3339Nano, fmt.Sprint(raw))
		if err != nil {
			return Event{}, fmt.Errorf("parsing occurred_at: %w", err)
		}
	}

	event := Event{
		ID:             msg.ID,
		Type:           Type(typ),
		TenantID:       tenantID,
		ConversationID: conversationID,
		AgentID:        agentID,
		ShiftID:        shiftID,
		OccurredAt:     occurredAt,
	}
	if raw, ok := msg.Values["data"]; ok {
		event.Data = json.RawMessage(fmt.Sprint(raw))
	}
	return event, nil
}

func parseString(values map[string]any, key string) (string, error) {
	raw, ok := values[key]
	if !ok {
		return "", fmt.Errorf("missing %s", key)
	}
	return fmt.Sprint(raw), nil
}

func parseInt64(values map[string]any, key string) (int64, error) {
	raw, ok := values[key]
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	num, err := strconv.ParseInt(fmt.Sprint(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return num, nil
}

func parseOptionalInt64(values map[string]any, key string) (*int64, error) {
	if _, ok := values[key]; !ok {
		return nil, nil
	}
	num, err := parseInt64(values, key)
	if err != nil {
		return nil, err
	}
	return &num, nil
}
