package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers and services enrich the context once per operation; every slog call
// made with that context then carries tenant, agent and conversation identity.
type LogFields struct {
	TenantID       *int64  // Tenant the caller belongs to
	AgentID        *int64  // Acting agent (or the agent a cascade targets)
	ConversationID *int64  // Conversation being mutated
	ShiftID        *int64  // Open shift touched by a ledger operation
	Operation      *string // Facade operation, e.g. "claim", "pause_shift"
	Component      string  // Component name (OTel semantic convention style, e.g. "engine.service.queue")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.TenantID != nil {
		result.TenantID = new.TenantID
	}
	if new.AgentID != nil {
		result.AgentID = new.AgentID
	}
	if new.ConversationID != nil {
		result.ConversationID = new.ConversationID
	}
	if new.ShiftID != nil {
		result.ShiftID = new.ShiftID
	}
	if new.Operation != nil {
		result.Operation = new.Operation
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{AgentID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}
