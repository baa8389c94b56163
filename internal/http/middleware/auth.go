package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"supportdesk.app/engine/common/logger"
	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/http/dto"
	"supportdesk.app/engine/internal/model"
	"supportdesk.app/engine/internal/service"
)

type contextKey string

const (
	SessionIDHeader   = "X-Session-ID"
	AdminAPIKeyHeader = "X-Admin-API-Key"

	callerContextKey contextKey = "caller"
)

// RequireCaller resolves the session from "Authorization: Bearer <id>" or
// X-Session-ID into a Caller and attaches it to the request context.
func RequireCaller(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		sessionID, err := getSessionID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   domain.ErrUnauthorized.Code,
				Kind:    string(domain.KindUnauthorized),
				Message: "session id required",
			})
			return
		}

		caller, err := authService.Authenticate(ctx, sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
					Error:   domain.ErrUnauthorized.Code,
					Kind:    string(domain.KindUnauthorized),
					Message: "session expired or invalid",
				})
				return
			}
			slog.ErrorContext(ctx, "failed to authenticate session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "internal_error",
				Message: "failed to validate session",
			})
			return
		}

		ctx = WithCaller(ctx, *caller)
		ctx = logger.WithLogFields(ctx, logger.LogFields{
			TenantID: logger.Ptr(caller.TenantID),
			AgentID:  logger.Ptr(caller.AgentID),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdminAPIKey guards integration endpoints such as inbound message
// delivery. An empty configured key rejects every request.
func RequireAdminAPIKey(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(AdminAPIKeyHeader)
		if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   domain.ErrUnauthorized.Code,
				Kind:    string(domain.KindUnauthorized),
				Message: "invalid api key",
			})
			return
		}
		c.Next()
	}
}

func WithCaller(ctx context.Context, caller model.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

func GetCaller(ctx context.Context) (model.Caller, bool) {
	caller, ok := ctx.Value(callerContextKey).(model.Caller)
	return caller, ok
}

func getSessionID(c *gin.Context) (int64, error) {
	raw := c.GetHeader(SessionIDHeader)
	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		raw = token
	}
	if raw == "" {
		if c.GetHeader("Authorization") != "" {
			return 0, errors.New("unsupported authorization scheme")
		}
		return 0, errors.New("no session id")
	}
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}
