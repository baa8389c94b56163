package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/http/dto"
	"supportdesk.app/engine/internal/http/middleware"
	"supportdesk.app/engine/internal/model"
)

var kindStatus = map[domain.Kind]int{
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindConflict:     http.StatusConflict,
	domain.KindInvalidState: http.StatusConflict,
	domain.KindValidation:   http.StatusBadRequest,
}

// respondError writes a domain error with its kind's status, or a generic
// 500 for anything else. action names the failed operation in the log.
func respondError(c *gin.Context, err error, action string) {
	ctx := c.Request.Context()

	var de *domain.Error
	if errors.As(err, &de) {
		status, ok := kindStatus[de.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		slog.InfoContext(ctx, "request rejected", "action", action, "code", de.Code, "kind", de.Kind)
		c.JSON(status, dto.ErrorResponse{
			Error:   de.Code,
			Kind:    string(de.Kind),
			Message: de.Message,
		})
		return
	}

	slog.ErrorContext(ctx, "request failed", "action", action, "error", err)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "internal_error",
		Message: "failed to " + action,
	})
}

func respondBindError(c *gin.Context, err error) {
	slog.WarnContext(c.Request.Context(), "invalid request body", "error", err)
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   domain.ErrInvalidInput.Code,
		Kind:    string(domain.KindValidation),
		Message: err.Error(),
	})
}

// callerFrom returns the authenticated caller or writes 401.
func callerFrom(c *gin.Context) (model.Caller, bool) {
	caller, ok := middleware.GetCaller(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   domain.ErrUnauthorized.Code,
			Kind:    string(domain.KindUnauthorized),
			Message: "not authenticated",
		})
	}
	return caller, ok
}

// idParam parses a positive int64 path parameter or writes 400.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   domain.ErrInvalidInput.Code,
			Kind:    string(domain.KindValidation),
			Message: "invalid " + name,
		})
		return 0, false
	}
	return id, true
}

// optionalIDQuery parses an optional int64 query parameter or writes 400.
func optionalIDQuery(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   domain.ErrInvalidInput.Code,
			Kind:    string(domain.KindValidation),
			Message: "invalid " + name,
		})
		return nil, false
	}
	return &id, true
}
