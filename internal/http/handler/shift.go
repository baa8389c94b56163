package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/http/dto"
	"supportdesk.app/engine/internal/service"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type ShiftHandler struct {
	shiftService service.ShiftService
}

func NewShiftHandler(shiftService service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

func (h *ShiftHandler) Start(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	shift, err := h.shiftService.Start(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "start shift")
		return
	}

	c.JSON(http.StatusCreated, dto.ToShiftResponse(shift))
}

func (h *ShiftHandler) Pause(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.PauseShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.shiftService.Pause(c.Request.Context(), caller, service.PauseShiftParams{
		Reason: req.Reason,
		Detail: req.Detail,
	})
	if err != nil {
		respondError(c, err, "pause shift")
		return
	}

	c.JSON(http.StatusOK, dto.ToPauseShiftResponse(result.Pause, result.Released))
}

func (h *ShiftHandler) Resume(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	pause, err := h.shiftService.Resume(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "resume shift")
		return
	}

	c.JSON(http.StatusOK, dto.ToPauseResponse(pause))
}

func (h *ShiftHandler) End(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	result, err := h.shiftService.End(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "end shift")
		return
	}

	c.JSON(http.StatusOK, dto.ToEndShiftResponse(result.Shift, result.Released))
}

func (h *ShiftHandler) Status(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	agentID, ok := optionalIDQuery(c, "agent_id")
	if !ok {
		return
	}

	status, err := h.shiftService.Status(c.Request.Context(), caller, agentID)
	if err != nil {
		respondError(c, err, "load agent status")
		return
	}

	c.JSON(http.StatusOK, dto.ToAgentStatusResponse(targetAgent(caller.AgentID, agentID), status))
}

func (h *ShiftHandler) History(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	agentID, ok := optionalIDQuery(c, "agent_id")
	if !ok {
		return
	}

	limit := int32(defaultHistoryLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   domain.ErrInvalidInput.Code,
				Kind:    string(domain.KindValidation),
				Message: "invalid limit",
			})
			return
		}
		limit = int32(min(n, maxHistoryLimit))
	}

	history, err := h.shiftService.History(c.Request.Context(), caller, agentID, limit)
	if err != nil {
		respondError(c, err, "load shift history")
		return
	}

	c.JSON(http.StatusOK, dto.ToShiftHistoryResponse(targetAgent(caller.AgentID, agentID), history))
}

func targetAgent(callerID int64, agentID *int64) int64 {
	if agentID != nil {
		return *agentID
	}
	return callerID
}
