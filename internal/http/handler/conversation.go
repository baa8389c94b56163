package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"supportdesk.app/engine/internal/http/dto"
	"supportdesk.app/engine/internal/service"
)

type ConversationHandler struct {
	queueService service.QueueService
}

func NewConversationHandler(queueService service.QueueService) *ConversationHandler {
	return &ConversationHandler{queueService: queueService}
}

func (h *ConversationHandler) List(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	view := service.QueueView(c.DefaultQuery("view", string(service.QueueViewAll)))
	entries, err := h.queueService.List(c.Request.Context(), caller, view)
	if err != nil {
		respondError(c, err, "list queue")
		return
	}

	c.JSON(http.StatusOK, dto.ToQueueResponse(view, entries))
}

func (h *ConversationHandler) Claim(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	conversationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	// The body is optional; an empty one claims for the caller.
	var req dto.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	conv, err := h.queueService.Claim(c.Request.Context(), caller, conversationID, req.AgentID)
	if err != nil {
		respondError(c, err, "claim conversation")
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationResponse(conv))
}

func (h *ConversationHandler) Transfer(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	conversationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	conv, err := h.queueService.Transfer(c.Request.Context(), caller, service.TransferParams{
		ConversationID: conversationID,
		FromAgentID:    req.FromAgentID,
		ToAgentID:      req.ToAgentID,
		Reason:         req.Reason,
	})
	if err != nil {
		respondError(c, err, "transfer conversation")
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationResponse(conv))
}

func (h *ConversationHandler) Unclaim(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	conversationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UnclaimRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	conv, err := h.queueService.Unclaim(c.Request.Context(), caller, conversationID, req.Reason)
	if err != nil {
		respondError(c, err, "unclaim conversation")
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationResponse(conv))
}

func (h *ConversationHandler) Close(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	conversationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	conv, err := h.queueService.Close(c.Request.Context(), caller, conversationID)
	if err != nil {
		respondError(c, err, "close conversation")
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationResponse(conv))
}

func (h *ConversationHandler) MoveStage(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	conversationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.MoveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	conv, err := h.queueService.MoveStage(c.Request.Context(), caller, conversationID, req.StageID)
	if err != nil {
		respondError(c, err, "move conversation stage")
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationResponse(conv))
}
