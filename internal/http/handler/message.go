package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"supportdesk.app/engine/common/logger"
	"supportdesk.app/engine/internal/http/dto"
	"supportdesk.app/engine/internal/service"
)

type MessageHandler struct {
	messageService  service.MessageService
	traceHeaderName string
}

func NewMessageHandler(messageService service.MessageService, traceHeaderName string) *MessageHandler {
	return &MessageHandler{
		messageService:  messageService,
		traceHeaderName: traceHeaderName,
	}
}

// Inbound records a customer message delivered by the messaging channel.
func (h *MessageHandler) Inbound(c *gin.Context) {
	var traceID string
	if h.traceHeaderName != "" {
		traceID = c.GetHeader(h.traceHeaderName)
	}
	sc := logger.StartSpanFromTraceID(c.Request.Context(), traceID, "http.message.inbound")
	defer sc.End()
	c.Request = c.Request.WithContext(sc.Context())

	var req dto.InboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	params := service.InboundMessageParams{
		TenantID:        req.TenantID,
		ContactID:       req.ContactID,
		ContactCategory: req.ContactCategory,
		StageID:         req.StageID,
	}
	if req.At != nil {
		params.At = *req.At
	}

	conv, err := h.messageService.RecordInbound(c.Request.Context(), params)
	if err != nil {
		sc.RecordError(err)
		respondError(c, err, "record inbound message")
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationResponse(conv))
}

func (h *MessageHandler) Outbound(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var at time.Time
	if req.At != nil {
		at = *req.At
	}

	conv, err := h.messageService.RecordOutbound(c.Request.Context(), caller, req.ConversationID, at)
	if err != nil {
		respondError(c, err, "record outbound message")
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationResponse(conv))
}
