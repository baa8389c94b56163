package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supportdesk.app/engine/internal/http/dto"
	"supportdesk.app/engine/internal/service"
)

type SlaHandler struct {
	slaService service.SlaService
}

func NewSlaHandler(slaService service.SlaService) *SlaHandler {
	return &SlaHandler{slaService: slaService}
}

func (h *SlaHandler) Get(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	conversationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	view, err := h.slaService.Get(c.Request.Context(), caller, conversationID)
	if err != nil {
		respondError(c, err, "load sla timer")
		return
	}

	c.JSON(http.StatusOK, dto.ToSlaViewResponse(conversationID, view))
}

func (h *SlaHandler) Pause(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	conversationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	view, err := h.slaService.Pause(c.Request.Context(), caller, conversationID)
	if err != nil {
		respondError(c, err, "pause sla timer")
		return
	}

	c.JSON(http.StatusOK, dto.ToSlaViewResponse(conversationID, view))
}

func (h *SlaHandler) Resume(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	conversationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	view, err := h.slaService.Resume(c.Request.Context(), caller, conversationID)
	if err != nil {
		respondError(c, err, "resume sla timer")
		return
	}

	c.JSON(http.StatusOK, dto.ToSlaViewResponse(conversationID, view))
}
