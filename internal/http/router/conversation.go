package router

import (
	"github.com/gin-gonic/gin"

	"supportdesk.app/engine/internal/http/handler"
)

func QueueRouter(rg *gin.RouterGroup, h *handler.ConversationHandler) {
	rg.GET("", h.List)
}

func ConversationRouter(rg *gin.RouterGroup, h *handler.ConversationHandler, sla *handler.SlaHandler) {
	rg.POST("/:id/claim", h.Claim)
	rg.POST("/:id/transfer", h.Transfer)
	rg.POST("/:id/unclaim", h.Unclaim)
	rg.POST("/:id/close", h.Close)
	rg.POST("/:id/move-stage", h.MoveStage)

	rg.GET("/:id/sla", sla.Get)
	rg.POST("/:id/sla/pause", sla.Pause)
	rg.POST("/:id/sla/resume", sla.Resume)
}
