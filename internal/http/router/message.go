package router

import (
	"github.com/gin-gonic/gin"

	"supportdesk.app/engine/internal/http/handler"
)

// InboundRouter serves the messaging channel; the group carries the admin
// API key check.
func InboundRouter(rg *gin.RouterGroup, h *handler.MessageHandler) {
	rg.POST("/inbound", h.Inbound)
}

func MessageRouter(rg *gin.RouterGroup, h *handler.MessageHandler) {
	rg.POST("/outbound", h.Outbound)
}
