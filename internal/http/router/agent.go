package router

import (
	"github.com/gin-gonic/gin"

	"supportdesk.app/engine/internal/http/handler"
)

func AgentRouter(rg *gin.RouterGroup, h *handler.ShiftHandler) {
	rg.POST("/shift/start", h.Start)
	rg.POST("/shift/pause", h.Pause)
	rg.POST("/shift/resume", h.Resume)
	rg.POST("/shift/end", h.End)

	rg.GET("/status", h.Status)
	rg.GET("/shifts", h.History)
}
