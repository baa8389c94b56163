package router

import (
	"github.com/gin-gonic/gin"

	"supportdesk.app/engine/internal/http/handler"
)

func EventStreamRouter(rg *gin.RouterGroup, h *handler.EventStreamHandler) {
	rg.GET("/stream", h.Stream)
}
