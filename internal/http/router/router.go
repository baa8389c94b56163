package router

import (
	"github.com/gin-gonic/gin"

	"supportdesk.app/engine/internal/events"
	"supportdesk.app/engine/internal/http/handler"
	"supportdesk.app/engine/internal/http/middleware"
	"supportdesk.app/engine/internal/service"
)

type RouterConfig struct {
	AdminAPIKey     string
	TraceHeaderName string
	// EventsReader is nil when live events are disabled.
	EventsReader events.Reader
	DB           handler.Pinger
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	healthHandler := handler.NewHealthHandler(cfg.DB)
	router.GET("/health", healthHandler.Check)

	v1 := router.Group("/api/v1")
	{
		messageHandler := handler.NewMessageHandler(services.Messages(), cfg.TraceHeaderName)
		InboundRouter(v1.Group("/messages", middleware.RequireAdminAPIKey(cfg.AdminAPIKey)), messageHandler)

		authed := v1.Group("", middleware.RequireCaller(services.Auth()))

		conversationHandler := handler.NewConversationHandler(services.Queue())
		slaHandler := handler.NewSlaHandler(services.SLA())
		QueueRouter(authed.Group("/queue"), conversationHandler)
		ConversationRouter(authed.Group("/conversations"), conversationHandler, slaHandler)

		MessageRouter(authed.Group("/messages"), messageHandler)

		shiftHandler := handler.NewShiftHandler(services.Shifts())
		AgentRouter(authed.Group("/agent"), shiftHandler)

		eventStreamHandler := handler.NewEventStreamHandler(cfg.EventsReader)
		EventStreamRouter(authed.Group("/events"), eventStreamHandler)
	}
}
