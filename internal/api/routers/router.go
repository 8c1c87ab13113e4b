package routers

import (
	"github.com/The-Promised-Neverland/hostwatch/internal/api/handlers"
	"github.com/The-Promised-Neverland/hostwatch/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	Handler       *handlers.Handler
	WSHandler     *handlers.WebSocketHandler
	SSEHandler    *handlers.SSEHandler
	InternalToken string
}

func NewRouter(handler *handlers.Handler, wsh *handlers.WebSocketHandler, ssh *handlers.SSEHandler, internalToken string) *Router {
	return &Router{
		Handler:       handler,
		WSHandler:     wsh,
		SSEHandler:    ssh,
		InternalToken: internalToken,
	}
}

func (rtr *Router) SetupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CorsMiddleware())

	router.GET("/health", rtr.Handler.HealthCheck)
	router.GET("/resources", rtr.Handler.GetResources)
	router.POST("/logs", rtr.Handler.GetLogs)

	alerts := router.Group("/alerts")
	{
		alerts.GET("", rtr.Handler.ListActiveAlerts)
		alerts.GET("/history", rtr.Handler.ListAlertHistory)
	}

	internal := router.Group("/internal", middleware.InternalTokenMiddleware(rtr.InternalToken))
	{
		internal.POST("/broadcast_alert", rtr.Handler.BroadcastAlert)
	}

	router.GET("/ws/notifications", rtr.WSHandler.UpgradeHandler)
	router.GET("/events", rtr.SSEHandler.StreamHandler)

	return router
}
