package handlers

import (
	"net/http"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/The-Promised-Neverland/hostwatch/pkg/system"
	"github.com/gin-gonic/gin"
)

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthCheck{
		Status:      "Healthy",
		ServerName:  h.ServerName,
		Uptime:      system.Uptime(),
		HostUptime:  system.HostUptime(c.Request.Context()),
		Subscribers: h.Service.Hub.Count(),
	})
}
