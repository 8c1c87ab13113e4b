package handlers

import (
	"net/http"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/The-Promised-Neverland/hostwatch/pkg/logger"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListActiveAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewCurrentAlerts(h.Service.ActiveAlerts()))
}

func (h *Handler) ListAlertHistory(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewAlertHistory(h.Service.History()))
}

// BroadcastAlert ingests an alert forwarded by a remote agent.
func (h *Handler) BroadcastAlert(c *gin.Context) {
	var alert models.Alert
	if err := c.ShouldBindJSON(&alert); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid alert payload: " + err.Error(),
		})
		return
	}
	ingested, err := h.Service.Ingest(alert)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	logger.Log.Info("Alert received from agent", "server", ingested.ServerName, "type", ingested.AlertType, "status", ingested.Status)
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "alert processed",
	})
}
