package handlers

import (
	"errors"
	"net/http"

	"github.com/The-Promised-Neverland/hostwatch/internal/logs"
	"github.com/The-Promised-Neverland/hostwatch/pkg/logger"
	"github.com/gin-gonic/gin"
)

type logRequest struct {
	AppName string `json:"app_name" binding:"required"`
	AppType string `json:"app_type" binding:"required"`
}

func (h *Handler) GetLogs(c *gin.Context) {
	var req logRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "app_name and app_type are required",
		})
		return
	}
	res, err := h.Logs.Tail(c.Request.Context(), req.AppName, req.AppType)
	if err != nil {
		status := logErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Log.Error("Log query failed", "app", req.AppName, "type", req.AppType, "err", err)
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, res)
}

func logErrorStatus(err error) int {
	switch {
	case errors.Is(err, logs.ErrUnknownType), errors.Is(err, logs.ErrInvalidApp):
		return http.StatusBadRequest
	case errors.Is(err, logs.ErrLogNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
