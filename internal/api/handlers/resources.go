package handlers

import (
	"net/http"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetResources(c *gin.Context) {
	snap := h.Resources.Snapshot(c.Request.Context())
	c.JSON(http.StatusOK, models.NewResourcesView(snap))
}
