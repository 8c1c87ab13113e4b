package handlers

import (
	"net/http"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/The-Promised-Neverland/hostwatch/internal/service"
	"github.com/The-Promised-Neverland/hostwatch/internal/ws"
	"github.com/The-Promised-Neverland/hostwatch/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	Service  *service.Service
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(svc *service.Service) *WebSocketHandler {
	return &WebSocketHandler{
		Service: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// UpgradeHandler serves one realtime client for the lifetime of its socket.
func (wsh *WebSocketHandler) UpgradeHandler(c *gin.Context) {
	conn, err := wsh.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("Failed to upgrade WebSocket", "err", err)
		return
	}
	client := ws.NewConnection(conn)
	go client.WritePump()
	logger.Log.Info("Realtime client connected", "id", client.ID(), "remote", c.Request.RemoteAddr)

	if !wsh.Service.Subscribe(client) {
		return
	}
	defer wsh.Service.Unsubscribe(client)

	err = client.ReadPump(func(raw []byte) {
		cmd, err := models.ParseCommand(raw)
		if err != nil {
			logger.Log.Debug("Ignoring malformed client message", "id", client.ID(), "err", err)
			return
		}
		wsh.Service.HandleCommand(client, cmd)
	})
	if ws.IsUnexpectedClose(err) {
		logger.Log.Warn("Realtime client dropped", "id", client.ID(), "err", err)
		return
	}
	logger.Log.Info("Realtime client disconnected", "id", client.ID())
}
