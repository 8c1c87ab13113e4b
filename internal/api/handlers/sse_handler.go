package handlers

import (
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/service"
	"github.com/The-Promised-Neverland/hostwatch/internal/sse"
	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 30 * time.Second

type SSEHandler struct {
	Service *service.Service
}

func NewSSEHandler(svc *service.Service) *SSEHandler {
	return &SSEHandler{Service: svc}
}

// StreamHandler pushes the realtime event feed as Server-Sent Events.
func (ssh *SSEHandler) StreamHandler(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	stream := sse.NewStream()
	if !ssh.Service.Subscribe(stream) {
		return
	}
	defer ssh.Service.Unsubscribe(stream)
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case data := <-stream.SendCh:
			if err := sse.WriteEvent(c.Writer, data); err != nil {
				return
			}
			c.Writer.Flush()
		case <-ticker.C:
			if err := sse.WriteKeepAlive(c.Writer); err != nil {
				return
			}
			c.Writer.Flush()
		case <-stream.Done():
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
