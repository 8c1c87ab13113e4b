package handlers

import (
	"context"

	"github.com/The-Promised-Neverland/hostwatch/internal/logs"
	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/The-Promised-Neverland/hostwatch/internal/service"
)

type ResourceProvider interface {
	Snapshot(ctx context.Context) models.MetricSnapshot
}

type LogTailer interface {
	Tail(ctx context.Context, app, appType string) (logs.Result, error)
}

// Handler serves the REST endpoints.
type Handler struct {
	Service    *service.Service
	Resources  ResourceProvider
	Logs       LogTailer
	ServerName string
}

func NewHandler(s *service.Service, resources ResourceProvider, tailer LogTailer, serverName string) *Handler {
	return &Handler{
		Service:    s,
		Resources:  resources,
		Logs:       tailer,
		ServerName: serverName,
	}
}
