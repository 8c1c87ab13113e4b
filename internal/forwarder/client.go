package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/The-Promised-Neverland/hostwatch/pkg/utils"
	"github.com/fatih/color"
)

const (
	IngestPath     = "/internal/broadcast_alert"
	TokenHeader    = "X-Internal-Token"
	requestTimeout = 5 * time.Second
)

var (
	alertColor    = color.New(color.FgRed, color.Bold)
	recoveryColor = color.New(color.FgGreen, color.Bold)
)

// Client forwards alerts from an agent to the collector. Delivery is best
// effort: failures are logged and the alert is dropped.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	out        io.Writer
	log        *slog.Logger
}

func NewClient(collectorURL, token string, log *slog.Logger) *Client {
	return &Client{
		url:        utils.BuildCollectorURL(collectorURL, IngestPath),
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
		out:        color.Output,
		log:        log,
	}
}

// Publish prints the alert to the console and posts it to the collector.
func (c *Client) Publish(alert models.Alert) {
	c.print(alert)
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := c.send(ctx, alert); err != nil {
		c.log.Error("Failed to forward alert", "type", alert.AlertType, "status", alert.Status, "err", err)
	}
}

func (c *Client) send(ctx context.Context, alert models.Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TokenHeader, c.token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("collector responded %s", resp.Status)
	}
	return nil
}

func (c *Client) print(alert models.Alert) {
	col := alertColor
	if alert.Status == models.StatusRecovery {
		col = recoveryColor
	}
	col.Fprintf(c.out, "[%s] %s %s: %s\n", alert.Status, alert.ServerName, alert.AlertType, alert.Message)
}
