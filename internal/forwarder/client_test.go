package forwarder

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
)

func TestPublishPostsAlertWithToken(t *testing.T) {
	received := make(chan models.Alert, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != IngestPath {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get(TokenHeader) != "s3cret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var a models.Alert
		json.NewDecoder(r.Body).Decode(&a)
		received <- a
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var out bytes.Buffer
	c := NewClient(srv.URL+"/", "s3cret", slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.out = &out

	c.Publish(models.Alert{ServerName: "web-01", AlertType: "CPU", Status: models.StatusAlert, Message: "CPU usage is high"})

	select {
	case a := <-received:
		if a.ServerName != "web-01" || a.AlertType != "CPU" {
			t.Fatalf("alert = %+v", a)
		}
	default:
		t.Fatal("collector did not receive alert")
	}
	if !strings.Contains(out.String(), "[ALERT] web-01 CPU") {
		t.Fatalf("console = %q", out.String())
	}
}

func TestPublishSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	var logs bytes.Buffer
	c := NewClient(srv.URL, "wrong", slog.New(slog.NewTextHandler(&logs, nil)))
	c.out = io.Discard
	c.Publish(models.Alert{ServerName: "web-01", AlertType: "RAM", Status: models.StatusRecovery})

	if !strings.Contains(logs.String(), "403") {
		t.Fatalf("logs = %q, want forward failure", logs.String())
	}
}
