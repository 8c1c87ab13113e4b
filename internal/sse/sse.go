package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/google/uuid"
)

const bufferSize = 100

var (
	ErrStreamClosed = errors.New("sse stream closed")
	ErrBufferFull   = errors.New("sse send channel full")
)

// Stream is a Server-Sent-Events subscriber. It is read-only: clients receive
// the same events as websocket subscribers but cannot send commands.
type Stream struct {
	id        string
	SendCh    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewStream() *Stream {
	return &Stream{
		id:     uuid.New().String(),
		SendCh: make(chan []byte, bufferSize),
		done:   make(chan struct{}),
	}
}

func (s *Stream) ID() string {
	return s.id
}

func (s *Stream) Send(ev models.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	select {
	case <-s.done:
		return ErrStreamClosed
	default:
	}
	select {
	case s.SendCh <- data:
		return nil
	case <-s.done:
		return ErrStreamClosed
	default:
		return ErrBufferFull
	}
}

func (s *Stream) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// WriteEvent writes one data frame.
func WriteEvent(w io.Writer, data []byte) error {
	_, err := fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// WriteKeepAlive writes an SSE comment line.
func WriteKeepAlive(w io.Writer) error {
	_, err := io.WriteString(w, ": keepalive\n\n")
	return err
}
