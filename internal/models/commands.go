package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound command types accepted from realtime clients.
const (
	CmdConfigAdd    = "config_add"
	CmdConfigRemove = "config_remove"
	CmdGetHistory   = "get_history"
	CmdClearHistory = "clear_history"
)

var ErrMalformedCommand = errors.New("malformed command")

// ClientMessage is the raw wire shape of an inbound message.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Command is the closed set of parsed client commands.
type Command interface {
	CommandType() string
}

type ConfigAdd struct {
	App string
}

type ConfigRemove struct {
	App string
}

type GetHistory struct{}

type ClearHistory struct{}

// UnknownCommand carries a type tag that is not understood.
type UnknownCommand struct {
	Type string
}

func (ConfigAdd) CommandType() string        { return CmdConfigAdd }
func (ConfigRemove) CommandType() string     { return CmdConfigRemove }
func (GetHistory) CommandType() string       { return CmdGetHistory }
func (ClearHistory) CommandType() string     { return CmdClearHistory }
func (c UnknownCommand) CommandType() string { return c.Type }

type appPayload struct {
	App string `json:"app"`
}

// ParseCommand decodes one client message. Only invalid JSON is an error; an
// unrecognised type yields UnknownCommand and a missing app name yields an
// empty App for the caller to reject.
func ParseCommand(raw []byte) (Command, error) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCommand, err)
	}
	switch msg.Type {
	case CmdConfigAdd:
		return ConfigAdd{App: decodeApp(msg.Data)}, nil
	case CmdConfigRemove:
		return ConfigRemove{App: decodeApp(msg.Data)}, nil
	case CmdGetHistory:
		return GetHistory{}, nil
	case CmdClearHistory:
		return ClearHistory{}, nil
	default:
		return UnknownCommand{Type: msg.Type}, nil
	}
}

func decodeApp(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var p appPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ""
	}
	return p.App
}
