package websocket

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/apperror"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/entity"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/usecase"
)

const (
	actionError  = "error"
	writeTimeout = 10 * time.Second
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload - inbound fields; which ones are required depends on the action.
type Payload struct {
	SessionID   string `json:"session_id"`
	DisplayName string `json:"display_name,omitempty"`
	Player      string `json:"player,omitempty"`
	Position    *int   `json:"position,omitempty"`
}

// ErrorPayload - sent only to the endpoint whose message failed.
type ErrorPayload struct {
	Action string        `json:"action"`
	Kind   apperror.Kind `json:"kind,omitempty"`
	Code   string        `json:"code"`
	Error  string        `json:"error"`
}

// client - one connected endpoint. gorilla connections allow a single concurrent writer.
type client struct {
	id string

	conn       *websocket.Conn
	writeMutex sync.Mutex
}

func newClient(id string, conn *websocket.Conn) *client {
	return &client{id: id, conn: conn}
}

func (that *client) sendJSON(v any) error {
	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// toCommand - validates the payload for the action and binds it to the sending endpoint.
func toCommand(endpointID string, message *Message) (usecase.Command, error) {
	var payload Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return usecase.Command{}, fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
		}
	}

	cmd := usecase.Command{
		Action:    message.Action,
		SessionID: strings.TrimSpace(payload.SessionID),
		Requester: entity.Requester{Name: payload.Player, EndpointID: endpointID},
	}

	switch message.Action {
	case usecase.ActionJoin:
		cmd.Requester.Name = payload.DisplayName
	case usecase.ActionMove:
		if payload.Position == nil {
			return usecase.Command{}, fmt.Errorf("%w: position is required", apperror.ErrInvalidPayload)
		}

		cmd.Position = *payload.Position
	}

	return cmd, nil
}

func errorEvent(action string, err error) ErrorPayload {
	kind, _ := apperror.KindOf(err)

	return ErrorPayload{
		Action: action,
		Kind:   kind,
		Code:   apperror.CodeOf(err),
		Error:  err.Error(),
	}
}
