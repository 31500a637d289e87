package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/apperror"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/entity"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/usecase"
)

// handleMessages - processes messages from the client until the connection fails.
func (that *Server) handleMessages(ctx context.Context, endpoint *client) error {
	log := that.logger.With("method", "handleMessages", "endpointID", endpoint.id)

	for {
		messageType, reqBody, err := endpoint.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(endpoint, "", fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err))

			continue
		}

		that.processMessage(ctx, endpoint, &message)
	}
}

func (that *Server) processMessage(ctx context.Context, endpoint *client, message *Message) {
	log := that.logger.With("method", "processMessage", "endpointID", endpoint.id, "action", message.Action)

	cmd, err := toCommand(endpoint.id, message)
	if err != nil {
		that.sendError(endpoint, message.Action, err)
		return
	}

	deliveries, err := that.gameManager.Handle(ctx, cmd)
	if err != nil {
		if _, ok := apperror.KindOf(err); ok {
			log.Info("request rejected", "error", err)
		} else {
			log.Error("failed to handle message", "error", err)
		}

		that.sendError(endpoint, message.Action, err)

		return
	}

	that.dispatch(deliveries)
}

// dispatch - sends every delivery to its connected recipients. Gone endpoints are skipped.
func (that *Server) dispatch(deliveries []usecase.Delivery) {
	log := that.logger.With("method", "dispatch")

	for _, delivery := range deliveries {
		for _, endpointID := range delivery.Recipients {
			endpoint, ok := that.connection(endpointID)
			if !ok {
				log.Debug("recipient is not connected", "endpointID", endpointID, "event", delivery.Event.Name)
				continue
			}

			if err := endpoint.sendJSON(delivery.Event); err != nil {
				log.Error("failed to send event", "endpointID", endpointID, "event", delivery.Event.Name, "error", err)
			}
		}
	}
}

func (that *Server) sendError(endpoint *client, action string, err error) {
	event := entity.Event{Name: actionError, Payload: errorEvent(action, err)}

	if sendErr := endpoint.sendJSON(event); sendErr != nil && !errors.Is(sendErr, websocket.ErrCloseSent) {
		that.logger.Error("failed to send error", "endpointID", endpoint.id, "error", sendErr)
	}
}
