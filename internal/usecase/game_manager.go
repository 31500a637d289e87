package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/apperror"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/entity"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/registry"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/repository"
)

const (
	ActionJoin           = "join"
	ActionMove           = "move"
	ActionRequestRematch = "requestRematch"
	ActionAcceptRematch  = "acceptRematch"
	ActionDeclineRematch = "declineRematch"
	ActionEndGame        = "endGame"
)

const archiveTimeout = 5 * time.Second

// Command - inbound action resolved to a session. Requester.Name is the display name.
type Command struct {
	Action    string
	SessionID string
	Requester entity.Requester
	Position  int
}

// Delivery - event and the endpoints it goes to.
type Delivery struct {
	Recipients []string
	Event      entity.Event
}

type summaryRepo interface {
	Save(ctx context.Context, summary *entity.Summary) error
	GetByID(ctx context.Context, sessionID string) (*entity.Summary, error)
}

// GameManager routes inbound commands to sessions and turns the results into deliveries.
type GameManager struct {
	logger      *slog.Logger
	rooms       *registry.Registry
	summaryRepo summaryRepo

	endpointsMutex sync.Mutex
	endpoints      map[string]string

	handlers map[string]func(ctx context.Context, cmd Command) ([]Delivery, error)
}

func NewGameManager(logger *slog.Logger, rooms *registry.Registry, summaryRepo summaryRepo) *GameManager {
	manager := &GameManager{
		logger:      logger.With("component", "game_manager"),
		rooms:       rooms,
		summaryRepo: summaryRepo,
		endpoints:   make(map[string]string),
	}

	manager.handlers = map[string]func(context.Context, Command) ([]Delivery, error){
		ActionJoin:           manager.join,
		ActionMove:           manager.move,
		ActionRequestRematch: manager.requestRematch,
		ActionAcceptRematch:  manager.acceptRematch,
		ActionDeclineRematch: manager.declineRematch,
		ActionEndGame:        manager.endGame,
	}

	return manager
}

// Handle - errors are for the sending endpoint only; no state changed when one is returned.
func (that *GameManager) Handle(ctx context.Context, cmd Command) ([]Delivery, error) {
	handler, ok := that.handlers[cmd.Action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownAction, cmd.Action)
	}

	if strings.TrimSpace(cmd.SessionID) == "" {
		return nil, fmt.Errorf("%w: session id is required", apperror.ErrInvalidPayload)
	}

	return handler(ctx, cmd)
}

func (that *GameManager) join(_ context.Context, cmd Command) ([]Delivery, error) {
	log := that.logger.With("method", "join", "sessionID", cmd.SessionID)

	if strings.TrimSpace(cmd.Requester.Name) == "" {
		return nil, fmt.Errorf("failed to join session: %w", apperror.ErrInvalidName)
	}

	if boundTo, ok := that.seatedIn(cmd.Requester.EndpointID); ok {
		return nil, fmt.Errorf("failed to join session: %w: %s", apperror.ErrAlreadyJoined, boundTo)
	}

	room := that.rooms.CreateOrGet(cmd.SessionID)

	var delivery Delivery
	err := room.Do(func(session *entity.Session) error {
		event, err := session.Join(cmd.Requester.Name, cmd.Requester.EndpointID)
		if err != nil {
			return err
		}

		delivery = Delivery{Recipients: session.Endpoints(), Event: event}

		return nil
	})

	if errors.Is(err, apperror.ErrRoomFull) {
		log.Info("room is full", "player", cmd.Requester.Name)

		return []Delivery{{
			Recipients: []string{cmd.Requester.EndpointID},
			Event:      entity.Event{Name: entity.EventRoomFull},
		}}, nil
	}

	if err != nil {
		if that.rooms.DisposeIfEmpty(cmd.SessionID, room) {
			log.Debug("empty room dropped after rejected join")
		}

		return nil, fmt.Errorf("failed to join session: %w", err)
	}

	that.bindEndpoint(cmd.Requester.EndpointID, cmd.SessionID)

	log.Info("player joined", "player", cmd.Requester.Name, "event", delivery.Event.Name)

	return []Delivery{delivery}, nil
}

func (that *GameManager) move(_ context.Context, cmd Command) ([]Delivery, error) {
	return that.broadcast(cmd, func(session *entity.Session) (entity.Event, error) {
		return session.Move(cmd.Requester, cmd.Position)
	})
}

func (that *GameManager) requestRematch(_ context.Context, cmd Command) ([]Delivery, error) {
	return that.broadcast(cmd, func(session *entity.Session) (entity.Event, error) {
		return session.RequestRematch(cmd.Requester)
	})
}

func (that *GameManager) acceptRematch(_ context.Context, cmd Command) ([]Delivery, error) {
	return that.broadcast(cmd, func(session *entity.Session) (entity.Event, error) {
		return session.AcceptRematch(cmd.Requester)
	})
}

func (that *GameManager) declineRematch(_ context.Context, cmd Command) ([]Delivery, error) {
	return that.broadcast(cmd, func(session *entity.Session) (entity.Event, error) {
		return session.DeclineRematch(cmd.Requester)
	})
}

func (that *GameManager) endGame(ctx context.Context, cmd Command) ([]Delivery, error) {
	log := that.logger.With("method", "endGame", "sessionID", cmd.SessionID)

	deliveries, err := that.broadcast(cmd, func(session *entity.Session) (entity.Event, error) {
		return session.End(cmd.Requester)
	})
	if err != nil {
		return nil, err
	}

	that.rooms.Dispose(cmd.SessionID)

	for _, delivery := range deliveries {
		payload, ok := delivery.Event.Payload.(entity.SessionEndedPayload)
		if !ok {
			continue
		}

		that.unbindEndpoints(cmd.SessionID, delivery.Recipients)

		summary := payload.Summary
		if err = that.summaryRepo.Save(ctx, &summary); err != nil {
			log.Error("failed to save summary", "error", err)
		}
	}

	log.Info("session ended", "player", cmd.Requester.Name)

	return deliveries, nil
}

// broadcast - runs op under the room lock and addresses its event to both bound endpoints.
func (that *GameManager) broadcast(cmd Command, op func(session *entity.Session) (entity.Event, error)) ([]Delivery, error) {
	room, err := that.rooms.Get(cmd.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", cmd.Action, err)
	}

	var delivery Delivery
	err = room.Do(func(session *entity.Session) error {
		event, err := op(session)
		if err != nil {
			return err
		}

		delivery = Delivery{Recipients: session.Endpoints(), Event: event}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", cmd.Action, err)
	}

	that.logger.Debug("action applied", "action", cmd.Action, "sessionID", cmd.SessionID, "event", delivery.Event.Name)

	return []Delivery{delivery}, nil
}

// Disconnect - a room still waiting for its opponent is dropped when its only player leaves.
// Full rooms are left to the idle sweep.
func (that *GameManager) Disconnect(_ context.Context, endpointID string) {
	log := that.logger.With("method", "Disconnect", "endpointID", endpointID)

	sessionID, ok := that.unbindEndpoint(endpointID)
	if !ok {
		return
	}

	room, err := that.rooms.Get(sessionID)
	if err != nil {
		return
	}

	abandoned := false
	_ = room.Do(func(session *entity.Session) error {
		if session.IsFull() || len(session.Slots) == 0 || session.Slots[0].EndpointID != endpointID {
			return nil
		}

		session.Expire()
		abandoned = true

		return nil
	})

	if abandoned {
		that.rooms.Dispose(sessionID)
		log.Info("abandoned waiting session disposed", "sessionID", sessionID)
	}
}

// Summary - live sessions answer from memory, ended ones from the summary store.
func (that *GameManager) Summary(ctx context.Context, sessionID string) (*entity.Summary, error) {
	if room, err := that.rooms.Get(sessionID); err == nil {
		var summary entity.Summary
		err = room.Do(func(session *entity.Session) error {
			summary = session.Summary()
			return nil
		})
		if err == nil && len(summary.Players) > 0 {
			return &summary, nil
		}
	}

	summary, err := that.summaryRepo.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrSummaryNotFound) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	return summary, nil
}

// MaintainRooms - expires idle rooms until ctx is done, archiving their summaries.
func (that *GameManager) MaintainRooms(ctx context.Context, interval, idle time.Duration) {
	that.rooms.Maintain(ctx, interval, idle, func(session *entity.Session) {
		that.archive(ctx, session)
	})
}

func (that *GameManager) archive(ctx context.Context, session *entity.Session) {
	log := that.logger.With("method", "archive", "sessionID", session.ID)

	that.unbindEndpoints(session.ID, session.Endpoints())

	summary := session.Summary()
	if summary.TotalMatches == 0 {
		log.Info("idle session expired without matches")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	if err := that.summaryRepo.Save(ctx, &summary); err != nil {
		log.Error("failed to save summary", "error", err)
		return
	}

	log.Info("idle session expired", "matches", summary.TotalMatches)
}

func (that *GameManager) bindEndpoint(endpointID, sessionID string) {
	if endpointID == "" {
		return
	}

	that.endpointsMutex.Lock()
	defer that.endpointsMutex.Unlock()

	that.endpoints[endpointID] = sessionID
}

// seatedIn - the live session endpointID already holds a slot in, if any.
func (that *GameManager) seatedIn(endpointID string) (string, bool) {
	if endpointID == "" {
		return "", false
	}

	that.endpointsMutex.Lock()
	sessionID, ok := that.endpoints[endpointID]
	that.endpointsMutex.Unlock()

	if !ok {
		return "", false
	}

	if _, err := that.rooms.Get(sessionID); err != nil {
		return "", false
	}

	return sessionID, true
}

func (that *GameManager) unbindEndpoint(endpointID string) (string, bool) {
	that.endpointsMutex.Lock()
	defer that.endpointsMutex.Unlock()

	sessionID, ok := that.endpoints[endpointID]
	delete(that.endpoints, endpointID)

	return sessionID, ok
}

// unbindEndpoints - endpoints that have since joined another session keep that binding.
func (that *GameManager) unbindEndpoints(sessionID string, endpointIDs []string) {
	that.endpointsMutex.Lock()
	defer that.endpointsMutex.Unlock()

	for _, endpointID := range endpointIDs {
		if that.endpoints[endpointID] == sessionID {
			delete(that.endpoints, endpointID)
		}
	}
}
