package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/apperror"
	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/entity"
)

// Room - a session plus the mutex that serializes every operation on it.
type Room struct {
	mu           sync.Mutex
	session      *entity.Session
	lastActivity time.Time
	now          func() time.Time
}

// Do - runs fn with exclusive access to the session. Fails once the session has ended.
func (that *Room) Do(fn func(session *entity.Session) error) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.session.Ended {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, that.session.ID)
	}

	that.lastActivity = that.now()

	return fn(that.session)
}

// expireIfIdle - ends the session if nothing touched it since deadline.
func (that *Room) expireIfIdle(deadline time.Time) (*entity.Session, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	// already ended by its players; the router disposes those itself
	if that.session.Ended || !that.lastActivity.Before(deadline) {
		return nil, false
	}

	that.session.Expire()

	return that.session, true
}

// Registry - process-wide mapping from session id to room.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room

	policy   entity.OpeningPolicy
	resolver entity.MarkResolver
	now      func() time.Time
}

func New(policy entity.OpeningPolicy, resolver entity.MarkResolver) *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		policy:   policy,
		resolver: resolver,
		now:      time.Now,
	}
}

// CreateOrGet - idempotent; concurrent first joins for the same id share one room.
func (that *Registry) CreateOrGet(id string) *Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	if room, ok := that.rooms[id]; ok {
		return room
	}

	room := &Room{
		session:      entity.NewSession(id, that.policy, that.resolver),
		lastActivity: that.now(),
		now:          that.now,
	}
	that.rooms[id] = room

	return room
}

func (that *Registry) Get(id string) (*Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	return room, nil
}

// Dispose - removes the room; later lookups fail with ErrSessionNotFound.
func (that *Registry) Dispose(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, id)
}

// DisposeIfEmpty - removes room if nobody has taken a slot in it. A joiner still holding
// the room afterwards gets ErrSessionNotFound.
func (that *Registry) DisposeIfEmpty(id string, room *Room) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.rooms[id] != room {
		return false
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if len(room.session.Slots) != 0 {
		return false
	}

	room.session.Expire()
	delete(that.rooms, id)

	return true
}

func (that *Registry) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.rooms)
}

// Sweep - expires and disposes rooms idle for longer than idle. Returns the number removed.
func (that *Registry) Sweep(idle time.Duration, onExpire func(session *entity.Session)) int {
	deadline := that.now().Add(-idle)

	that.mu.Lock()
	candidates := make(map[string]*Room, len(that.rooms))
	for id, room := range that.rooms {
		candidates[id] = room
	}
	that.mu.Unlock()

	removed := 0
	for id, room := range candidates {
		expired, ok := room.expireIfIdle(deadline)
		if !ok {
			continue
		}

		that.Dispose(id)
		removed++

		if onExpire != nil {
			onExpire(expired)
		}
	}

	return removed
}

// Maintain - runs Sweep every interval until ctx is done.
func (that *Registry) Maintain(ctx context.Context, interval, idle time.Duration, onExpire func(session *entity.Session)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.Sweep(idle, onExpire)
		}
	}
}
