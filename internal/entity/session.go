package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/apperror"
)

const (
	StateAwaitingOpponent = "awaiting_opponent"
	StatePlaying          = "playing"
	StateDecided          = "decided"
	StateRematchRequested = "rematch_requested"
	StateEnded            = "ended"
)

const maxSlots = 2

// RematchState - Idle while RequestedBy is empty.
type RematchState struct {
	RequestedBy Mark `json:"requested_by,omitempty"`
}

func (that RematchState) IsPending() bool {
	return that.RequestedBy != EmptyCell
}

// Session - one room: two slots, the current match, cumulative stats and the rematch handshake.
// It is not safe for concurrent use; the registry serializes access per room.
type Session struct {
	ID      string        `json:"id"`
	Slots   []*Slot       `json:"slots"`
	Match   *Match        `json:"match,omitempty"`
	Stats   Stats         `json:"stats"`
	Rematch RematchState  `json:"rematch"`
	History []MatchRecord `json:"history"`
	Ended   bool          `json:"ended"`

	policy   OpeningPolicy
	resolver MarkResolver
	now      func() time.Time
}

func NewSession(id string, policy OpeningPolicy, resolver MarkResolver) *Session {
	if policy == nil {
		policy = AlternateOpener
	}

	if resolver == nil {
		resolver = DisplayNameResolver{}
	}

	return &Session{
		ID:       id,
		Stats:    newStats(),
		policy:   policy,
		resolver: resolver,
		now:      time.Now,
	}
}

func (that *Session) IsFull() bool {
	return len(that.Slots) == maxSlots
}

func (that *Session) State() string {
	switch {
	case that.Ended:
		return StateEnded
	case that.Match == nil:
		return StateAwaitingOpponent
	case that.Rematch.IsPending():
		return StateRematchRequested
	case that.Match.IsDecided():
		return StateDecided
	default:
		return StatePlaying
	}
}

func (that *Session) SlotByName(name string) *Slot {
	for _, slot := range that.Slots {
		if slot.Name == name {
			return slot
		}
	}

	return nil
}

func (that *Session) SlotByMark(mark Mark) *Slot {
	for _, slot := range that.Slots {
		if slot.Mark == mark {
			return slot
		}
	}

	return nil
}

// Endpoints - transport endpoints bound to this session's slots.
func (that *Session) Endpoints() []string {
	endpoints := make([]string, 0, len(that.Slots))
	for _, slot := range that.Slots {
		if slot.EndpointID != "" {
			endpoints = append(endpoints, slot.EndpointID)
		}
	}

	return endpoints
}

// Join - binds name to the next free mark. The second join starts the first match with X to move.
func (that *Session) Join(name, endpointID string) (Event, error) {
	if that.Ended {
		return Event{}, apperror.ErrSessionNotFound
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Event{}, apperror.ErrInvalidName
	}

	if that.IsFull() {
		return Event{}, fmt.Errorf("%w: session %s", apperror.ErrRoomFull, that.ID)
	}

	if that.SlotByName(name) != nil {
		return Event{}, fmt.Errorf("%w: %q", apperror.ErrNameTaken, name)
	}

	mark := MarkX
	if len(that.Slots) == 1 {
		mark = MarkO
	}

	that.Slots = append(that.Slots, &Slot{Name: name, Mark: mark, EndpointID: endpointID})

	if !that.IsFull() {
		return Event{
			Name: EventWaitingForOpponent,
			Payload: WaitingPayload{
				SessionID:   that.ID,
				PlayerCount: fmt.Sprintf("%d/%d", len(that.Slots), maxSlots),
				PlayerName:  name,
				Mark:        mark,
			},
		}, nil
	}

	that.Match = NewMatch(that.Slots[0].Mark)

	return Event{
		Name: EventMatchStart,
		Payload: MatchStartPayload{
			Player1:      *that.Slots[0],
			Player2:      *that.Slots[1],
			StartingTurn: that.Match.StartingTurn,
			MatchNumber:  that.Stats.TotalMatches + 1,
		},
	}, nil
}

// Move - applies requester's move to the current match and records a decided outcome.
func (that *Session) Move(requester Requester, cell int) (Event, error) {
	mark, err := that.resolve(requester)
	if err != nil {
		return Event{}, err
	}

	if that.Match == nil {
		return Event{}, apperror.ErrMatchNotStarted
	}

	result, err := that.Match.AttemptMove(mark, cell)
	if err != nil {
		return Event{}, fmt.Errorf("failed make turn: %w", err)
	}

	payload := MoveAppliedPayload{
		Position: result.Cell,
		Mark:     result.Mark,
		NextTurn: result.NextTurn,
	}

	if result.Outcome.IsDecided() {
		that.recordOutcome(result.Outcome)

		payload.Winner = result.Outcome.Winner
		payload.Draw = result.Outcome.IsDraw()
	}

	payload.Stats = that.Stats

	return Event{Name: EventMoveApplied, Payload: payload}, nil
}

func (that *Session) recordOutcome(outcome Outcome) {
	that.Stats.record(outcome)

	record := MatchRecord{
		Number:     that.Stats.TotalMatches,
		Winner:     outcome.Winner,
		Draw:       outcome.IsDraw(),
		FinishedAt: that.now(),
	}
	if slot := that.SlotByMark(outcome.Winner); slot != nil {
		record.WinnerName = slot.Name
	}

	that.History = append(that.History, record)
}

// RequestRematch - opens the handshake once the current match is decided.
func (that *Session) RequestRematch(requester Requester) (Event, error) {
	mark, err := that.resolve(requester)
	if err != nil {
		return Event{}, err
	}

	if that.Match == nil || !that.Match.IsDecided() {
		return Event{}, apperror.ErrMatchInProgress
	}

	if that.Rematch.IsPending() {
		return Event{}, fmt.Errorf("%w: by %s", apperror.ErrRematchPending, that.Rematch.RequestedBy)
	}

	that.Rematch = RematchState{RequestedBy: mark}

	return Event{
		Name: EventRematchRequested,
		Payload: RematchRequestedPayload{
			RequestedBy:     mark,
			RequestedByName: that.SlotByMark(mark).Name,
		},
	}, nil
}

// AcceptRematch - the opponent of the requester starts a new match.
func (that *Session) AcceptRematch(requester Requester) (Event, error) {
	if err := that.checkDecision(requester); err != nil {
		return Event{}, err
	}

	that.Rematch = RematchState{}

	previous := that.Match
	that.Match = NewMatch(that.policy.NextOpener(previous.StartingTurn, previous.Outcome))

	return Event{
		Name: EventMatchReset,
		Payload: MatchResetPayload{
			StartingTurn: that.Match.StartingTurn,
			MatchNumber:  that.Stats.TotalMatches + 1,
			Stats:        that.Stats,
			LastResult:   that.Stats.LastResult,
		},
	}, nil
}

// DeclineRematch - back to idle; the decided match stays in place.
func (that *Session) DeclineRematch(requester Requester) (Event, error) {
	if err := that.checkDecision(requester); err != nil {
		return Event{}, err
	}

	that.Rematch = RematchState{}

	return Event{Name: EventRematchDeclined}, nil
}

func (that *Session) checkDecision(requester Requester) error {
	mark, err := that.resolve(requester)
	if err != nil {
		return err
	}

	if !that.Rematch.IsPending() || that.Rematch.RequestedBy == mark {
		return apperror.ErrNotYourDecision
	}

	return nil
}

// End - terminal. The caller disposes the session from the registry.
func (that *Session) End(requester Requester) (Event, error) {
	if _, err := that.resolve(requester); err != nil {
		return Event{}, err
	}

	that.finish()

	return Event{
		Name:    EventSessionEnded,
		Payload: SessionEndedPayload{Summary: that.Summary()},
	}, nil
}

// Expire - cleanup driven from outside, e.g. idle timeout. A pending rematch counts as declined.
func (that *Session) Expire() {
	that.finish()
}

func (that *Session) finish() {
	that.Rematch = RematchState{}
	that.Ended = true
}

// Summary - snapshot of the cumulative stats.
func (that *Session) Summary() Summary {
	players := make([]Slot, 0, len(that.Slots))
	for _, slot := range that.Slots {
		players = append(players, *slot)
	}

	history := that.History
	if len(history) > recentSize {
		history = history[len(history)-recentSize:]
	}

	summary := Summary{
		SessionID:    that.ID,
		Players:      players,
		XWins:        that.Stats.XWins,
		OWins:        that.Stats.OWins,
		Draws:        that.Stats.Draws,
		TotalMatches: that.Stats.TotalMatches,
		History:      append(make([]MatchRecord, 0, len(history)), history...),
		Ended:        that.Ended,
	}

	if len(that.History) > 0 {
		last := that.History[len(that.History)-1]
		if last.Draw {
			summary.LastWinner = LabelDraw
		} else {
			summary.LastWinner = last.WinnerName
		}
	}

	return summary
}

func (that *Session) resolve(requester Requester) (Mark, error) {
	if that.Ended {
		return EmptyCell, apperror.ErrSessionNotFound
	}

	mark, err := that.resolver.ResolveRequesterMark(that, requester)
	if err != nil {
		return EmptyCell, fmt.Errorf("failed resolve requester: %w", err)
	}

	return mark, nil
}
