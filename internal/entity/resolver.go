package entity

import (
	"fmt"
	"strings"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/apperror"
)

// Requester - who sent an inbound action: the display name it claims and the endpoint it came from.
type Requester struct {
	Name       string
	EndpointID string
}

// MarkResolver - maps a requester to the mark of its slot in session.
type MarkResolver interface {
	ResolveRequesterMark(session *Session, requester Requester) (Mark, error)
}

// DisplayNameResolver trusts the display name, but only from the endpoint the slot was bound to.
type DisplayNameResolver struct{}

func (DisplayNameResolver) ResolveRequesterMark(session *Session, requester Requester) (Mark, error) {
	// names are stored trimmed by Join
	slot := session.SlotByName(strings.TrimSpace(requester.Name))
	if slot == nil {
		return EmptyCell, fmt.Errorf("%w: %q", apperror.ErrUnknownPlayer, requester.Name)
	}

	if requester.EndpointID != "" && slot.EndpointID != "" && requester.EndpointID != slot.EndpointID {
		return EmptyCell, fmt.Errorf("%w: %q from another endpoint", apperror.ErrUnknownPlayer, requester.Name)
	}

	return slot.Mark, nil
}
