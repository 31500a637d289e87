package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/apperror"
)

func TestDisplayNameResolver(t *testing.T) {
	t.Run("Padded name resolves to the slot it joined", func(t *testing.T) {
		// Given: alice joined with trailing whitespace
		session := NewSession("room", nil, nil)
		_, err := session.Join("alice ", "e1")
		require.NoError(t, err)
		_, err = session.Join("bob", "e2")
		require.NoError(t, err)

		// When: she keeps sending the same padded name
		mark, err := DisplayNameResolver{}.ResolveRequesterMark(session, Requester{Name: "alice ", EndpointID: "e1"})

		// Then: she is X and can move
		require.NoError(t, err)
		assert.Equal(t, MarkX, mark)

		_, err = session.Move(Requester{Name: " alice", EndpointID: "e1"}, 4)
		require.NoError(t, err)
	})

	t.Run("Blank name is unknown", func(t *testing.T) {
		session := newFullSession(t, AlternateOpener)

		_, err := DisplayNameResolver{}.ResolveRequesterMark(session, Requester{Name: "  ", EndpointID: "e1"})

		require.ErrorIs(t, err, apperror.ErrUnknownPlayer)
	})

	t.Run("Endpoint mismatch", func(t *testing.T) {
		session := newFullSession(t, AlternateOpener)

		_, err := DisplayNameResolver{}.ResolveRequesterMark(session, Requester{Name: "bob", EndpointID: "e1"})

		require.ErrorIs(t, err, apperror.ErrUnknownPlayer)
	})
}
