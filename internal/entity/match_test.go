package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/apperror"
)

func TestNewMatch(t *testing.T) {
	// Given: a new match opened by O
	match := NewMatch(O)

	// Then: the board is empty, O is to move and the match is ongoing
	expected := &Match{
		Board:        Board{},
		Turn:         O,
		StartingTurn: O,
		Outcome:      Ongoing(),
	}
	require.Equal(t, expected, match)
}

func TestMatch_AttemptMove(t *testing.T) {
	t.Run("Successful move flips the turn", func(t *testing.T) {
		// Given: a new match
		match := NewMatch(X)

		// When: X plays cell 0
		result, err := match.AttemptMove(X, 0)

		// Then: the move is applied and O is to move
		require.NoError(t, err)
		assert.Equal(t, MoveResult{Cell: 0, Mark: X, Outcome: Ongoing(), NextTurn: O}, result)
		assert.Equal(t, O, match.Turn)
		assert.Equal(t, X, match.Board[0])
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: a new match where X is to move
		match := NewMatch(X)

		// When: O tries to move
		_, err := match.AttemptMove(O, 1)

		// Then: ErrNotYourTurn is returned and nothing changed
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, NewMatch(X), match)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: X took cell 0
		match := NewMatch(X)
		_, err := match.AttemptMove(X, 0)
		require.NoError(t, err)

		// When: O tries cell 0
		_, err = match.AttemptMove(O, 0)

		// Then: ErrCellOccupied is returned and it is still O's turn
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, O, match.Turn)
		assert.Equal(t, X, match.Board[0])
	})

	t.Run("Error on invalid cell", func(t *testing.T) {
		// Given: a new match
		match := NewMatch(X)

		// When: X plays outside the grid
		_, err := match.AttemptMove(X, 9)

		// Then: ErrInvalidPosition is returned and it is still X's turn
		require.ErrorIs(t, err, apperror.ErrInvalidPosition)
		assert.Equal(t, X, match.Turn)
	})

	t.Run("Diagonal win stops turn advance", func(t *testing.T) {
		// Given: a new match
		match := NewMatch(X)

		// When: X 4, O 0, X 2, O 1, X 6
		moves := []struct {
			mark Mark
			cell int
		}{{X, 4}, {O, 0}, {X, 2}, {O, 1}}
		for _, move := range moves {
			_, err := match.AttemptMove(move.mark, move.cell)
			require.NoError(t, err)
		}
		result, err := match.AttemptMove(X, 6)

		// Then: X has won on the 2-4-6 diagonal and no next turn is given
		require.NoError(t, err)
		assert.Equal(t, Won(X), result.Outcome)
		assert.Equal(t, E, result.NextTurn)
		assert.Equal(t, X, match.Turn)
		assert.True(t, match.IsDecided())
	})

	t.Run("Cells 4, 8 and 6 are not a line", func(t *testing.T) {
		// Given: a new match
		match := NewMatch(X)

		// When: X 4, O 0, X 8, O 2, X 6
		moves := []struct {
			mark Mark
			cell int
		}{{X, 4}, {O, 0}, {X, 8}, {O, 2}}
		for _, move := range moves {
			_, err := match.AttemptMove(move.mark, move.cell)
			require.NoError(t, err)
		}
		result, err := match.AttemptMove(X, 6)

		// Then: the match goes on and O is to move
		require.NoError(t, err)
		assert.Equal(t, Ongoing(), result.Outcome)
		assert.Equal(t, O, result.NextTurn)
	})

	t.Run("Move after match decided", func(t *testing.T) {
		// Given: a match X has already won
		match := &Match{
			Board:   Board{X, X, X, E, O, E, E, O, E},
			Turn:    O,
			Outcome: Won(X),
		}

		// When: O tries to move
		_, err := match.AttemptMove(O, 3)

		// Then: ErrMatchAlreadyDecided is returned
		require.ErrorIs(t, err, apperror.ErrMatchAlreadyDecided)
		assert.Equal(t, E, match.Board[3])
	})

	t.Run("Turn strictly alternates until decided", func(t *testing.T) {
		// Given: a new match
		match := NewMatch(X)
		cells := []int{0, 1, 2, 4, 3, 5, 7, 6, 8}

		// When: the players fill the board in order
		expected := X
		for _, cell := range cells {
			require.Equal(t, expected, match.Turn)

			result, err := match.AttemptMove(expected, cell)
			require.NoError(t, err)

			if result.Outcome.IsDecided() {
				break
			}
			expected = expected.Opponent()
		}

		// Then: the board is full and the match is a draw
		assert.Equal(t, Draw(), match.Outcome)
	})
}
