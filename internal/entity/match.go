package entity

import (
	"fmt"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/apperror"
)

// Match - one play-through of the board from empty to decided.
type Match struct {
	Board        Board   `json:"board"`
	Turn         Mark    `json:"turn"`
	StartingTurn Mark    `json:"starting_turn"`
	Outcome      Outcome `json:"outcome"`
}

// MoveResult - what a successful move did. NextTurn is empty once the match is decided.
type MoveResult struct {
	Cell     int
	Mark     Mark
	Outcome  Outcome
	NextTurn Mark
}

func NewMatch(firstTurn Mark) *Match {
	return &Match{
		Turn:         firstTurn,
		StartingTurn: firstTurn,
		Outcome:      Ongoing(),
	}
}

// AttemptMove - single check-and-apply. A rejected move has no side effect.
func (that *Match) AttemptMove(mark Mark, cell int) (MoveResult, error) {
	if that.Outcome.IsDecided() {
		return MoveResult{}, apperror.ErrMatchAlreadyDecided
	}

	if mark != that.Turn {
		return MoveResult{}, apperror.ErrNotYourTurn
	}

	if err := that.Board.ApplyMark(cell, mark); err != nil {
		return MoveResult{}, fmt.Errorf("invalid turn: %w", err)
	}

	that.Outcome = that.Board.Evaluate()
	if !that.Outcome.IsDecided() {
		that.Turn = mark.Opponent()
	}

	result := MoveResult{
		Cell:    cell,
		Mark:    mark,
		Outcome: that.Outcome,
	}
	if !that.Outcome.IsDecided() {
		result.NextTurn = that.Turn
	}

	return result, nil
}

func (that *Match) IsDecided() bool {
	return that.Outcome.IsDecided()
}
