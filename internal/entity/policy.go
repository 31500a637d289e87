package entity

import (
	"errors"
	"fmt"
)

var ErrUnknownOpeningPolicy = errors.New("unknown opening policy")

const (
	PolicyAlternate  = "alternate"
	PolicyLoserOpens = "loser-opens"
	PolicyFixed      = "fixed"
)

// OpeningPolicy - picks who opens the next match of a session.
type OpeningPolicy interface {
	NextOpener(previousStart Mark, previous Outcome) Mark
}

type OpeningPolicyFunc func(previousStart Mark, previous Outcome) Mark

func (that OpeningPolicyFunc) NextOpener(previousStart Mark, previous Outcome) Mark {
	return that(previousStart, previous)
}

// AlternateOpener - strict flip of the previous starting turn.
var AlternateOpener = OpeningPolicyFunc(func(previousStart Mark, _ Outcome) Mark {
	return previousStart.Opponent()
})

// LoserOpens - the loser opens; a draw falls back to a strict flip.
var LoserOpens = OpeningPolicyFunc(func(previousStart Mark, previous Outcome) Mark {
	if previous.Status == StatusWon {
		return previous.Winner.Opponent()
	}

	return previousStart.Opponent()
})

// FixedOpener - the first joiner always opens.
var FixedOpener = OpeningPolicyFunc(func(Mark, Outcome) Mark {
	return MarkX
})

func ParseOpeningPolicy(name string) (OpeningPolicy, error) {
	switch name {
	case PolicyAlternate, "":
		return AlternateOpener, nil
	case PolicyLoserOpens:
		return LoserOpens, nil
	case PolicyFixed:
		return FixedOpener, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOpeningPolicy, name)
	}
}
