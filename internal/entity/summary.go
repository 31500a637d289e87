package entity

import "time"

const (
	LabelWon   = "Won"
	LabelLost  = "Lost"
	LabelDraw  = "Draw"
	LabelNone  = "-"
	recentSize = 5
)

// ResultLabels - "last match" label shown next to each player.
type ResultLabels struct {
	X string `json:"x"`
	O string `json:"o"`
}

// Stats - cumulative counters across the matches of a session.
type Stats struct {
	XWins        int          `json:"x_wins"`
	OWins        int          `json:"o_wins"`
	Draws        int          `json:"draws"`
	TotalMatches int          `json:"total_matches"`
	LastResult   ResultLabels `json:"last_result"`
}

func newStats() Stats {
	return Stats{LastResult: ResultLabels{X: LabelNone, O: LabelNone}}
}

func (that *Stats) record(outcome Outcome) {
	that.TotalMatches++

	switch {
	case outcome.IsDraw():
		that.Draws++
		that.LastResult = ResultLabels{X: LabelDraw, O: LabelDraw}
	case outcome.Winner == MarkX:
		that.XWins++
		that.LastResult = ResultLabels{X: LabelWon, O: LabelLost}
	case outcome.Winner == MarkO:
		that.OWins++
		that.LastResult = ResultLabels{X: LabelLost, O: LabelWon}
	}
}

// MatchRecord - history line of a decided match.
type MatchRecord struct {
	Number     int       `json:"number"`
	Winner     Mark      `json:"winner,omitempty"`
	WinnerName string    `json:"winner_name,omitempty"`
	Draw       bool      `json:"draw,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Summary - read-only snapshot of a session for the end-of-game view.
type Summary struct {
	SessionID    string        `json:"session_id"`
	Players      []Slot        `json:"players"`
	XWins        int           `json:"x_wins"`
	OWins        int           `json:"o_wins"`
	Draws        int           `json:"draws"`
	TotalMatches int           `json:"total_matches"`
	LastWinner   string        `json:"last_winner,omitempty"`
	History      []MatchRecord `json:"history"`
	Ended        bool          `json:"ended"`
}

// PlayerName - display name bound to mark, empty if nobody holds it.
func (that *Summary) PlayerName(mark Mark) string {
	for _, player := range that.Players {
		if player.Mark == mark {
			return player.Name
		}
	}

	return ""
}
