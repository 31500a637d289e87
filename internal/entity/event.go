package entity

const (
	EventWaitingForOpponent = "waitingForOpponent"
	EventRoomFull           = "roomFull"
	EventMatchStart         = "matchStart"
	EventMoveApplied        = "moveApplied"
	EventRematchRequested   = "rematchRequested"
	EventRematchDeclined    = "rematchDeclined"
	EventMatchReset         = "matchReset"
	EventSessionEnded       = "sessionEnded"
)

// Event - outbound notification produced by a session operation.
type Event struct {
	Name    string `json:"action"`
	Payload any    `json:"payload,omitempty"`
}

type WaitingPayload struct {
	SessionID   string `json:"session_id"`
	PlayerCount string `json:"player_count"`
	PlayerName  string `json:"player_name"`
	Mark        Mark   `json:"mark"`
}

type MatchStartPayload struct {
	Player1      Slot `json:"player1"`
	Player2      Slot `json:"player2"`
	StartingTurn Mark `json:"starting_turn"`
	MatchNumber  int  `json:"match_number"`
}

type MoveAppliedPayload struct {
	Position int   `json:"position"`
	Mark     Mark  `json:"mark"`
	Winner   Mark  `json:"winner,omitempty"`
	Draw     bool  `json:"draw,omitempty"`
	NextTurn Mark  `json:"next_turn,omitempty"`
	Stats    Stats `json:"stats"`
}

type RematchRequestedPayload struct {
	RequestedBy     Mark   `json:"requested_by"`
	RequestedByName string `json:"requested_by_name"`
}

type MatchResetPayload struct {
	StartingTurn Mark         `json:"starting_turn"`
	MatchNumber  int          `json:"match_number"`
	Stats        Stats        `json:"stats"`
	LastResult   ResultLabels `json:"last_result"`
}

type SessionEndedPayload struct {
	Summary Summary `json:"summary"`
}
