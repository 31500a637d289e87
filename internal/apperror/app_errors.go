package apperror

import "errors"

// Kind - class of a rejected request.
type Kind string

const (
	// KindValidation - the move itself is illegal.
	KindValidation Kind = "validation"
	// KindProtocol - the client acted outside its role in the session.
	KindProtocol Kind = "protocol"
)

// Error - rejection reported to the requesting client only. It never changes session state.
type Error struct {
	Kind Kind
	Code string
	msg  string
}

func (that *Error) Error() string {
	return that.msg
}

func validation(code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, msg: msg}
}

func protocol(code, msg string) *Error {
	return &Error{Kind: KindProtocol, Code: code, msg: msg}
}

var (
	ErrInvalidPosition     = validation("invalid_position", "invalid cell index")
	ErrCellOccupied        = validation("cell_occupied", "cell is already occupied")
	ErrNotYourTurn         = validation("not_your_turn", "it's not your turn")
	ErrMatchAlreadyDecided = validation("match_already_decided", "match is already decided")
)

var (
	ErrUnknownPlayer   = protocol("unknown_player", "player is not bound to this session")
	ErrNotYourDecision = protocol("not_your_decision", "no rematch request to answer")
	ErrMatchInProgress = protocol("match_in_progress", "match is still in progress")
	ErrRoomFull        = protocol("room_full", "room is full")
	ErrSessionNotFound = protocol("session_not_found", "session not found")
	ErrNameTaken       = protocol("name_taken", "display name is already taken in this session")
	ErrInvalidName     = protocol("invalid_name", "display name is required")
	ErrMatchNotStarted = protocol("match_not_started", "match is not started")
	ErrRematchPending  = protocol("rematch_pending", "rematch is already requested")
	ErrInvalidPayload  = protocol("invalid_payload", "invalid payload")
	ErrUnknownAction   = protocol("unknown_action", "unknown action")
	ErrAlreadyJoined   = protocol("already_joined", "endpoint is already seated in a session")
)

// KindOf - returns the class of err if it carries an *Error anywhere in its chain.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "", false
	}

	return appErr.Kind, true
}

// CodeOf - returns the wire code of err, "internal" for anything outside the taxonomy.
func CodeOf(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "internal"
	}

	return appErr.Code
}
