package combat

import "errors"

// Code classifies a rejected action.
type Code string

const (
	CodeInsufficientResource Code = "INSUFFICIENT_RESOURCE"
	CodeInvalidTarget        Code = "INVALID_TARGET"
	CodeUnknownSkill         Code = "UNKNOWN_SKILL"
	CodeInvalidAction        Code = "INVALID_ACTION"
	CodeInactive             Code = "COMBAT_INACTIVE"
)

// Error is a recoverable validation failure. Message is safe to show to a
// player.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same code, so callers can test
// errors.Is(err, ErrInvalidTarget).
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Sentinels for errors.Is comparisons against action failures.
var (
	ErrInsufficientResource = newError(CodeInsufficientResource, "insufficient resource")
	ErrInvalidTarget        = newError(CodeInvalidTarget, "invalid target")
	ErrUnknownSkill         = newError(CodeUnknownSkill, "unknown skill")
	ErrInvalidAction        = newError(CodeInvalidAction, "invalid action")
	ErrInactive             = newError(CodeInactive, "combat is not active")
)

// Setup errors returned by StartCombat.
var (
	ErrNoCombatants     = errors.New("at least one combatant is required")
	ErrMissingID        = errors.New("combatant id is required")
	ErrDuplicateID      = errors.New("duplicate combatant id")
	ErrInvalidCombatant = errors.New("invalid combatant")
	ErrIllegalPosition  = errors.New("combatant position is out of bounds, a wall, or shared")
	ErrNoRoomToPlace    = errors.New("no free tile left to place combatant")
	ErrAlreadyStarted   = errors.New("combat already started")
)
