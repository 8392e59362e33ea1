package game

import "errors"

// Rejections. The engine is unchanged after returning any of these, except
// ErrInvalidCallConfiguration which clears the calls and restarts bidding.
var (
	ErrNotYourTurn              = errors.New("not your turn")
	ErrInvalidPhase             = errors.New("action not allowed in this phase")
	ErrCardNotInHand            = errors.New("card not in hand")
	ErrMustFollowSuit           = errors.New("must follow suit if possible")
	ErrTableFull                = errors.New("table is full")
	ErrNotEnoughPlayers         = errors.New("four players are required")
	ErrUnknownPlayer            = errors.New("player not found")
	ErrDuplicatePlayer          = errors.New("player already seated")
	ErrInvalidCall              = errors.New("call must be between 0 and 13")
	ErrInvalidSuit              = errors.New("invalid suit")
	ErrInvalidCallConfiguration = errors.New("sum of calls cannot be exactly 13")
)

var reasons = []struct {
	err  error
	kind string
}{
	{ErrNotYourTurn, "NotYourTurn"},
	{ErrInvalidPhase, "InvalidPhaseForAction"},
	{ErrCardNotInHand, "CardNotInHand"},
	{ErrMustFollowSuit, "MustFollowSuit"},
	{ErrTableFull, "TableFull"},
	{ErrNotEnoughPlayers, "NotEnoughPlayers"},
	{ErrUnknownPlayer, "UnknownPlayer"},
	{ErrDuplicatePlayer, "DuplicatePlayer"},
	{ErrInvalidCall, "InvalidCall"},
	{ErrInvalidSuit, "InvalidSuit"},
	{ErrInvalidCallConfiguration, "InvalidCallConfiguration"},
}

// Reason maps a rejection to its stable wire name. Unknown errors map to "Internal".
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.kind
		}
	}
	return "Internal"
}
