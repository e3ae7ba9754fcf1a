package brackets

import "errors"

var (
	ErrCardsPairCount         = errors.New("cards mode requires exactly 4 pairs")
	ErrDuplicatePair          = errors.New("pair appears more than once")
	ErrDuplicateMatch         = errors.New("match appears more than once")
	ErrPlayerInTwoPairs       = errors.New("player is registered in more than one pair")
	ErrUnknownPair            = errors.New("match references a pair that is not registered")
	ErrSamePair               = errors.New("match has the same pair on both sides")
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchNotInCurrentRound = errors.New("match does not belong to the active round")
	ErrResultAlreadyRecorded  = errors.New("result already recorded for this match")
	ErrTiedScore              = errors.New("tied scores are not accepted")
	ErrInvalidRound           = errors.New("invalid round")
	ErrInvalidSnapshot        = errors.New("stored tournament state is not reachable")
)
