package services

import (
	"errors"
	"fmt"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/brackets"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/models"
)

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrResultConflict     = errors.New("match result already recorded")
	ErrMatchNotPlayable   = errors.New("match is not part of the active round")
	ErrRoundOutOfRange    = errors.New("round out of range")
	ErrTournamentNotOver  = errors.New("tournament is not finished yet")
)

// mapEngineError translates engine errors into the errors handlers know about.
func mapEngineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, brackets.ErrMatchNotFound):
		return fmt.Errorf("%w: %w", ErrMatchNotFound, err)
	case errors.Is(err, brackets.ErrResultAlreadyRecorded):
		return fmt.Errorf("%w: %w", ErrResultConflict, err)
	case errors.Is(err, brackets.ErrMatchNotInCurrentRound):
		return fmt.Errorf("%w: %w", ErrMatchNotPlayable, err)
	case errors.Is(err, brackets.ErrCardsPairCount),
		errors.Is(err, brackets.ErrDuplicatePair),
		errors.Is(err, brackets.ErrPlayerInTwoPairs),
		errors.Is(err, brackets.ErrUnknownPair),
		errors.Is(err, brackets.ErrSamePair),
		errors.Is(err, brackets.ErrTiedScore),
		errors.Is(err, models.ErrNegativeScore),
		errors.Is(err, models.ErrPairIDRequired),
		errors.Is(err, models.ErrPlayerIDRequired),
		errors.Is(err, models.ErrPlayerRepeatedPair):
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	default:
		return err
	}
}
