package services

import "errors"

// Sentinel errors returned across the service boundary. Handlers map
// these to HTTP statuses; callers use errors.Is to tell retry-safe
// failures (ErrConcurrentUpdateConflict) from those needing manual
// correction (ErrBracketConflict).
var (
	// ErrValidationFailed rejects a malformed submission before any
	// engine runs; nothing is mutated.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidNodeState rejects a result for a bracket node that is
	// not eligible: already completed, a bye, or slots not concrete.
	ErrInvalidNodeState = errors.New("bracket node not eligible for a result")

	// ErrBracketConflict rejects a resubmission that contradicts an
	// accepted result. Correction requires a reversal record.
	ErrBracketConflict = errors.New("conflicting result for an already decided match")

	// ErrResultConflict rejects a duplicate match id whose payload
	// disagrees with the accepted record.
	ErrResultConflict = errors.New("match id already accepted with a different result")

	// ErrConcurrentUpdateConflict surfaces after bounded retries lose
	// every optimistic-concurrency race. Safe to retry.
	ErrConcurrentUpdateConflict = errors.New("concurrent update conflict")

	// ErrUnknownParticipant rejects results referencing a participant
	// outside the tournament or league.
	ErrUnknownParticipant = errors.New("participant not part of this tournament or league")

	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrLeagueNotFound      = errors.New("league not found")
	ErrNodeNotFound        = errors.New("bracket node not found")
	ErrTournamentCompleted = errors.New("tournament already completed")
	ErrSeasonNotRegular    = errors.New("league season is no longer in regular play")
	ErrInvalidCutoff       = errors.New("playoff cutoff out of range")
	ErrNotEnoughSeeds      = errors.New("not enough participants to seed a bracket")
)
