package repositories

import "errors"

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrLeagueNotFound     = errors.New("league not found")
	ErrStandingNotFound   = errors.New("league standing not found")
	ErrRatingNotFound     = errors.New("rating not found")
	ErrMatchNotFound      = errors.New("match result not found")
	ErrNodeNotFound       = errors.New("bracket node not found")

	// ErrVersionConflict signals a lost optimistic-concurrency race.
	// The commit rolled back; callers may retry from a fresh read.
	ErrVersionConflict = errors.New("entity version conflict")

	// ErrDuplicateMatch signals a match id already on record.
	ErrDuplicateMatch = errors.New("match result already recorded")
)
