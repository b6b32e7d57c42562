// Package elo computes skill rating updates from match outcomes.
// It is pure: current ratings go in, new ratings and deltas come out,
// persistence is the caller's concern.
package elo

import (
	"errors"
	"math"

	"github.com/bpaddle/competition-engine/models"
)

const deviation = 400

const (
	DefaultInitialRating      = 1150
	DefaultKProvisional       = 32
	DefaultKStable            = 16
	DefaultProvisionalMatches = 20
	DefaultWalkoverWinWeight  = 0.5
)

var ErrEmptySide = errors.New("elo: side has no ratings")

// Config tunes the rating model. Zero fields fall back to defaults.
type Config struct {
	InitialRating      float64
	KProvisional       float64
	KStable            float64
	ProvisionalMatches float64
	// WalkoverWinWeight is the match-count weight credited to the
	// recipient of a walkover win. The rating exchange itself is full.
	WalkoverWinWeight float64
}

func DefaultConfig() Config {
	return Config{
		InitialRating:      DefaultInitialRating,
		KProvisional:       DefaultKProvisional,
		KStable:            DefaultKStable,
		ProvisionalMatches: DefaultProvisionalMatches,
		WalkoverWinWeight:  DefaultWalkoverWinWeight,
	}
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.InitialRating == 0 {
		cfg.InitialRating = def.InitialRating
	}
	if cfg.KProvisional == 0 {
		cfg.KProvisional = def.KProvisional
	}
	if cfg.KStable == 0 {
		cfg.KStable = def.KStable
	}
	if cfg.ProvisionalMatches == 0 {
		cfg.ProvisionalMatches = def.ProvisionalMatches
	}
	if cfg.WalkoverWinWeight == 0 {
		cfg.WalkoverWinWeight = def.WalkoverWinWeight
	}
	return &Engine{cfg: cfg}
}

// InitialRating seeds a rating for a player never rated in this
// discipline. New players are never an error.
func (e *Engine) InitialRating(playerID string, discipline models.Discipline) models.Rating {
	return models.Rating{
		PlayerID:   playerID,
		Discipline: discipline,
		Value:      e.cfg.InitialRating,
		MatchCount: 0,
	}
}

// Expected returns the logistic expected score of a rating against an
// opponent rating.
func Expected(rating, opponent float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (opponent-rating)/deviation))
}

func (e *Engine) kFor(matchCount float64) float64 {
	if matchCount < e.cfg.ProvisionalMatches {
		return e.cfg.KProvisional
	}
	return e.cfg.KStable
}

func sideValue(side []models.Rating) float64 {
	sum := 0.0
	for _, r := range side {
		sum += r.Value
	}
	return sum / float64(len(side))
}

func sideMatchCount(side []models.Rating) float64 {
	sum := 0.0
	for _, r := range side {
		sum += r.MatchCount
	}
	return sum / float64(len(side))
}

// UpdateMatch computes new ratings for both sides of a completed match.
// winnerSide is 0 for sideA, 1 for sideB. Retirements exchange rating
// exactly like normal wins. A walkover also exchanges the full rating
// but credits the recipient a reduced match-count weight.
func (e *Engine) UpdateMatch(sideA, sideB []models.Rating, winnerSide int, outcome models.MatchOutcome) ([]models.Rating, []models.RatingDelta, error) {
	if len(sideA) == 0 || len(sideB) == 0 {
		return nil, nil, ErrEmptySide
	}

	valueA := sideValue(sideA)
	valueB := sideValue(sideB)
	expectedA := Expected(valueA, valueB)
	expectedB := 1 - expectedA

	scoreA, scoreB := 1.0, 0.0
	if winnerSide == 1 {
		scoreA, scoreB = 0.0, 1.0
	}

	// The side's mean match count picks the K for the shared delta, so
	// both partners of a doubles pairing move together.
	deltaA := e.kFor(sideMatchCount(sideA)) * (scoreA - expectedA)
	deltaB := e.kFor(sideMatchCount(sideB)) * (scoreB - expectedB)

	weightA, weightB := 1.0, 1.0
	if outcome == models.OutcomeWalkover {
		if winnerSide == 0 {
			weightA = e.cfg.WalkoverWinWeight
		} else {
			weightB = e.cfg.WalkoverWinWeight
		}
	}

	updated := make([]models.Rating, 0, len(sideA)+len(sideB))
	deltas := make([]models.RatingDelta, 0, len(sideA)+len(sideB))
	apply := func(side []models.Rating, delta, weight float64) {
		for _, r := range side {
			next := r
			next.Value = r.Value + delta
			next.MatchCount = r.MatchCount + weight
			updated = append(updated, next)
			deltas = append(deltas, models.RatingDelta{
				PlayerID:   r.PlayerID,
				Discipline: r.Discipline,
				OldValue:   r.Value,
				NewValue:   next.Value,
				Delta:      delta,
			})
		}
	}
	apply(sideA, deltaA, weightA)
	apply(sideB, deltaB, weightB)

	return updated, deltas, nil
}
