package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bpaddle/competition-engine/repositories"
	"github.com/go-co-op/gocron/v2"
)

// SeasonService periodically closes finished regular seasons: any
// league past its season end still in regular play gets its playoff
// bracket created from the final ranking.
type SeasonService struct {
	repo      repositories.Repository
	standings StandingsService
	logger    *slog.Logger
	interval  time.Duration
	scheduler gocron.Scheduler
}

func NewSeasonService(repo repositories.Repository, standingsSvc StandingsService, interval time.Duration, logger *slog.Logger) *SeasonService {
	return &SeasonService{
		repo:      repo,
		standings: standingsSvc,
		logger:    logger,
		interval:  interval,
	}
}

func (s *SeasonService) Start() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.scheduler = scheduler

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sweep),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	s.logger.Info("season sweeper started", slog.Duration("interval", s.interval))
	return nil
}

func (s *SeasonService) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}

func (s *SeasonService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	leagues, err := s.repo.ListEndedRegularLeagues(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("season sweep failed to list leagues", slog.Any("error", err))
		return
	}

	for _, league := range leagues {
		tournament, err := s.standings.QualifyPlayoffs(ctx, league.ID)
		switch {
		case err == nil:
			s.logger.Info("season closed into playoffs",
				slog.String("league_id", league.ID),
				slog.String("tournament_id", tournament.ID))
		case errors.Is(err, ErrSeasonNotRegular), errors.Is(err, ErrConcurrentUpdateConflict):
			// Someone else already closed it; the next sweep will skip it.
			s.logger.Debug("league already transitioned", slog.String("league_id", league.ID))
		default:
			s.logger.Error("playoff qualification failed",
				slog.String("league_id", league.ID), slog.Any("error", err))
		}
	}
}
