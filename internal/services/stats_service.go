package services

import (
	"context"

	"go.uber.org/zap"

	"bloglist/internal/apperror"
	"bloglist/internal/repositories"
	"bloglist/internal/stats"
)

// StatsService computes statistics over all stored blogs.
type StatsService struct {
	repo  repositories.BlogRepository
	cache StatsCache
	log   *zap.Logger
}

// NewStatsService creates a new StatsService. cache may be nil.
func NewStatsService(repo repositories.BlogRepository, cache StatsCache, log *zap.Logger) *StatsService {
	return &StatsService{repo: repo, cache: cache, log: log}
}

// Summary returns the statistics of all blogs, from the cache when possible.
func (s *StatsService) Summary(ctx context.Context) (stats.Summary, error) {
	var (
		generation int64
		store      bool
	)
	if s.cache != nil {
		summary, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn("failed to read stats cache", zap.Error(err))
		} else if ok {
			return summary, nil
		}

		// The generation is read before the blogs so that a write landing in
		// between retires the summary computed here.
		if generation, err = s.cache.Generation(ctx); err != nil {
			s.log.Warn("failed to read stats cache generation", zap.Error(err))
		} else {
			store = true
		}
	}

	blogs, err := s.repo.GetAll(ctx)
	if err != nil {
		return stats.Summary{}, apperror.Internal("failed to load blogs for statistics", err)
	}
	summary := stats.Summarize(blogs)

	if store {
		if err := s.cache.Set(ctx, generation, summary); err != nil {
			s.log.Warn("failed to write stats cache", zap.Error(err))
		}
	}
	return summary, nil
}
