package services

import (
	"context"

	"bloglist/internal/models"
	"bloglist/internal/stats"
)

// EventPublisher announces blog changes to other systems.
type EventPublisher interface {
	PublishBlogEvent(ctx context.Context, event models.BlogEvent) error
}

// StatsCache stores the last computed statistics. A miss is reported with
// ok == false and a nil error. Set only takes effect for Get while no
// Invalidate happened after the generation it was given was read.
type StatsCache interface {
	Get(ctx context.Context) (summary stats.Summary, ok bool, err error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, generation int64, summary stats.Summary) error
	Invalidate(ctx context.Context) error
}
