package scheduler

import (
	"context"
	"datachat-resultview/config"
	"datachat-resultview/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// NewScheduler evicts idle result views on cfg.Result.EvictionSchedule.
func NewScheduler(lc fx.Lifecycle, cfg *config.Config, resultSvc service.ResultService) (*cron.Cron, error) {
	c, err := newEvictionCron(cfg.Result.EvictionSchedule, resultSvc)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("Starting cron scheduler")
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping cron scheduler...")
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
				log.Info().Msg("Cron scheduler stopped gracefully.")
				return nil
			case <-ctx.Done():
				log.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
				return ctx.Err()
			}
		},
	})

	return c, nil
}

func newEvictionCron(schedule string, resultSvc service.ResultService) (*cron.Cron, error) {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional | cron.Descriptor)
	c := cron.New(cron.WithParser(parser))

	_, err := c.AddFunc(schedule, func() {
		if n := resultSvc.EvictIdle(context.Background()); n > 0 {
			log.Info().Int("evicted", n).Msg("Scheduled eviction finished")
		}
	})
	if err != nil {
		log.Error().Err(err).Str("schedule", schedule).Msg("Failed to add cron job")
		return nil, err
	}
	log.Info().Str("schedule", schedule).Msg("Scheduled result view eviction job")
	return c, nil
}
