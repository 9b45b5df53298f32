package recalculator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/profitshare/internal/domain"
	"github.com/iho/profitshare/internal/usecase"
)

// Recalculator keeps the replayed history warm. It replays on a fixed
// interval and as soon as possible after any invalidation.
type Recalculator struct {
	history     usecase.HistoryProvider
	invalidator usecase.Invalidator
	logger      zerolog.Logger
	interval    time.Duration
	nudge       chan struct{}
}

// Config for Recalculator.
type Config struct {
	History     usecase.HistoryProvider
	Invalidator usecase.Invalidator // optional, forwarded by Invalidate
	Logger      zerolog.Logger
	Interval    time.Duration // Replay interval
}

// New creates a new Recalculator.
func New(cfg Config) *Recalculator {
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Minute
	}

	return &Recalculator{
		history:     cfg.History,
		invalidator: cfg.Invalidator,
		logger:      cfg.Logger,
		interval:    cfg.Interval,
		nudge:       make(chan struct{}, 1),
	}
}

// Start replays history until the context is cancelled.
func (r *Recalculator) Start(ctx context.Context) error {
	r.logger.Info().
		Dur("interval", r.interval).
		Msg("recalculator started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Warm up immediately on start
	r.replay(ctx, "start")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("recalculator shutting down")
			return ctx.Err()
		case <-ticker.C:
			r.replay(ctx, "tick")
		case <-r.nudge:
			r.replay(ctx, "invalidation")
		}
	}
}

// Invalidate forwards to the wrapped invalidator and schedules a replay.
// It satisfies usecase.Invalidator so period mutations can go through it.
func (r *Recalculator) Invalidate(ctx context.Context, from domain.YearMonth) error {
	if r.invalidator != nil {
		if err := r.invalidator.Invalidate(ctx, from); err != nil {
			return err
		}
	}

	select {
	case r.nudge <- struct{}{}:
	default:
		// a replay is already pending
	}

	return nil
}

func (r *Recalculator) replay(ctx context.Context, trigger string) {
	start := time.Now()

	results, err := r.history.History(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error().Err(err).Str("trigger", trigger).Msg("history replay failed")
		return
	}

	r.logger.Debug().
		Str("trigger", trigger).
		Int("periods", len(results)).
		Dur("duration", time.Since(start)).
		Msg("history replayed")
}
