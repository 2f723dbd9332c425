package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/clock"
	"github.com/codr1/courtgrid/internal/models"
)

const (
	DefaultSweepInterval  = 30 * time.Second
	DefaultSweepBatchSize = 100
	expiryJobName         = "request_expiry"
	expiryJobTimeout      = 50 * time.Second
)

// RequestExpirer lists PENDING requests past their expiry and expires them
// through the same locked path as any other transition.
type RequestExpirer interface {
	ListExpiredRequests(ctx context.Context, now time.Time, limit int) ([]models.Request, error)
	ExpireRequest(ctx context.Context, requestID string) (models.Request, error)
}

// SweepResult summarizes one expiry sweep.
type SweepResult struct {
	Expired int
	Skipped int
	Failed  int
}

// ExpirePendingRequests expires every request due at now, batchSize at a time.
// A request that was answered in the meantime is skipped. A request that fails
// for any other reason stays PENDING and is picked up again on the next sweep.
func ExpirePendingRequests(ctx context.Context, expirer RequestExpirer, now time.Time, batchSize int) (SweepResult, error) {
	var result SweepResult
	if expirer == nil {
		return result, fmt.Errorf("request expiry requires an expirer")
	}
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}

	logger := log.Ctx(ctx)
	for {
		due, err := expirer.ListExpiredRequests(ctx, now, batchSize)
		if err != nil {
			return result, fmt.Errorf("list expired requests: %w", err)
		}

		progressed := 0
		for _, req := range due {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			_, err := expirer.ExpireRequest(ctx, req.ID)
			switch {
			case err == nil:
				result.Expired++
				progressed++
			case errors.Is(err, models.ErrInvalidTransition):
				result.Skipped++
				logger.Debug().Str("request_id", req.ID).Msg("Request resolved before expiry")
			default:
				result.Failed++
				logger.Warn().Err(err).Str("request_id", req.ID).Msg("Failed to expire request")
			}
		}

		if len(due) < batchSize || progressed == 0 {
			return result, nil
		}
	}
}

// RegisterExpiryJob sweeps expired requests every interval.
func RegisterExpiryJob(expirer RequestExpirer, clk clock.Clock, interval time.Duration, batchSize int) error {
	if expirer == nil {
		return fmt.Errorf("expiry job requires an expirer")
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	clk = clock.OrSystem(clk)

	jobLogger := log.With().
		Str("component", "request_expiry_job").
		Str("job_name", expiryJobName).
		Logger()

	_, err := AddIntervalJob(expiryJobName, interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), expiryJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		result, err := ExpirePendingRequests(ctx, expirer, clk.Now(), batchSize)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Request expiry sweep failed; retrying next tick")
			return
		}
		if result.Expired > 0 || result.Failed > 0 {
			jobLogger.Info().
				Int("expired", result.Expired).
				Int("skipped", result.Skipped).
				Int("failed", result.Failed).
				Msg("Request expiry sweep completed")
		}
	})
	return err
}
