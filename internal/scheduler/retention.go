package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/clock"
)

const (
	DefaultRetentionCron = "15 3 * * *"
	retentionJobName     = "history_retention"
)

// HistoryPurger deletes closed requests and delivered outbox events.
type HistoryPurger interface {
	PurgeHistory(ctx context.Context, cutoff time.Time) (requests, events int64, err error)
}

// RegisterRetentionJob purges history older than retentionDays on cronExpr.
func RegisterRetentionJob(purger HistoryPurger, clk clock.Clock, cronExpr string, retentionDays int) error {
	if purger == nil {
		return fmt.Errorf("retention job requires a purger")
	}
	if retentionDays <= 0 {
		return fmt.Errorf("retention days must be positive")
	}
	if cronExpr == "" {
		cronExpr = DefaultRetentionCron
	}
	clk = clock.OrSystem(clk)

	jobLogger := log.With().
		Str("component", "history_retention_job").
		Str("job_name", retentionJobName).
		Int("retention_days", retentionDays).
		Logger()

	_, err := AddJob(retentionJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		cutoff := clk.Now().AddDate(0, 0, -retentionDays)
		requests, evts, err := purger.PurgeHistory(ctx, cutoff)
		if err != nil {
			jobLogger.Error().Err(err).Time("cutoff", cutoff).Msg("Failed to purge history")
			return
		}
		jobLogger.Info().
			Time("cutoff", cutoff).
			Int64("requests_purged", requests).
			Int64("events_purged", evts).
			Msg("History purged")
	})
	return err
}
