package segmentrun

import (
	"context"
	"fmt"
	"time"

	"github.com/venuepoint/loyalty-backend/internal/observability"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
	"github.com/venuepoint/loyalty-backend/internal/services"

	"go.temporal.io/sdk/activity"
)

type Activities struct {
	Log          *logger.Logger
	Segmentation services.SegmentationService
	DailyCodes   services.DailyCodeService
}

func (a *Activities) RecomputeAll(ctx context.Context) (RecomputeResult, error) {
	var res RecomputeResult
	if a == nil || a.Segmentation == nil {
		return res, fmt.Errorf("segmentrun: recompute activity not configured")
	}

	stop := startHeartbeat(ctx)
	defer stop()

	started := time.Now()
	stats, err := a.Segmentation.RecomputeAll(ctx)
	if err != nil {
		observability.Current().ObserveActivity(ActivityRecomputeAll, "error", time.Since(started))
		return res, err
	}
	observability.Current().ObserveActivity(ActivityRecomputeAll, "ok", time.Since(started))
	res.Venues = stats.Venues
	res.Failed = stats.Failed
	return res, nil
}

func (a *Activities) ProvisionCodes(ctx context.Context) (ProvisionResult, error) {
	var res ProvisionResult
	if a == nil || a.DailyCodes == nil {
		return res, fmt.Errorf("segmentrun: provision activity not configured")
	}

	stop := startHeartbeat(ctx)
	defer stop()

	started := time.Now()
	today := started.UTC()
	fresh, err := a.DailyCodes.ProvisionAll(ctx, today)
	if err != nil {
		observability.Current().ObserveActivity(ActivityProvisionCodes, "error", time.Since(started))
		return res, err
	}
	observability.Current().ObserveActivity(ActivityProvisionCodes, "ok", time.Since(started))
	res.Date = today.Format("2006-01-02")
	res.FreshCodes = fresh
	return res, nil
}

func startHeartbeat(ctx context.Context) func() {
	done := make(chan struct{})
	go func() {
		hb := time.NewTicker(10 * time.Second)
		defer hb.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-hb.C:
				activity.RecordHeartbeat(ctx)
			}
		}
	}()
	return func() { close(done) }
}
