package segmentrun

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow is the nightly maintenance pass: provision daily game codes
// for every venue, then recompute RFM segments. Code provisioning runs
// first so an early guest never races an unseeded code row.
func Workflow(ctx workflow.Context) error {
	log := workflow.GetLogger(ctx)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    2 * time.Minute,
			MaximumAttempts:    5,
		},
	})

	var codes ProvisionResult
	if err := workflow.ExecuteActivity(ctx, ActivityProvisionCodes).Get(ctx, &codes); err != nil {
		return err
	}
	log.Info("Daily codes provisioned", "date", codes.Date, "fresh", codes.FreshCodes)

	var recompute RecomputeResult
	if err := workflow.ExecuteActivity(ctx, ActivityRecomputeAll).Get(ctx, &recompute); err != nil {
		return err
	}
	log.Info("Segment recompute finished", "venues", recompute.Venues, "failed", recompute.Failed)
	return nil
}
