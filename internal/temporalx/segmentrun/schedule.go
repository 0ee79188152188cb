package segmentrun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/venuepoint/loyalty-backend/internal/platform/logger"

	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"
)

// EnsureSchedule starts the nightly cron workflow if it is not already
// running. Safe to call on every server boot.
func EnsureSchedule(ctx context.Context, c temporalsdkclient.Client, taskQueue string, log *logger.Logger) error {
	if c == nil {
		return nil
	}

	schedule := strings.TrimSpace(os.Getenv("NIGHTLY_CRON_SCHEDULE"))
	if schedule == "" {
		schedule = DefaultCronSchedule
	}

	_, err := c.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:           WorkflowID,
		TaskQueue:    taskQueue,
		CronSchedule: schedule,
	}, WorkflowName)
	if err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &already) {
			return nil
		}
		return fmt.Errorf("segmentrun: start cron workflow: %w", err)
	}

	if log != nil {
		log.Info("Nightly maintenance cron scheduled", "workflow_id", WorkflowID, "schedule", schedule)
	}
	return nil
}
