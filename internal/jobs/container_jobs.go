package jobs

import (
	"context"
	"time"

	"drc-backend/internal/logger"
)

// SendOverdueReminders notifies holders of containers past their due date.
// Status is never rewritten here; LATE is derived at read time, so this job
// only reads and fans out notifications.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		grace := time.Duration(jr.config.Policy.GracePeriodHours) * time.Hour

		overdue, err := jr.store.ListOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue containers", "error", err)
			return
		}

		sent := 0
		for i := range overdue {
			c := &overdue[i]
			if c.CurrentHolder == nil || c.DueAt == nil {
				logger.Error("Overdue container missing holder or due date", "container", c.ContainerID)
				continue
			}
			// Inside the grace window the app shows LATE but we hold off
			// on the nagging email.
			if time.Since(*c.DueAt) < grace {
				continue
			}
			user, err := jr.store.GetByNetID(ctx, *c.CurrentHolder)
			if err != nil {
				logger.Error("Failed to load overdue holder", "container", c.ContainerID, "error", err)
				continue
			}
			jr.services.Notification.NotifyOverdue(ctx, user, c)
			sent++
		}

		logger.Info("Sent overdue reminders", "overdue", len(overdue), "notified", sent)
	})
}

// SweepPendingCheckouts drops checkout contexts that never saw their
// container scan.
func (jr *JobRunner) SweepPendingCheckouts() {
	jr.runWithRecovery("SweepPendingCheckouts", func() {
		jr.services.Transaction.SweepExpiredPending(context.Background())
	})
}
