package scheduler

import (
	"context"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/platform/logger"
)

// SubscribeReminders enqueues a reminder for every scheduled appointment,
// leadTime before it starts or right away when that moment has passed.
func SubscribeReminders(bus events.Bus, sched ReminderScheduler, leadTime time.Duration, log *logger.Logger) {
	SubscribeRemindersWithClock(bus, sched, leadTime, log, time.Now)
}

func SubscribeRemindersWithClock(bus events.Bus, sched ReminderScheduler, leadTime time.Duration, log *logger.Logger, now func() time.Time) {
	if bus == nil || sched == nil {
		return
	}

	events.On(bus, func(ctx context.Context, e events.AppointmentScheduled) error {
		runAt := e.AppointmentAt.Add(-leadTime)
		if current := now(); runAt.Before(current) {
			runAt = current
		}

		payload := AppointmentReminderPayload{LeadID: e.LeadID.String(), AppointmentAt: e.AppointmentAt}
		if err := sched.ScheduleAppointmentReminder(ctx, payload, runAt); err != nil {
			log.Error("failed to schedule appointment reminder", "error", err, "leadId", e.LeadID)
			return err
		}
		return nil
	})
}
