package scheduler

import (
	"context"
	"fmt"
	"time"

	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Reminder records that an appointment reminder fired for a lead.
type Reminder interface {
	RecordAppointmentReminder(ctx context.Context, leadID uuid.UUID, appointmentAt time.Time) (bool, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	reminder Reminder
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reminder Reminder, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(reminder, log)
	w.server = server
	return w, nil
}

func newWorker(reminder Reminder, log *logger.Logger) *Worker {
	w := &Worker{
		mux:      asynq.NewServeMux(),
		reminder: reminder,
		log:      log,
	}
	w.mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	recorded, err := w.reminder.RecordAppointmentReminder(ctx, leadID, payload.AppointmentAt)
	if err != nil {
		return err
	}
	if !recorded {
		w.log.Info("stale appointment reminder skipped", "leadId", leadID, "appointmentAt", payload.AppointmentAt)
		return nil
	}

	w.log.Info("appointment reminder recorded", "leadId", leadID, "appointmentAt", payload.AppointmentAt)
	return nil
}
