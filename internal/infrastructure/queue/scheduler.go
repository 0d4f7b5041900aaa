package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"lovewall-backend/internal/shared"
)

// Scheduler wraps asynq's cron scheduler and owns the recurring jobs.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr, redisPassword string, redisDB int) *Scheduler {
	return &Scheduler{
		scheduler: asynq.NewScheduler(
			asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB},
			&asynq.SchedulerOpts{
				Location: time.UTC,
				LogLevel: asynq.InfoLevel,
			},
		),
	}
}

// RegisterJobs wires every recurring job.
func (s *Scheduler) RegisterJobs() error {
	return s.registerPurgeRejectedJob()
}

// Purge rejected submissions daily at 03:00 UTC, off peak.
func (s *Scheduler) registerPurgeRejectedJob() error {
	payload, err := json.Marshal(shared.PurgeRejectedPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypePurgeRejected, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *",
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to register purge job: %w", err)
	}

	log.Info().Msg("Registered purge job: daily at 03:00 UTC")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
