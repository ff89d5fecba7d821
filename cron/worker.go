package cron

import (
	"context"
	"fmt"
	"time"

	"ecitizen/config"
	"ecitizen/services/submission"
	"ecitizen/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitSubmissionWorker runs the booking hand-off worker in background and
// returns the server so the caller can shut it down.
func InitSubmissionWorker(handoffs *submission.HandoffBuilder, logger *zap.Logger) *asynq.Server {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	concurrency := config.AppConfig.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				tasks.QueueSubmissions: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSubmitBooking, handleSubmitBookingTask(handoffs, logger))

	// Start Redis health monitor
	go monitorRedisConnection(logger)

	// Start async worker with retry logic
	go func() {
		logger.Info("[SubmissionWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("[SubmissionWorker] Failed to start worker",
					zap.Int("attempt", attempts),
					zap.Int("maxAttempts", maxAttempts),
					zap.Error(err),
				)
				if attempts == maxAttempts {
					logger.Fatal("[SubmissionWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
	return srv
}

func handleSubmitBookingTask(handoffs *submission.HandoffBuilder, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseSubmitBookingTask(task)
		if err != nil {
			logger.Error("[SubmissionHandler] Invalid payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		handoff, err := handoffs.Build(p)
		if err != nil {
			logger.Error("[SubmissionHandler] Cannot hand off booking",
				zap.String("sessionId", p.SessionID),
				zap.Error(err),
			)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		logger.Info("[SubmissionHandler] Booking ready for portal",
			zap.String("sessionId", handoff.SessionID),
			zap.String("service", string(handoff.ServiceType)),
			zap.String("department", handoff.Department),
			zap.String("portalUrl", handoff.PortalURL),
			zap.Time("completedAt", p.CompletedAt),
		)
		return nil
	}
}

// monitorRedisConnection pings the queue Redis periodically to detect failures at runtime.
func monitorRedisConnection(logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("[SubmissionWorker] Redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
