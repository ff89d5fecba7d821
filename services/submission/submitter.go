package submission

import (
	"context"
	"fmt"
	"time"

	"ecitizen/models"
	"ecitizen/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Submitter hands a completed booking to whatever finishes it on the portal.
type Submitter interface {
	Submit(ctx context.Context, sessionID string, record models.BookingRecord) error
}

// AsynqSubmitter enqueues booking:submit tasks for the submission worker.
type AsynqSubmitter struct {
	client *asynq.Client
	logger *zap.Logger
	now    func() time.Time
}

func NewAsynqSubmitter(client *asynq.Client, logger *zap.Logger) *AsynqSubmitter {
	return &AsynqSubmitter{client: client, logger: logger, now: time.Now}
}

func (s *AsynqSubmitter) Submit(ctx context.Context, sessionID string, record models.BookingRecord) error {
	task, opts, err := tasks.NewSubmitBookingTask(models.SubmissionPayload{
		SessionID:   sessionID,
		Record:      record,
		CompletedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to build submission task: %w", err)
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue submission: %w", err)
	}
	s.logger.Info("Booking submission enqueued",
		zap.String("sessionId", sessionID),
		zap.String("service", string(record.ServiceType)),
		zap.String("taskId", info.ID),
		zap.String("queue", info.Queue),
	)
	return nil
}

// LogSubmitter builds the portal hand-off in process and logs it. Used when no
// queue is configured.
type LogSubmitter struct {
	handoffs *HandoffBuilder
	logger   *zap.Logger
	now      func() time.Time
}

func NewLogSubmitter(handoffs *HandoffBuilder, logger *zap.Logger) *LogSubmitter {
	return &LogSubmitter{handoffs: handoffs, logger: logger, now: time.Now}
}

func (s *LogSubmitter) Submit(ctx context.Context, sessionID string, record models.BookingRecord) error {
	handoff, err := s.handoffs.Build(models.SubmissionPayload{
		SessionID:   sessionID,
		Record:      record,
		CompletedAt: s.now().UTC(),
	})
	if err != nil {
		return err
	}
	s.logger.Info("Booking ready for portal",
		zap.String("sessionId", handoff.SessionID),
		zap.String("service", string(handoff.ServiceType)),
		zap.String("portalUrl", handoff.PortalURL),
	)
	return nil
}
