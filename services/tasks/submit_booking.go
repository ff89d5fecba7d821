package tasks

import (
	"encoding/json"
	"fmt"

	"ecitizen/models"

	"github.com/hibiken/asynq"
)

const TypeSubmitBooking = "booking:submit"

// QueueSubmissions is the asynq queue booking hand-offs are enqueued on.
const QueueSubmissions = "submissions"

func NewSubmitBookingTask(payload models.SubmissionPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSubmitBooking, b)
	opts := []asynq.Option{
		asynq.Queue(QueueSubmissions),
		asynq.MaxRetry(5),
	}

	return task, opts, nil
}

// ParseSubmitBookingTask decodes a task built by NewSubmitBookingTask.
func ParseSubmitBookingTask(t *asynq.Task) (models.SubmissionPayload, error) {
	var payload models.SubmissionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("invalid %s payload: %w", TypeSubmitBooking, err)
	}
	return payload, nil
}
