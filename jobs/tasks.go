package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeMessageReceived is the task type for notifying the site owner
	// about a new contact message.
	TaskTypeMessageReceived = "message:received"
)

// MessageReceivedPayload describes a new contact message notification.
type MessageReceivedPayload struct {
	MessageID string `json:"messageId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	NotifyTo  string `json:"notifyTo"`
}

// NewMessageReceivedTask constructs an Asynq task.
func NewMessageReceivedTask(payload MessageReceivedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeMessageReceived, data), nil
}

// NewMessageReceivedHandler returns the processor for TaskTypeMessageReceived
// tasks. Delivery is a structured log line until SMTP is wired.
func NewMessageReceivedHandler(logger *slog.Logger) asynq.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, t *asynq.Task) error {
		var payload MessageReceivedPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", TaskTypeMessageReceived, asynq.SkipRetry)
		}
		logger.Info("contact message received",
			slog.String("messageId", payload.MessageID),
			slog.String("from", payload.Email),
			slog.String("subject", payload.Subject),
			slog.String("notifyTo", payload.NotifyTo),
		)
		return nil
	}
}
