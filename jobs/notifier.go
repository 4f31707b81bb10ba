package jobs

import (
	"context"

	"github.com/foliohq/folio/internal/messages"
)

// MessageNotifier adapts the Asynq client to the messages.Notifier port.
type MessageNotifier struct {
	client   *Client
	notifyTo string
}

// NewMessageNotifier constructs a notifier that enqueues a task per new
// contact message.
func NewMessageNotifier(client *Client, notifyTo string) *MessageNotifier {
	return &MessageNotifier{client: client, notifyTo: notifyTo}
}

// MessageReceived enqueues the notification task.
func (n *MessageNotifier) MessageReceived(ctx context.Context, m messages.Message) error {
	_, err := n.client.EnqueueMessageReceived(ctx, MessageReceivedPayload{
		MessageID: m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		NotifyTo:  n.notifyTo,
	})
	return err
}

var _ messages.Notifier = (*MessageNotifier)(nil)
