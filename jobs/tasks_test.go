package jobs_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/jobs"
	_ "github.com/foliohq/folio/testing"
)

func TestMessageReceivedTaskRoundTrip(t *testing.T) {
	task, err := jobs.NewMessageReceivedTask(jobs.MessageReceivedPayload{
		MessageID: "m1",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Subject:   "Project inquiry",
		NotifyTo:  "owner@folio.dev",
	})
	require.NoError(t, err)
	require.Equal(t, jobs.TaskTypeMessageReceived, task.Type())

	var buf bytes.Buffer
	handler := jobs.NewMessageReceivedHandler(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, handler(context.Background(), task))
	require.Contains(t, buf.String(), "m1")
	require.Contains(t, buf.String(), "jane@example.com")
}

func TestMessageReceivedHandlerSkipsRetryOnBadPayload(t *testing.T) {
	handler := jobs.NewMessageReceivedHandler(nil)

	err := handler(context.Background(), asynq.NewTask(jobs.TaskTypeMessageReceived, []byte("not json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
