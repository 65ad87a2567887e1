package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	welcomed []string
	changed  []time.Time
	err      error
}

func (f *fakeMailer) SendWelcomeEmail(to, username string) error {
	f.welcomed = append(f.welcomed, to+"/"+username)
	return f.err
}

func (f *fakeMailer) SendPasswordChangedEmail(to, username string, at time.Time) error {
	f.changed = append(f.changed, at)
	return f.err
}

type fakeRemover struct{ removed []string }

func (f *fakeRemover) Remove(urls ...string) error {
	f.removed = append(f.removed, urls...)
	return nil
}

func newTestService(m mailer, r fileRemover) *JobService {
	logger := zerolog.Nop()
	return &JobService{logger: &logger, mailer: m, files: r}
}

func TestTaskOptions(t *testing.T) {
	task, err := NewWelcomeEmailTask("a@b.c", "ada")
	require.NoError(t, err)
	assert.Equal(t, TaskWelcome, task.Type())

	var p WelcomeEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "ada", p.Username)

	cleanup, err := NewUploadCleanupTask("/uploads/a.jpg", "/uploads/b.pdf")
	require.NoError(t, err)
	assert.Equal(t, TaskUploadCleanup, cleanup.Type())
}

func TestMuxRoutesTasks(t *testing.T) {
	m := &fakeMailer{}
	r := &fakeRemover{}
	mux := newTestService(m, r).mux()
	ctx := context.Background()

	welcome, _ := NewWelcomeEmailTask("a@b.c", "ada")
	require.NoError(t, mux.ProcessTask(ctx, welcome))
	assert.Equal(t, []string{"a@b.c/ada"}, m.welcomed)

	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	changed, _ := NewPasswordChangedTask("a@b.c", "ada", at)
	require.NoError(t, mux.ProcessTask(ctx, changed))
	require.Len(t, m.changed, 1)
	assert.True(t, at.Equal(m.changed[0]))

	cleanup, _ := NewUploadCleanupTask("/uploads/a.jpg")
	require.NoError(t, mux.ProcessTask(ctx, cleanup))
	assert.Equal(t, []string{"/uploads/a.jpg"}, r.removed)
}

func TestMailerErrorIsRetried(t *testing.T) {
	svc := newTestService(&fakeMailer{err: errors.New("smtp down")}, &fakeRemover{})
	task, _ := NewWelcomeEmailTask("a@b.c", "ada")

	err := svc.handleWelcomeEmailTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestMalformedPayloadSkipsRetry(t *testing.T) {
	svc := newTestService(&fakeMailer{}, &fakeRemover{})

	err := svc.handleUploadCleanupTask(context.Background(), asynq.NewTask(TaskUploadCleanup, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
