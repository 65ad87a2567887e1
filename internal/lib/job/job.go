// Package job provides background job processing using Asynq.
//
// Producers enqueue tasks through JobService.Client; the embedded
// asynq.Server runs the handlers for emails and upload cleanup.
package job

import (
	"context"

	"github.com/deppfellow/robotics-club/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Queues, by worker share. Security mail goes first, file cleanup last.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

const workerConcurrency = 10

type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	logger *zerolog.Logger

	mailer mailer
	files  fileRemover
}

// NewJobService creates the Asynq client and server. Handlers send mail
// through m and delete files through files.
func NewJobService(logger *zerolog.Logger, cfg *config.Config, m mailer, files fileRemover) *JobService {
	redis := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	j := &JobService{
		Client: asynq.NewClient(redis),
		logger: logger,
		mailer: m,
		files:  files,
	}

	j.server = asynq.NewServer(redis, asynq.Config{
		Concurrency: workerConcurrency,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
			QueueLow:      1,
		},
		Logger:       newAsynqLogger(logger),
		ErrorHandler: asynq.ErrorHandlerFunc(j.reportFailure),
	})

	return j
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	mux.HandleFunc(TaskPasswordChanged, j.handlePasswordChangedTask)
	mux.HandleFunc(TaskUploadCleanup, j.handleUploadCleanupTask)
	return mux
}

// reportFailure logs every failed attempt with its retry position.
func (j *JobService) reportFailure(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	taskID, _ := asynq.GetTaskID(ctx)

	event := j.logger.Warn()
	if retried >= maxRetry {
		event = j.logger.Error()
	}
	event.Err(err).
		Str("type", task.Type()).
		Str("task_id", taskID).
		Int("retried", retried).
		Int("max_retry", maxRetry).
		Msg("background task failed")
}

// Start runs the workers in the background.
func (j *JobService) Start() error {
	j.logger.Info().Int("concurrency", workerConcurrency).Msg("starting background job server")
	return j.server.Start(j.mux())
}

func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}
