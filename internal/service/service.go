// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives validated
// data from the handler, enforces ownership rules, performs business
// operations and calls repository methods to interact with the data.
//
// Repositories are consumed through small interfaces declared next to each
// service so tests can substitute in-memory implementations.
package service

import (
	"slices"
	"strings"

	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/deppfellow/robotics-club/internal/lib/job"
	"github.com/deppfellow/robotics-club/internal/lib/upload"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Actor is the authenticated user performing a write.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

func ActorFrom(u *model.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// CanModify reports whether the actor may change a row created by owner.
// Admins may change anything; editors only their own rows.
func (a Actor) CanModify(owner *uuid.UUID) bool {
	switch a.Role {
	case model.RoleAdmin:
		return true
	case model.RoleEditor:
		return owner != nil && *owner == a.ID
	default:
		return false
	}
}

func (a Actor) ref() *uuid.UUID {
	id := a.ID
	return &id
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// fileJanitor schedules deletion of upload files no longer referenced.
// Failures are logged: a stray file is not worth failing the request over.
type fileJanitor struct {
	jobs   Enqueuer
	logger *zerolog.Logger
}

func (f fileJanitor) cleanup(urls ...string) {
	var local []string
	for _, u := range urls {
		if strings.HasPrefix(u, upload.URLPrefix) {
			local = append(local, u)
		}
	}
	if len(local) == 0 || f.jobs == nil {
		return
	}

	task, err := job.NewUploadCleanupTask(local...)
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to create upload cleanup task")
		return
	}

	if _, err := f.jobs.Enqueue(task); err != nil {
		f.logger.Warn().Err(err).Strs("urls", local).Msg("failed to enqueue upload cleanup")
	}
}

// Uploads lists the URLs of files stored while handling the current
// request. A row may point at a local upload only when the URL is one of
// these or is already the row's value.
type Uploads []string

func (u Uploads) check(field, current string, next *string) error {
	if next == nil || *next == current || !strings.HasPrefix(*next, upload.URLPrefix) || slices.Contains(u, *next) {
		return nil
	}
	return errs.NewBadRequestError("Invalid "+field, true, nil,
		[]errs.FieldError{{Field: field, Error: "must be a file uploaded with this request"}}, nil)
}

// replaced returns old when next replaces it with a different value.
func replaced(old string, next *string) []string {
	if next == nil || *next == old || old == "" {
		return nil
	}
	return []string{old}
}

// notFound turns a missing row into a 404 with message.
func notFound(err error, message string) error {
	if sqlerr.IsNotFound(err) {
		return errs.NewNotFoundError(message, true, nil)
	}
	return err
}

func forbidden(entity string) error {
	return errs.NewForbiddenError("Not authorized to modify this "+entity, true)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
