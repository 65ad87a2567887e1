package service

import (
	"context"
	"time"

	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/deppfellow/robotics-club/internal/lib/auth"
	"github.com/deppfellow/robotics-club/internal/lib/job"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type userRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	FindConflict(ctx context.Context, username, email string, exclude uuid.UUID) (*model.User, error)
	FirstAdmin(ctx context.Context) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, username, email, picture *string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var errInvalidCredentials = errs.NewUnauthorizedError("Invalid credentials", true)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// ProfilePatch updates the caller's own profile. ProfilePicture is the URL
// of an already processed upload.
type ProfilePatch struct {
	Username       *string
	Email          *string
	ProfilePicture *string
}

type AuthService struct {
	users  userRepository
	tokens *auth.TokenManager
	jobs   Enqueuer
	files  fileJanitor
	logger *zerolog.Logger
	now    func() time.Time

	checkPassword func(hash, password string) bool
}

func NewAuthService(users userRepository, tokens *auth.TokenManager, jobs Enqueuer, logger *zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		jobs:   jobs,
		files:  fileJanitor{jobs: jobs, logger: logger},
		logger: logger,
		now:    time.Now,

		checkPassword: auth.CheckPassword,
	}
}

// Register creates a Member account and returns it with a token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.AuthResponse, error) {
	if err := s.ensureAvailable(ctx, in.Username, in.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleMember,
	})
	if err != nil {
		return nil, err
	}

	s.enqueue(job.NewWelcomeEmailTask(user.Email, user.Username))

	return s.respond(user)
}

// Login accepts either the email or the username.
func (s *AuthService) Login(ctx context.Context, login, password string) (*model.AuthResponse, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if sqlerr.IsNotFound(err) {
			s.checkPassword(auth.DummyHash(), password)
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !s.checkPassword(user.PasswordHash, password) {
		return nil, errInvalidCredentials
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to record last login")
	} else {
		user.LastLoginAt = &now
	}

	return s.respond(user)
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	return s.users.GetByID(ctx, id)
}

func (s *AuthService) ChangePassword(ctx context.Context, user *model.User, current, next string) error {
	if !auth.CheckPassword(user.PasswordHash, current) {
		return errs.NewUnauthorizedError("Current password is incorrect", true)
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.enqueue(job.NewPasswordChangedTask(user.Email, user.Username, s.now()))
	return nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, patch ProfilePatch) (*model.User, error) {
	if patch.Username != nil || patch.Email != nil {
		username, email := user.Username, user.Email
		set(&username, patch.Username)
		set(&email, patch.Email)
		if err := s.ensureAvailable(ctx, username, email, user.ID); err != nil {
			return nil, err
		}
	}

	updated, err := s.users.UpdateProfile(ctx, user.ID, patch.Username, patch.Email, patch.ProfilePicture)
	if err != nil {
		return nil, notFound(err, "User not found")
	}

	s.files.cleanup(replaced(user.ProfilePicture, patch.ProfilePicture)...)
	return updated, nil
}

func (s *AuthService) ensureAvailable(ctx context.Context, username, email string, exclude uuid.UUID) error {
	existing, err := s.users.FindConflict(ctx, username, email, exclude)
	if err != nil {
		if sqlerr.IsNotFound(err) {
			return nil
		}
		return err
	}

	if existing != nil {
		return errs.NewBadRequestError("User already exists", true, nil, nil, nil)
	}
	return nil
}

func (s *AuthService) respond(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) enqueue(task *asynq.Task, err error) {
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create email task")
		return
	}
	if s.jobs == nil {
		return
	}
	if _, err := s.jobs.Enqueue(task); err != nil {
		s.logger.Warn().Err(errors.WithStack(err)).Str("task", task.Type()).Msg("failed to enqueue email task")
	}
}
