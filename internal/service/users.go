package service

import (
	"context"

	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/deppfellow/robotics-club/internal/lib/auth"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserService is the admin-only account management.
type UserService struct {
	users userRepository
	files fileJanitor
}

func NewUserService(users userRepository, jobs Enqueuer, logger *zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		files: fileJanitor{jobs: jobs, logger: logger},
	}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) UpdateRole(ctx context.Context, actor Actor, id uuid.UUID, role model.Role) (*model.User, error) {
	if !role.IsValid() {
		return nil, errs.NewBadRequestError("Invalid role", true, nil, nil, nil)
	}
	if id == actor.ID && role != actor.Role {
		return nil, errs.NewBadRequestError("You cannot change your own role", true, nil, nil, nil)
	}

	user, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if id == actor.ID {
		return errs.NewBadRequestError("You cannot delete your own account", true, nil, nil, nil)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "User not found")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return notFound(err, "User not found")
	}

	s.files.cleanup(user.ProfilePicture)
	return nil
}

// SeedAdmin creates the first Admin account. When an Admin already exists
// it is returned with created false and nothing is written.
func (s *UserService) SeedAdmin(ctx context.Context, username, email, password string) (user *model.User, created bool, err error) {
	existing, err := s.users.FirstAdmin(ctx)
	if err == nil {
		return existing, false, nil
	}
	if !sqlerr.IsNotFound(err) {
		return nil, false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	user, err = s.users.Create(ctx, &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return nil, false, err
	}

	return user, true, nil
}
