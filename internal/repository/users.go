package repository

import (
	"context"
	"time"

	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const usersTable = "users"

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(s *server.Server) *UserRepository {
	return &UserRepository{db: s.DB.Pool}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	stmt := `
		INSERT INTO users (username, email, password_hash, role, profile_picture)
		VALUES (@username, @email, @password_hash, @role, @profile_picture)
		RETURNING *`

	return collectOne[model.User](ctx, r.db, usersTable, stmt, pgx.NamedArgs{
		"username":        u.Username,
		"email":           u.Email,
		"password_hash":   u.PasswordHash,
		"role":            u.Role,
		"profile_picture": u.ProfilePicture,
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return collectOne[model.User](ctx, r.db, usersTable, `SELECT * FROM users WHERE id = $1`, id)
}

// GetByLogin finds a user by email or username, case-insensitively.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	stmt := `SELECT * FROM users WHERE lower(email) = lower($1) OR lower(username) = lower($1) LIMIT 1`
	return collectOne[model.User](ctx, r.db, usersTable, stmt, login)
}

// FindConflict returns a user other than exclude holding the username or
// email. uuid.Nil excludes nobody.
func (r *UserRepository) FindConflict(ctx context.Context, username, email string, exclude uuid.UUID) (*model.User, error) {
	stmt := `
		SELECT * FROM users
		WHERE (lower(username) = lower(@username) OR lower(email) = lower(@email))
		  AND id <> @exclude
		LIMIT 1`

	return collectOne[model.User](ctx, r.db, usersTable, stmt, pgx.NamedArgs{
		"username": username,
		"email":    email,
		"exclude":  exclude,
	})
}

// FirstAdmin returns the oldest Admin account.
func (r *UserRepository) FirstAdmin(ctx context.Context) (*model.User, error) {
	stmt := `SELECT * FROM users WHERE role = $1 ORDER BY created_at ASC LIMIT 1`
	return collectOne[model.User](ctx, r.db, usersTable, stmt, model.RoleAdmin)
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	return collectMany[model.User](ctx, r.db, usersTable, `SELECT * FROM users ORDER BY created_at DESC`)
}

// UpdateProfile sets only the non-nil fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, username, email, picture *string) (*model.User, error) {
	stmt := `
		UPDATE users SET
			username = COALESCE(@username, username),
			email = COALESCE(@email, email),
			profile_picture = COALESCE(@profile_picture, profile_picture)
		WHERE id = @id
		RETURNING *`

	return collectOne[model.User](ctx, r.db, usersTable, stmt, pgx.NamedArgs{
		"id":              id,
		"username":        username,
		"email":           email,
		"profile_picture": picture,
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := collectOne[model.User](ctx, r.db, usersTable,
		`UPDATE users SET password_hash = $2 WHERE id = $1 RETURNING *`, id, hash)
	return err
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	return collectOne[model.User](ctx, r.db, usersTable,
		`UPDATE users SET role = $2 WHERE id = $1 RETURNING *`, id, role)
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, usersTable, id)
}
