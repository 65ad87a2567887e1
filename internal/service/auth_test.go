package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/robotics-club/internal/lib/auth"
	"github.com/deppfellow/robotics-club/internal/lib/job"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService() (*AuthService, *testutil.Users, *testutil.Queue) {
	users := testutil.NewUsers()
	q := &testutil.Queue{}
	tokens := auth.NewTokenManager("test-secret", time.Hour, "roboclub-test")
	return NewAuthService(users, tokens, q, &nopLogger), users, q
}

func TestRegisterCreatesMember(t *testing.T) {
	svc, users, q := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{Username: "ada", Email: "ada@club.dev", Password: "hunter22"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.RoleMember, resp.Role)
	assert.NotEqual(t, "hunter22", users.All()[0].PasswordHash)
	assert.Equal(t, []string{job.TaskWelcome}, q.Types())

	user, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, user.ID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "ada", Email: "ada@club.dev", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "ADA", Email: "other@club.dev", Password: "hunter22"})
	requireStatus(t, err, http.StatusBadRequest, "User already exists")

	_, err = svc.Register(ctx, RegisterInput{Username: "grace", Email: "ada@club.dev", Password: "hunter22"})
	requireStatus(t, err, http.StatusBadRequest, "User already exists")
}

func TestLogin(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.Register(ctx, RegisterInput{Username: "ada", Email: "ada@club.dev", Password: "hunter22"})
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		resp, err := svc.Login(ctx, "ada@club.dev", "hunter22")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		require.NotNil(t, resp.LastLoginAt)
		assert.Equal(t, now, *resp.LastLoginAt)
	})

	t.Run("by username", func(t *testing.T) {
		_, err := svc.Login(ctx, "ada", "hunter22")
		require.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "ada", "nope")
		requireStatus(t, err, http.StatusUnauthorized, "Invalid credentials")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "hunter22")
		requireStatus(t, err, http.StatusUnauthorized, "Invalid credentials")
	})

	require.NotNil(t, users.All()[0].LastLoginAt)
}

func TestLoginUnknownUserStillComparesHash(t *testing.T) {
	svc, _, _ := newTestAuthService()

	var hashes []string
	svc.checkPassword = func(hash, password string) bool {
		hashes = append(hashes, hash)
		return auth.CheckPassword(hash, password)
	}

	_, err := svc.Login(context.Background(), "nobody@club.dev", "whatever")
	requireStatus(t, err, http.StatusUnauthorized, "Invalid credentials")
	assert.Equal(t, []string{auth.DummyHash()}, hashes)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	svc, users, q := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{Username: "ada", Email: "ada@club.dev", Password: "hunter22"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, resp.User, "wrong", "newpass1")
	requireStatus(t, err, http.StatusUnauthorized, "Current password is incorrect")

	require.NoError(t, svc.ChangePassword(ctx, resp.User, "hunter22", "newpass1"))
	assert.Contains(t, q.Types(), job.TaskPasswordChanged)

	stored := users.All()[0]
	assert.True(t, auth.CheckPassword(stored.PasswordHash, "newpass1"))

	_, err = svc.Login(ctx, "ada", "newpass1")
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, q := newTestAuthService()
	ctx := context.Background()

	ada, err := svc.Register(ctx, RegisterInput{Username: "ada", Email: "ada@club.dev", Password: "hunter22"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Username: "grace", Email: "grace@club.dev", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, ada.User, ProfilePatch{Username: ptr("grace")})
	requireStatus(t, err, http.StatusBadRequest, "User already exists")

	user := *ada.User
	user.ProfilePicture = "/uploads/profiles/old.jpg"
	updated, err := svc.UpdateProfile(ctx, &user, ProfilePatch{
		Username:       ptr("ada"),
		ProfilePicture: ptr("/uploads/profiles/new.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/profiles/new.jpg", updated.ProfilePicture)
	assert.Equal(t, []string{"/uploads/profiles/old.jpg"}, q.CleanedURLs())
}

func TestUserServiceGuardsSelf(t *testing.T) {
	users := testutil.NewUsers()
	svc := NewUserService(users, &testutil.Queue{}, &nopLogger)
	ctx := context.Background()

	admin, err := users.Create(ctx, &model.User{Username: "root", Email: "root@club.dev", Role: model.RoleAdmin})
	require.NoError(t, err)
	actor := ActorFrom(admin)

	_, err = svc.UpdateRole(ctx, actor, admin.ID, model.RoleMember)
	requireStatus(t, err, http.StatusBadRequest, "You cannot change your own role")

	err = svc.Delete(ctx, actor, admin.ID)
	requireStatus(t, err, http.StatusBadRequest, "You cannot delete your own account")

	_, err = svc.UpdateRole(ctx, actor, uuid.New(), model.RoleEditor)
	requireStatus(t, err, http.StatusNotFound, "User not found")

	_, err = svc.UpdateRole(ctx, actor, uuid.New(), model.Role("Owner"))
	requireStatus(t, err, http.StatusBadRequest, "Invalid role")
}

func TestUserServicePromoteAndDelete(t *testing.T) {
	users := testutil.NewUsers()
	q := &testutil.Queue{}
	svc := NewUserService(users, q, &nopLogger)
	ctx := context.Background()

	admin := Actor{ID: uuid.New(), Role: model.RoleAdmin}
	member, err := users.Create(ctx, &model.User{
		Username:       "m",
		Email:          "m@club.dev",
		Role:           model.RoleMember,
		ProfilePicture: "/uploads/profiles/m.jpg",
	})
	require.NoError(t, err)

	promoted, err := svc.UpdateRole(ctx, admin, member.ID, model.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEditor, promoted.Role)

	require.NoError(t, svc.Delete(ctx, admin, member.ID))
	assert.Empty(t, users.All())
	assert.Equal(t, []string{"/uploads/profiles/m.jpg"}, q.CleanedURLs())
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	users := testutil.NewUsers()
	svc := NewUserService(users, nil, &nopLogger)
	ctx := context.Background()

	first, created, err := svc.SeedAdmin(ctx, "admin", "admin@club.dev", "changeme")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.RoleAdmin, first.Role)

	again, created, err := svc.SeedAdmin(ctx, "admin2", "admin2@club.dev", "changeme")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, users.All(), 1)
}
