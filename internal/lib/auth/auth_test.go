package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, "robotics-club")
	id := uuid.New()

	token, err := m.Issue(id, "Editor")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "Editor", claims.Role)

	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseExpired(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, "robotics-club")
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.Issue(uuid.New(), "Member")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseRejectsOtherSecret(t *testing.T) {
	token, err := NewTokenManager(testSecret, time.Hour, "robotics-club").Issue(uuid.New(), "Admin")
	require.NoError(t, err)

	_, err = NewTokenManager(strings.Repeat("x", 32), time.Hour, "robotics-club").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "robotics-club",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, time.Hour, "robotics-club").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager(testSecret, time.Hour, "robotics-club").Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}

func TestDummyHashCostsLikeARealHash(t *testing.T) {
	cost, err := bcrypt.Cost([]byte(DummyHash()))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)

	assert.Equal(t, DummyHash(), DummyHash())
	assert.False(t, CheckPassword(DummyHash(), ""))
}

func TestGeneratePassword(t *testing.T) {
	p, err := GeneratePassword(16)
	require.NoError(t, err)
	assert.Len(t, p, 16)

	short, err := GeneratePassword(2)
	require.NoError(t, err)
	assert.Len(t, short, MinPasswordLength)
}
