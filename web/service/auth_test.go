package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/database/model"
)

func newAuthService(t *testing.T) (*AuthService, *UserService, *RevocationService) {
	t.Helper()
	users := NewUserService()
	revoked := NewRevocationService()
	auth := NewAuthService(users, revoked, "test-secret")

	_, err := auth.Register("Ana", "ana@x.org", "Monterrey", true, "secret1")
	require.NoError(t, err)
	return auth, users, revoked
}

func TestLoginIssuesTokenPair(t *testing.T) {
	auth, users, _ := newAuthService(t)

	access, refresh, err := auth.Login("ana@x.org", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	// The refresh token is persisted on the record.
	user, err := users.FindByEmail("ana@x.org")
	require.NoError(t, err)
	assert.Equal(t, refresh, user.RefreshToken)

	claims, err := auth.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, int64(0), claims.UserID)
	assert.Equal(t, "ana@x.org", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID)

	refreshClaims, err := auth.ParseToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, int64(0), refreshClaims.UserID)
	assert.Empty(t, refreshClaims.Email)
	assert.Empty(t, refreshClaims.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	auth, _, _ := newAuthService(t)

	_, _, wrongPassword := auth.Login("ana@x.org", "wrong")
	_, _, unknownUser := auth.Login("nobody@x.org", "secret1")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	auth, _, _ := newAuthService(t)
	other := NewAuthService(NewUserService(), NewRevocationService(), "other-secret")

	access, _, err := auth.Login("ana@x.org", "secret1")
	require.NoError(t, err)

	_, err = other.ParseToken(access)
	assert.Error(t, err)

	_, err = auth.ParseToken(access + "x")
	assert.Error(t, err)
}

func TestLogoutRevokesAndClearsRefreshToken(t *testing.T) {
	auth, users, revoked := newAuthService(t)

	access, _, err := auth.Login("ana@x.org", "secret1")
	require.NoError(t, err)
	claims, err := auth.ParseToken(access)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(access, claims))

	assert.True(t, revoked.IsRevoked(access))
	user, err := users.FindByEmail("ana@x.org")
	require.NoError(t, err)
	assert.Empty(t, user.RefreshToken)
}

func TestLogoutFailsForUnknownIdentity(t *testing.T) {
	auth, _, revoked := newAuthService(t)

	access, _, err := auth.Login("ana@x.org", "secret1")
	require.NoError(t, err)
	claims, err := auth.ParseToken(access)
	require.NoError(t, err)
	claims.Email = "ghost@x.org"

	err = auth.Logout(access, claims)
	assert.ErrorIs(t, err, ErrUserNotFound)
	// The presented token is revoked regardless.
	assert.True(t, revoked.IsRevoked(access))
}
