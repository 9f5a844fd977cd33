package service

import (
	"testing"
	"time"

	"emergency-center-scheduler/internal/models"
	"emergency-center-scheduler/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func register(t *testing.T, env *testEnv, email string) *models.User {
	t.Helper()
	user, err := env.auth.Register(RegisterInput{
		FirstName:       "Ana",
		LastName:        "Pop",
		Email:           email,
		Password:        testPassword,
		PasswordConfirm: testPassword,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterCreatesPendingMedic(t *testing.T) {
	env := newTestEnv(t)

	user := register(t, env, "  Ana.Pop@Example.com ")
	assert.Equal(t, "ana.pop@example.com", user.Email)
	assert.Equal(t, models.StatusPending, user.Status)
	assert.Equal(t, models.RoleMedic, user.GlobalRole)

	_, err := env.auth.Register(RegisterInput{
		FirstName: "Ana", LastName: "Pop", Email: "ana.pop@example.com",
		Password: testPassword, PasswordConfirm: testPassword,
	})
	requireKind(t, err, KindConflict)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "missing name", in: RegisterInput{LastName: "Pop", Email: "a@example.com", Password: testPassword, PasswordConfirm: testPassword}},
		{name: "mismatch", in: RegisterInput{FirstName: "A", LastName: "P", Email: "a@example.com", Password: testPassword, PasswordConfirm: "other123"}},
		{name: "short", in: RegisterInput{FirstName: "A", LastName: "P", Email: "a@example.com", Password: "abc", PasswordConfirm: "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(tt.in)
			requireKind(t, err, KindValidation)
		})
	}
}

func TestLoginRequiresApproval(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	user := register(t, env, "ana@example.com")

	_, err := env.auth.Login("ana@example.com", testPassword)
	requireKind(t, err, KindForbidden)

	_, err = env.auth.Login("ana@example.com", "wrong-password")
	requireKind(t, err, KindUnauthorized)

	_, err = env.auth.Login("nobody@example.com", testPassword)
	requireKind(t, err, KindUnauthorized)

	require.NoError(t, env.userSvc.Approve(admin, user.ID))

	resp, err := env.auth.Login("ANA@example.com", testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := utils.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	require.NoError(t, env.userSvc.Reject(admin, user.ID))
	_, err = env.auth.Login("ana@example.com", testPassword)
	requireKind(t, err, KindForbidden)

	_, err = env.access.ResolveSubject(user.ID)
	requireKind(t, err, KindForbidden)
}

func TestRefreshAndLogout(t *testing.T) {
	env := newTestEnv(t)
	alice := env.medic(t, "alice@example.com")

	resp, err := env.auth.Login(alice.User.Email, testPassword)
	require.NoError(t, err)

	access, err := env.auth.RefreshAccessToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	require.NoError(t, env.auth.Logout(resp.RefreshToken))
	_, err = env.auth.RefreshAccessToken(resp.RefreshToken)
	requireKind(t, err, KindUnauthorized)

	resp, err = env.auth.Login(alice.User.Email, testPassword)
	require.NoError(t, err)
	env.clock.Advance(25 * time.Hour)
	_, err = env.auth.RefreshAccessToken(resp.RefreshToken)
	requireKind(t, err, KindUnauthorized)

	_, err = env.auth.RefreshAccessToken("")
	requireKind(t, err, KindUnauthorized)
}

func TestPurgeRemovesExpiredAndRevokedTokens(t *testing.T) {
	env := newTestEnv(t)
	alice := env.medic(t, "alice@example.com")
	worker := NewWorkerService(env.users, env.calendar, time.Hour, zap.NewNop())

	expiring, err := env.auth.Login(alice.User.Email, testPassword)
	require.NoError(t, err)

	env.clock.Advance(23 * time.Hour)
	revoked, err := env.auth.Login(alice.User.Email, testPassword)
	require.NoError(t, err)
	require.NoError(t, env.auth.Logout(revoked.RefreshToken))
	live, err := env.auth.Login(alice.User.Email, testPassword)
	require.NoError(t, err)

	// The first token is now past its expiry
	env.clock.Advance(2 * time.Hour)
	assert.Equal(t, int64(2), worker.PurgeOnce())
	assert.Equal(t, int64(0), worker.PurgeOnce())

	var remaining int64
	require.NoError(t, env.db.Model(&models.RefreshToken{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	_, err = env.auth.RefreshAccessToken(expiring.RefreshToken)
	requireKind(t, err, KindUnauthorized)
	access, err := env.auth.RefreshAccessToken(live.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestEnsureAdmin(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.auth.EnsureAdmin("Root@Example.com", "rootpass", "Root", "Admin")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = env.auth.EnsureAdmin("root@example.com", "rootpass", "Root", "Admin")
	require.NoError(t, err)
	assert.False(t, created)

	subject, err := env.access.ResolveSubject(1)
	require.NoError(t, err)
	assert.True(t, subject.IsApprovedAdmin())

	_, err = env.auth.EnsureAdmin("root@example.com", "123", "Root", "Admin")
	requireKind(t, err, KindValidation)
}

func TestResolveSubjectFailsClosed(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.access.ResolveSubject(0)
	requireKind(t, err, KindUnauthorized)

	_, err = env.access.ResolveSubject(4242)
	requireKind(t, err, KindUnauthorized)
}
