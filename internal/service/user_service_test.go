package service

import (
	"testing"

	"emergency-center-scheduler/internal/models"
	"emergency-center-scheduler/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	alice := env.medic(t, "alice@example.com")

	user, changed, err := env.userSvc.UpdateProfile(alice, ProfileUpdate{})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, alice.User.FirstName, user.FirstName)

	user, changed, err = env.userSvc.UpdateProfile(alice, ProfileUpdate{
		FirstName: strPtr("  Alice "),
		Phone:     strPtr(" +40 700 000 000 "),
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Alice", user.FirstName)
	require.NotNil(t, user.Phone)
	assert.Equal(t, "+40 700 000 000", *user.Phone)

	user, _, err = env.userSvc.UpdateProfile(alice, ProfileUpdate{Phone: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, user.Phone)

	_, _, err = env.userSvc.UpdateProfile(alice, ProfileUpdate{LastName: strPtr("  ")})
	requireKind(t, err, KindValidation)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	alice := env.medic(t, "alice@example.com")

	tests := []struct {
		name    string
		current string
		next    string
		confirm string
	}{
		{name: "missing", current: "", next: "newpass1", confirm: "newpass1"},
		{name: "mismatch", current: testPassword, next: "newpass1", confirm: "newpass2"},
		{name: "too short", current: testPassword, next: "abc", confirm: "abc"},
		{name: "wrong current", current: "nope-nope", next: "newpass1", confirm: "newpass1"},
		{name: "unchanged", current: testPassword, next: testPassword, confirm: testPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.userSvc.ChangePassword(alice, tt.current, tt.next, tt.confirm)
			requireKind(t, err, KindValidation)
		})
	}

	require.NoError(t, env.userSvc.ChangePassword(alice, testPassword, "newpass1", "newpass1"))

	_, err := env.auth.Login("alice@example.com", testPassword)
	requireKind(t, err, KindUnauthorized)
	_, err = env.auth.Login("alice@example.com", "newpass1")
	require.NoError(t, err)
}

func TestFindAndBasics(t *testing.T) {
	env := newTestEnv(t)
	alice := env.medic(t, "alice@example.com")
	bob := env.medic(t, "bob@example.com")

	found, err := env.userSvc.FindByEmail(" ALICE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, alice.ID(), found.ID)

	_, err = env.userSvc.FindByEmail("ghost@example.com")
	requireKind(t, err, KindNotFound)

	_, err = env.userSvc.FindByEmail("")
	requireKind(t, err, KindValidation)

	basics, err := env.userSvc.Basics(idString(bob.ID()) + ", bogus,," + idString(alice.ID()) + ",9999," + idString(bob.ID()))
	require.NoError(t, err)
	require.Len(t, basics, 2)
	assert.Equal(t, alice.ID(), basics[0].ID)
	assert.Equal(t, bob.ID(), basics[1].ID)

	basics, err = env.userSvc.Basics("")
	require.NoError(t, err)
	assert.Empty(t, basics)
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	alice := env.medic(t, "alice@example.com")
	pending := env.createUser(t, "pending@example.com", models.RoleMedic, models.StatusPending)

	_, err := env.userSvc.ListUsers(alice)
	requireKind(t, err, KindForbidden)

	users, err := env.userSvc.ListUsers(admin)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	waiting, err := env.userSvc.ListPending(admin)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, pending.ID, waiting[0].ID)

	requireKind(t, env.userSvc.Approve(admin, 9999), KindNotFound)

	requireKind(t, env.userSvc.SetEmail(admin, pending.ID, "alice@example.com"), KindConflict)
	require.NoError(t, env.userSvc.SetEmail(admin, pending.ID, " New@Example.com "))
	found, err := env.userSvc.FindByEmail("new@example.com")
	require.NoError(t, err)
	assert.Equal(t, pending.ID, found.ID)

	requireKind(t, env.userSvc.SetPassword(admin, alice.ID(), "123"), KindValidation)
	require.NoError(t, env.userSvc.SetPassword(admin, alice.ID(), "reset-pass"))
	stored, err := env.users.FindUserByID(alice.ID())
	require.NoError(t, err)
	assert.True(t, utils.ComparePassword(stored.PasswordHash, "reset-pass"))

	logs, err := env.auditSvc.ListRecent(admin, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, logs)

	_, err = env.auditSvc.ListRecent(alice, 10)
	requireKind(t, err, KindForbidden)
}

func TestDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	center := env.center(t, admin, "Central")
	alice := env.medic(t, "alice@example.com")
	bob := env.medic(t, "bob@example.com")
	env.member(t, admin, center.ID, alice)

	_, err := env.schedule.Assign(admin, center.ID, alice.ID(), "2025-03-15")
	require.NoError(t, err)
	_, err = env.availability.MarkBusy(alice, "2025-03-16")
	require.NoError(t, err)
	_, err = env.messageSvc.Send(alice, idString(bob.ID()), "hello")
	require.NoError(t, err)
	_, err = env.messageSvc.Send(bob, idString(alice.ID()), "hello back")
	require.NoError(t, err)

	require.NoError(t, env.userSvc.Delete(admin, alice.ID()))
	requireKind(t, env.userSvc.Delete(admin, alice.ID()), KindNotFound)

	for model, query := range map[interface{}]string{
		&models.Membership{}: "user_id = ?",
		&models.Shift{}:      "medic_id = ?",
		&models.BusyDay{}:    "medic_id = ?",
		&models.Message{}:    "to_id = ?",
	} {
		var count int64
		require.NoError(t, env.db.Model(model).Where(query, alice.ID()).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}

	conversations, err := env.messageSvc.Conversations(bob)
	require.NoError(t, err)
	assert.Empty(t, conversations)
}
