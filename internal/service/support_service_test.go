package service

import (
	"testing"

	"emergency-center-scheduler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportTicketRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)

	ticket, err := env.supportSvc.Submit(nil, "  cannot log in ", "Visitor@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "cannot log in", ticket.Message)
	require.NotNil(t, ticket.Email)
	assert.Equal(t, "visitor@example.com", *ticket.Email)
	assert.Nil(t, ticket.UserID)

	resolved, unresolved := true, false

	open, err := env.supportSvc.List(admin, &unresolved)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, ticket.ID, open[0].ID)

	updated, err := env.supportSvc.SetResolved(admin, ticket.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Resolved)
	assert.Equal(t, models.TicketStatusResolved, updated.Status)

	done, err := env.supportSvc.List(admin, &resolved)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, ticket.ID, done[0].ID)

	open, err = env.supportSvc.List(admin, &unresolved)
	require.NoError(t, err)
	assert.Empty(t, open)

	all, err := env.supportSvc.List(admin, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = env.supportSvc.SetResolved(admin, ticket.ID+1, true)
	requireKind(t, err, KindNotFound)
}

func TestSupportSubmitter(t *testing.T) {
	env := newTestEnv(t)
	alice := env.medic(t, "alice@example.com")

	_, err := env.supportSvc.Submit(nil, "help", "")
	requireKind(t, err, KindValidation)

	_, err = env.supportSvc.Submit(alice, "   ", "")
	requireKind(t, err, KindValidation)

	ticket, err := env.supportSvc.Submit(alice, "help", "")
	require.NoError(t, err)
	require.NotNil(t, ticket.Email)
	assert.Equal(t, "alice@example.com", *ticket.Email)
	require.NotNil(t, ticket.UserID)
	assert.Equal(t, alice.ID(), *ticket.UserID)
	require.NotNil(t, ticket.UserFirstName)
	assert.Equal(t, alice.User.FirstName, *ticket.UserFirstName)

	ticket, err = env.supportSvc.Submit(alice, "help again", "other@example.com")
	require.NoError(t, err)
	assert.Equal(t, "other@example.com", *ticket.Email)

	_, err = env.supportSvc.List(alice, nil)
	requireKind(t, err, KindForbidden)
}
