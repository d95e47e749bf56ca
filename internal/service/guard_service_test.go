package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valleops/postpilot/internal/models"
)

func newGuardFixture() GuardService {
	profiles := &memUserProfileRepo{profiles: map[string]*models.UserProfile{
		"super-1":    {UserID: "super-1", Role: models.RoleSuperAdmin},
		"admin-1":    {UserID: "admin-1", Role: models.RoleAdmin},
		"employee-1": {UserID: "employee-1", Role: models.RoleEmployee},
		"employee-2": {UserID: "employee-2", Role: models.RoleEmployee},
		"client-1":   {UserID: "client-1", Role: models.RoleClient},
	}}
	assignments := &memAreaAssignmentRepo{assignments: []models.AreaAssignment{
		{UserID: "employee-1", ClientID: "acme", Area: models.AreaSocialMedia},
		{UserID: "employee-2", ClientID: "acme", Area: "design"},
	}}
	return NewGuardService(profiles, assignments)
}

func TestCheckAccess(t *testing.T) {
	ctx := context.Background()
	guard := newGuardFixture()

	assert.NoError(t, guard.CheckAccess(ctx, "super-1", "acme"))
	assert.NoError(t, guard.CheckAccess(ctx, "admin-1", "acme"))
	assert.NoError(t, guard.CheckAccess(ctx, "employee-1", "acme"))

	// Assigned, but not to a social media area.
	assert.True(t, IsAuthorizationError(guard.CheckAccess(ctx, "employee-2", "acme")))

	// Assigned to a different client.
	assert.True(t, IsAuthorizationError(guard.CheckAccess(ctx, "employee-1", "globex")))

	assert.True(t, IsAuthorizationError(guard.CheckAccess(ctx, "client-1", "acme")))
	assert.True(t, IsAuthorizationError(guard.CheckAccess(ctx, "ghost", "acme")))
}

func TestCheckApprover(t *testing.T) {
	ctx := context.Background()
	guard := newGuardFixture()

	assert.NoError(t, guard.CheckApprover(ctx, "super-1"))
	assert.NoError(t, guard.CheckApprover(ctx, "admin-1"))

	assert.True(t, IsAuthorizationError(guard.CheckApprover(ctx, "employee-1")))
	assert.True(t, IsAuthorizationError(guard.CheckApprover(ctx, "ghost")))
}
