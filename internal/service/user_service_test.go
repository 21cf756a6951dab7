package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/call-monitoring-service/internal/domain"
	"github.com/spec-kit/call-monitoring-service/internal/repository"
)

func newUserFixture() (*UserService, *fakeUserRepo) {
	userRepo := newFakeUserRepo()
	return NewUserService(userRepo, 4), userRepo
}

func seedUser(repo *fakeUserRepo, id string, role domain.Role) *domain.User {
	return repo.add(&domain.User{
		ID:       id,
		Username: id,
		Email:    id + "@example.com",
		FullName: "User " + id,
		Role:     role,
		IsActive: true,
	})
}

func TestUserService_Get(t *testing.T) {
	svc, repo := newUserFixture()
	seedUser(repo, "u1", domain.RoleOperator)

	user, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = svc.Get(context.Background(), "missing")
	assertCode(t, err, "NOT_FOUND")
}

func TestUserService_List_Filters(t *testing.T) {
	svc, repo := newUserFixture()
	seedUser(repo, "u1", domain.RoleOperator)
	seedUser(repo, "u2", domain.RoleSupervisor)
	inactive := seedUser(repo, "u3", domain.RoleOperator)
	inactive.IsActive = false
	repo.add(inactive)

	role := domain.RoleOperator
	users, err := svc.List(context.Background(), repository.UserFilter{Role: &role})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	active := true
	users, err = svc.List(context.Background(), repository.UserFilter{Role: &role, IsActive: &active})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
}

func TestUserService_Update_SelfProfile(t *testing.T) {
	svc, repo := newUserFixture()
	actor := seedUser(repo, "u1", domain.RoleOperator)

	name := "New Name"
	updated, err := svc.Update(context.Background(), actor, "u1", UserUpdateInput{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)
}

func TestUserService_Update_ForeignProfileNeedsAdmin(t *testing.T) {
	svc, repo := newUserFixture()
	actor := seedUser(repo, "u1", domain.RoleSupervisor)
	seedUser(repo, "u2", domain.RoleOperator)

	name := "Hacked"
	_, err := svc.Update(context.Background(), actor, "u2", UserUpdateInput{FullName: &name})
	assertCode(t, err, "FORBIDDEN")

	admin := seedUser(repo, "boss", domain.RoleAdmin)
	updated, err := svc.Update(context.Background(), admin, "u2", UserUpdateInput{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Hacked", updated.FullName)
}

func TestUserService_Update_RoleChangeIgnoredForNonAdmin(t *testing.T) {
	svc, repo := newUserFixture()
	actor := seedUser(repo, "u1", domain.RoleOperator)

	// A non-admin asking for a role bump gets a successful profile update
	// with the privileged fields silently left alone.
	role := domain.RoleAdmin
	inactive := false
	updated, err := svc.Update(context.Background(), actor, "u1", UserUpdateInput{Role: &role, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOperator, updated.Role)
	assert.True(t, updated.IsActive)
}

func TestUserService_Update_AdminChangesRoleAndFlag(t *testing.T) {
	svc, repo := newUserFixture()
	admin := seedUser(repo, "boss", domain.RoleAdmin)
	seedUser(repo, "u1", domain.RoleOperator)

	role := domain.RoleSupervisor
	inactive := false
	updated, err := svc.Update(context.Background(), admin, "u1", UserUpdateInput{Role: &role, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSupervisor, updated.Role)
	assert.False(t, updated.IsActive)

	bad := domain.Role("manager")
	_, err = svc.Update(context.Background(), admin, "u1", UserUpdateInput{Role: &bad})
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestUserService_Update_EmailConflict(t *testing.T) {
	svc, repo := newUserFixture()
	actor := seedUser(repo, "u1", domain.RoleOperator)
	seedUser(repo, "u2", domain.RoleOperator)

	email := "u2@example.com"
	_, err := svc.Update(context.Background(), actor, "u1", UserUpdateInput{Email: &email})
	assertCode(t, err, "CONFLICT")

	// Re-submitting the current address is not a conflict.
	same := "u1@example.com"
	updated, err := svc.Update(context.Background(), actor, "u1", UserUpdateInput{Email: &same})
	require.NoError(t, err)
	assert.Equal(t, same, updated.Email)
}

func TestUserService_Deactivate(t *testing.T) {
	svc, repo := newUserFixture()
	admin := seedUser(repo, "boss", domain.RoleAdmin)
	supervisor := seedUser(repo, "sup", domain.RoleSupervisor)
	seedUser(repo, "u1", domain.RoleOperator)

	err := svc.Deactivate(context.Background(), supervisor, "u1")
	assertCode(t, err, "FORBIDDEN")

	require.NoError(t, svc.Deactivate(context.Background(), admin, "u1"))
	u, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	err = svc.Deactivate(context.Background(), admin, "missing")
	assertCode(t, err, "NOT_FOUND")
}
