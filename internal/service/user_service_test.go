package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUsers(t *testing.T) UserService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.Tenant{}, &model.User{}, &model.RefreshToken{}))

	return NewUserService(
		repository.NewUserRepository(db),
		repository.NewTenantRepository(db),
		repository.NewTransactionManager(db),
	)
}

func TestRegisterTenantCreatesAdmin(t *testing.T) {
	svc := setupUsers(t)
	ctx := context.Background()

	user, err := svc.RegisterTenant(ctx, RegisterTenantRequest{
		TenantName: "Acme",
		TenantSlug: "acme",
		Username:   "owner",
		Email:      "owner@acme.test",
		Password:   "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.NotEqual(t, user.TenantID.String(), "00000000-0000-0000-0000-000000000000")

	_, err = svc.RegisterTenant(ctx, RegisterTenantRequest{
		TenantName: "Acme Again",
		TenantSlug: "acme",
		Username:   "other",
		Email:      "other@acme.test",
		Password:   "secret1",
	})
	assert.ErrorContains(t, err, "slug already taken")

	_, err = svc.RegisterTenant(ctx, RegisterTenantRequest{
		TenantName: "Beta",
		TenantSlug: "beta",
		Username:   "owner",
		Email:      "owner@beta.test",
		Password:   "secret1",
	})
	assert.ErrorContains(t, err, "username already exists")
}

func TestLoginAndRefreshRotation(t *testing.T) {
	svc := setupUsers(t)
	ctx := context.Background()

	_, err := svc.RegisterTenant(ctx, RegisterTenantRequest{
		TenantName: "Acme",
		TenantSlug: "acme",
		Username:   "owner",
		Email:      "owner@acme.test",
		Password:   "secret1",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginUserRequest{Email: "owner@acme.test", Password: "wrong"})
	assert.ErrorContains(t, err, "invalid email or password")

	tokens, err := svc.Login(ctx, LoginUserRequest{Email: "owner@acme.test", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.Token)
	require.NotEmpty(t, tokens.RefreshToken)

	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The old refresh token is single-use
	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorContains(t, err, "invalid refresh token")

	require.NoError(t, svc.Logout(ctx, rotated.RefreshToken))
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorContains(t, err, "invalid refresh token")
}

func TestUserManagementScopedToTenant(t *testing.T) {
	svc := setupUsers(t)
	ctx := context.Background()

	owner, err := svc.RegisterTenant(ctx, RegisterTenantRequest{
		TenantName: "Acme",
		TenantSlug: "acme",
		Username:   "owner",
		Email:      "owner@acme.test",
		Password:   "secret1",
	})
	require.NoError(t, err)

	other, err := svc.RegisterTenant(ctx, RegisterTenantRequest{
		TenantName: "Beta",
		TenantSlug: "beta",
		Username:   "beta-owner",
		Email:      "owner@beta.test",
		Password:   "secret1",
	})
	require.NoError(t, err)

	staff, err := svc.CreateUser(ctx, owner.TenantID, CreateUserRequest{
		Username: "clerk",
		Email:    "clerk@acme.test",
		Password: "secret1",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, owner.TenantID, staff.TenantID)

	// Users of one tenant are invisible to another
	_, err = svc.UpdateUser(ctx, other.TenantID, staff.ID.String(), UpdateUserRequest{Role: model.RoleManager})
	assert.ErrorContains(t, err, "user not found")
	assert.ErrorContains(t, svc.DeleteUser(ctx, other.TenantID, staff.ID.String()), "user not found")

	updated, err := svc.UpdateUser(ctx, owner.TenantID, staff.ID.String(), UpdateUserRequest{Role: model.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, updated.Role)

	require.NoError(t, svc.DeleteUser(ctx, owner.TenantID, staff.ID.String()))
	_, err = svc.GetUserByID(ctx, staff.ID.String())
	assert.ErrorContains(t, err, "user not found")
}
