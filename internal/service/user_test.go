package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"workforce-forecast/internal/models"
)

func TestCreateUserDefaults(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.userRepo)

	user, err := svc.CreateUser("Alice", "alice@example.com", "secret1", "", nil)
	require.NoError(t, err)

	assert.Equal(t, string(models.RoleHOD), user.Role)
	assert.True(t, user.IsActive)
	// Пароль хранится только как bcrypt-хеш
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.userRepo)

	_, err := svc.CreateUser("Alice", "alice@example.com", "short", "", nil)
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeValidation, models.CodeOf(err))

	_, err = svc.CreateUser("", "alice@example.com", "secret1", "", nil)
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeValidation, models.CodeOf(err))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.userRepo)

	_, err := svc.CreateUser("Alice", "alice@example.com", "secret1", "", nil)
	require.NoError(t, err)

	_, err = svc.CreateUser("Another Alice", "alice@example.com", "secret2", "", nil)
	require.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.userRepo)

	created, err := svc.CreateUser("Alice", "alice@example.com", "secret1", models.RoleFinance, nil)
	require.NoError(t, err)

	user, err := svc.Authenticate("alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Authenticate("alice@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodePermission, models.CodeOf(err))

	_, err = svc.Authenticate("nobody@example.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodePermission, models.CodeOf(err))
}

func TestAuthenticateInactiveUser(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.userRepo)

	user, err := svc.CreateUser("Alice", "alice@example.com", "secret1", "", nil)
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	_, err = svc.Authenticate("alice@example.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodePermission, models.CodeOf(err))
}

func TestUpdateRoleAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.userRepo)

	admin := env.seedUser(t, "Root", "root@example.com", models.RoleAdmin, nil)
	hod := env.seedUser(t, "Alice", "alice@example.com", models.RoleHOD, nil)

	err := svc.UpdateRole(hod, admin.ID, models.RoleHOD)
	require.Error(t, err)
	assert.Equal(t, models.ErrCodePermission, models.CodeOf(err))

	require.NoError(t, svc.UpdateRole(admin, hod.ID, models.RoleFinance))

	updated, err := svc.GetUser(hod.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleFinance), updated.Role)

	err = svc.UpdateRole(admin, hod.ID, "superuser")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeValidation, models.CodeOf(err))
}
