package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce-forecast/internal/models"
)

func TestCreateDepartmentUppercasesCode(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDepartmentService(env.departmentRepo)

	admin := env.seedUser(t, "Root", "root@example.com", models.RoleAdmin, nil)

	department, err := svc.CreateDepartment(admin, "Engineering", "eng", "product development")
	require.NoError(t, err)
	assert.Equal(t, "ENG", department.Code)
	assert.True(t, department.IsActive)
}

func TestCreateDepartmentDuplicate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDepartmentService(env.departmentRepo)

	admin := env.seedUser(t, "Root", "root@example.com", models.RoleAdmin, nil)

	_, err := svc.CreateDepartment(admin, "Engineering", "ENG", "")
	require.NoError(t, err)

	// Совпадение по коду в другом регистре - тоже дубликат
	_, err = svc.CreateDepartment(admin, "Engineering 2", "eng", "")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeValidation, models.CodeOf(err))
}

func TestCreateDepartmentAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDepartmentService(env.departmentRepo)

	hod := env.seedUser(t, "Alice", "alice@example.com", models.RoleHOD, nil)

	_, err := svc.CreateDepartment(hod, "Engineering", "ENG", "")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodePermission, models.CodeOf(err))
}

func TestDeleteDepartmentBlockedByActiveUsers(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDepartmentService(env.departmentRepo)

	admin := env.seedUser(t, "Root", "root@example.com", models.RoleAdmin, nil)
	department := env.seedDepartment(t, "Engineering", "ENG")
	env.seedUser(t, "Alice", "alice@example.com", models.RoleHOD, &department.ID)

	err := svc.DeleteDepartment(admin, department.ID)
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeValidation, models.CodeOf(err))

	// Департамент остался активным
	stored, err := svc.GetDepartment(department.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
}

func TestDeleteDepartmentDeactivates(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDepartmentService(env.departmentRepo)

	admin := env.seedUser(t, "Root", "root@example.com", models.RoleAdmin, nil)
	department := env.seedDepartment(t, "Engineering", "ENG")

	require.NoError(t, svc.DeleteDepartment(admin, department.ID))

	// Деактивированные не возвращаются в списке
	active, err := svc.ListDepartments()
	require.NoError(t, err)
	assert.Empty(t, active)
}
