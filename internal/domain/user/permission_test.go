package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleEmployee, PermissionAttendanceSelf))
	assert.False(t, HasPermission(RoleEmployee, PermissionPayrollFinalize))

	assert.True(t, HasPermission(RoleManager, PermissionLeaveApprove))
	assert.False(t, HasPermission(RoleManager, PermissionWFHApprove))

	for _, role := range []Role{RolePayroll, RoleHR, RoleAdmin, RoleSuperAdmin} {
		assert.True(t, HasPermission(role, PermissionPayrollFinalize), role)
	}
	assert.False(t, HasPermission(Role("GUEST"), PermissionAttendanceSelf))

	assert.True(t, HasPermission(RoleAdmin, PermissionMasterManage))
	assert.False(t, HasPermission(RoleManager, PermissionMasterManage))
	assert.False(t, HasPermission(RolePayroll, PermissionMasterManage))
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, RoleSuperAdmin.IsAdmin())
	assert.False(t, RoleHR.IsAdmin())
	assert.True(t, RoleHR.IsHR())
	assert.False(t, RolePayroll.IsHR())
	assert.True(t, RolePayroll.Valid())
	assert.False(t, Role("owner").Valid())
}

func TestActorCanActFor(t *testing.T) {
	self := Actor{EmployeeID: 7, Role: RoleEmployee}
	assert.True(t, self.CanActFor(7))
	assert.False(t, self.CanActFor(8))
	assert.True(t, Actor{EmployeeID: 1, Role: RoleHR}.CanActFor(8))
}
