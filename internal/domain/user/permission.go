package user

type Permission string

const (
	// Self service
	PermissionAttendanceSelf Permission = "attendance.self"
	PermissionLeaveSelf      Permission = "leave.self"
	PermissionWFHSelf        Permission = "wfh.self"
	PermissionPayrollSelf    Permission = "payroll.self"

	// Team and organisation views
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionLeaveViewAll      Permission = "leave.view_all"
	PermissionEmployeeViewAll   Permission = "employee.view_all"

	// Approvals and administration
	PermissionLeaveApprove    Permission = "leave.approve"
	PermissionWFHApprove      Permission = "wfh.approve"
	PermissionBalanceAdjust   Permission = "leave.balance_adjust"
	PermissionEmployeeManage  Permission = "employee.manage"
	PermissionHolidayManage   Permission = "holiday.manage"
	PermissionMasterManage    Permission = "master.manage"
	PermissionPayrollPreview  Permission = "payroll.preview"
	PermissionPayrollFinalize Permission = "payroll.finalize"
)

var selfService = []Permission{
	PermissionAttendanceSelf,
	PermissionLeaveSelf,
	PermissionWFHSelf,
	PermissionPayrollSelf,
}

var hrAuthority = []Permission{
	PermissionAttendanceViewAll,
	PermissionLeaveViewAll,
	PermissionEmployeeViewAll,
	PermissionLeaveApprove,
	PermissionWFHApprove,
	PermissionBalanceAdjust,
	PermissionEmployeeManage,
	PermissionHolidayManage,
	PermissionMasterManage,
	PermissionPayrollPreview,
	PermissionPayrollFinalize,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleEmployee: selfService,
	RoleManager: append(append([]Permission{}, selfService...),
		PermissionAttendanceViewAll,
		PermissionLeaveViewAll,
		PermissionEmployeeViewAll,
		PermissionLeaveApprove,
	),
	RolePayroll: append(append([]Permission{}, selfService...),
		PermissionEmployeeViewAll,
		PermissionAttendanceViewAll,
		PermissionPayrollPreview,
		PermissionPayrollFinalize,
	),
	RoleHR:         append(append([]Permission{}, selfService...), hrAuthority...),
	RoleAdmin:      append(append([]Permission{}, selfService...), hrAuthority...),
	RoleSuperAdmin: append(append([]Permission{}, selfService...), hrAuthority...),
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
