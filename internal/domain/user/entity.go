package user

type Role string

const (
	RoleEmployee   Role = "EMPLOYEE"
	RoleManager    Role = "MANAGER"
	RoleHR         Role = "HR"
	RoleAdmin      Role = "ADMIN"
	RolePayroll    Role = "PAYROLL"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

var AllRoles = []Role{RoleEmployee, RoleManager, RoleHR, RoleAdmin, RolePayroll, RoleSuperAdmin}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports ADMIN or SUPER_ADMIN.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// IsHR reports roles holding final HR authority.
func (r Role) IsHR() bool {
	return r == RoleHR || r.IsAdmin()
}

// Actor is the authenticated caller, taken from the bearer token.
type Actor struct {
	EmployeeID int64
	Role       Role
}

// CanActFor reports whether the actor may operate on employeeID's own records.
func (a Actor) CanActFor(employeeID int64) bool {
	return a.EmployeeID == employeeID || a.Role.IsHR()
}
