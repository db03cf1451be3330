package user

type Permission string

const (
	// Attendance
	PermissionAttendanceView   Permission = "attendance.view"
	PermissionAttendanceManage Permission = "attendance.manage"

	// Payroll
	PermissionPayrollView Permission = "payroll.view"

	// Settings
	PermissionSettingsManage Permission = "settings.manage"

	// Employees
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	// Users
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceView,
		PermissionAttendanceManage,
		PermissionPayrollView,
		PermissionSettingsManage,
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionUserManage,
	},
	RoleManager: {
		PermissionAttendanceView,
		PermissionAttendanceManage,
		PermissionPayrollView,
		PermissionEmployeeView,
	},
	RoleStaff: {
		PermissionAttendanceView,
		PermissionEmployeeView,
	},
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
