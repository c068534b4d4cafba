package user

type Permission string

const (
	// Attendance
	PermissionAttendanceSelf    Permission = "attendance.self"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Payroll
	PermissionPayrollViewOwn  Permission = "payroll.view_own"
	PermissionPayrollViewAll  Permission = "payroll.view_all"
	PermissionPayrollGenerate Permission = "payroll.generate"
	PermissionPayrollManage   Permission = "payroll.manage"

	// Leave
	PermissionLeaveRequest Permission = "leave.request"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// Reports
	PermissionReportsExport Permission = "reports.export"
)

// TypePermissions maps account types to their permissions
var TypePermissions = map[UserType][]Permission{
	TypeAdmin: {
		PermissionAttendanceSelf,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollGenerate,
		PermissionPayrollManage,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionReportsExport,
	},
	TypeEmployee: {
		PermissionAttendanceSelf,
		PermissionPayrollViewOwn,
		PermissionLeaveRequest,
	},
}

// HasPermission checks if an account type has a specific permission
func HasPermission(userType UserType, permission Permission) bool {
	permissions, exists := TypePermissions[userType]
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
