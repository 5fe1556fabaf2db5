package user

type Permission string

const (
	// Payroll
	PermissionSalaryView    Permission = "salary.view"
	PermissionAdvanceManage Permission = "advance.manage"

	// Fleet
	PermissionDriverManage   Permission = "driver.manage"
	PermissionFuelManage     Permission = "fuel.manage"
	PermissionFastagManage   Permission = "fastag.manage"
	PermissionAccidentManage Permission = "accident.manage"

	// Duty (attendance)
	PermissionDutyViewAll Permission = "duty.view_all"
	PermissionDutyManage  Permission = "duty.manage"
	PermissionDutyOwn     Permission = "duty.own"

	// Parking
	PermissionParkingManage Permission = "parking.manage"
	PermissionParkingReview Permission = "parking.review"
	PermissionParkingClaim  Permission = "parking.claim"

	// Files
	PermissionFileUpload Permission = "file.upload"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionSalaryView,
		PermissionAdvanceManage,
		PermissionDriverManage,
		PermissionFuelManage,
		PermissionFastagManage,
		PermissionAccidentManage,
		PermissionDutyViewAll,
		PermissionDutyManage,
		PermissionParkingManage,
		PermissionParkingReview,
		PermissionFileUpload,
	},
	RoleStaff: {
		PermissionFuelManage,
		PermissionFastagManage,
		PermissionAccidentManage,
		PermissionDutyViewAll,
		PermissionDutyManage,
		PermissionParkingManage,
		PermissionParkingReview,
		PermissionFileUpload,
	},
	RoleDriver: {
		PermissionDutyOwn,
		PermissionParkingClaim,
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
