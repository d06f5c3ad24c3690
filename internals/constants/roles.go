package constants

import "fmt"

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleCashier    = "cashier"
	RoleTeacher    = "teacher"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess   = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyCashierCanAccess  = "❌ Hanya kasir atau admin yang boleh mengakses fitur %s."
	ErrOnlyStaffCanAccess    = "❌ Hanya staf sekolah yang boleh mengakses fitur %s."
	ErrOnlySuperAdminsAccess = "❌ Hanya super admin yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorCashier(feature string) string {
	return fmt.Sprintf(ErrOnlyCashierCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorSuperAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlySuperAdminsAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleSuperAdmin,
		RoleAdmin,
		RoleCashier,
		RoleTeacher,
	}

	AdminAndAbove = []string{
		RoleSuperAdmin,
		RoleAdmin,
	}

	CashierAndAbove = []string{
		RoleSuperAdmin,
		RoleAdmin,
		RoleCashier,
	}

	SuperAdminOnly = []string{
		RoleSuperAdmin,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
