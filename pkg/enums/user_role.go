package enums

import "fmt"

// UserRole is the back office role carried in access tokens.
type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleOperations UserRole = "operations"
	UserRoleAccountant UserRole = "accountant"
	UserRoleCourier    UserRole = "courier"
	UserRoleMerchant   UserRole = "merchant"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleOperations,
	UserRoleAccountant,
	UserRoleCourier,
	UserRoleMerchant,
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role belongs to company personnel.
func (r UserRole) IsStaff() bool {
	switch r {
	case UserRoleAdmin, UserRoleOperations, UserRoleAccountant:
		return true
	default:
		return false
	}
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
