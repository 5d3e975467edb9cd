package enums

import "fmt"

// AppRole represents the back-office access level attached to a user.
type AppRole string

const (
	AppRoleAdmin         AppRole = "admin"
	AppRoleClientService AppRole = "client_service"
	AppRoleViewer        AppRole = "viewer"
)

var validAppRoles = []AppRole{
	AppRoleAdmin,
	AppRoleClientService,
	AppRoleViewer,
}

// String implements fmt.Stringer.
func (r AppRole) String() string {
	return string(r)
}

// IsValid reports whether the role is recognized.
func (r AppRole) IsValid() bool {
	for _, candidate := range validAppRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanSubmit reports whether the role may push bookings to the wire API.
func (r AppRole) CanSubmit() bool {
	return r == AppRoleAdmin || r == AppRoleClientService
}

// ParseAppRole converts a raw string into an AppRole.
func ParseAppRole(value string) (AppRole, error) {
	for _, candidate := range validAppRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid app role %q", value)
}
