package models

// Role is a user's authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the authenticated user's profile as returned by the backend.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user may use the admin console.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Credentials is the login/register request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SettingsUpdate is the account settings request body. Password fields are
// optional; changing the password requires the current one.
type SettingsUpdate struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

// AdminShip is a vessel row in the admin ship-management console.
type AdminShip struct {
	MMSI     string `json:"mmsi"`
	Name     string `json:"name"`
	ShipType string `json:"shipType"`
	LastSeen int64  `json:"lastSeen"`
}
