package domain

import "time"

// Role is the closed set of account roles. The store keeps it as text, but
// everything above the repository validates against this set.
type Role string

const (
	RoleConsumer Role = "CONSUMER"
	RoleFarmer   Role = "FARMER"
	RoleAdmin    Role = "ADMIN"
)

// DefaultRole is assigned when registration omits a role.
const DefaultRole = RoleConsumer

// ParseRole validates a raw role string. Empty input yields the default.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case "":
		return DefaultRole, true
	case RoleConsumer, RoleFarmer, RoleAdmin:
		return Role(raw), true
	default:
		return "", false
	}
}

// User is the domain model for platform accounts. PasswordHash never leaves
// the service layer.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
