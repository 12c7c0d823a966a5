package domain

import "time"

// Role partitions the identity namespace. The same email may exist
// independently under both roles.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether the role is one of the known partitions.
func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

// Account is the credential record stored per (role, email) pair.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
