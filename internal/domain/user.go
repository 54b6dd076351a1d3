package domain

import "time"

// Role enumerates access roles a user can hold.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleTech   Role = "TECH"
	RoleAdmin  Role = "ADMIN"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleTech, RoleAdmin:
		return true
	}
	return false
}

// User is the single account model shared by clients, technicians and admins.
type User struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	Role               Role
	IsActive           bool
	MustChangePassword bool
	AvatarURL          *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// TechnicianProfile is populated only for TECH users.
	TechnicianProfile *TechnicianProfile
}

// TechnicianProfile carries the availability labels attached to a TECH user.
// Labels are display/filter data only; ticket volume is never checked
// against them.
type TechnicianProfile struct {
	ID                string
	UserID            string
	AvailabilityTimes []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
