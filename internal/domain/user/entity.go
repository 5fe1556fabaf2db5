package user

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"  // Fleet owner - full access including payroll
	RoleStaff  Role = "staff"  // Office staff - day to day entries
	RoleDriver Role = "driver" // Driver - own duties and parking claims
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleDriver:
		return true
	}
	return false
}

type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash *string
	Role         Role
	DriverID     *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsDriver() bool {
	return u.Role == RoleDriver
}
