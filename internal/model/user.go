package model

import "time"

// Role enumerates the account roles.
type Role string

const (
	RoleStudent    Role = "student"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsAdministrative reports whether the role grants access to the admin API.
func (r Role) IsAdministrative() bool {
	return r == RoleStaff || r == RoleAdmin || r == RoleSuperAdmin
}

// User represents an account, either a student or a staff member.
type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	RollNo       string    `json:"roll_no,omitempty"`
	ClassName    string    `json:"class_name,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// SignupRequest is the payload for student self-registration.
type SignupRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"required,email,max=255"`
	RollNo    string `json:"roll_no" binding:"required,min=1,max=50"`
	ClassName string `json:"class_name" binding:"required,min=1,max=100"`
	Password  string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest is the payload for authentication (students and staff).
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateStaffRequest is the payload for creating a staff account.
type CreateStaffRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=6,max=128"`
	Role      Role   `json:"role" binding:"required,oneof=staff admin"`
}
