package domain

import "time"

// Roles of the Eventio marketplace.
const (
	RoleAdmin    = "admin"
	RoleClient   = "client"
	RoleProvider = "provider"
)

type User struct {
	UserID          string     `json:"id" dynamodbav:"user_id"`
	Name            string     `json:"name" dynamodbav:"name"`
	Email           string     `json:"email" dynamodbav:"email"`
	Phone           *string    `json:"phone" dynamodbav:"phone"`
	PasswordHash    string     `json:"-" dynamodbav:"password_hash"`
	Role            string     `json:"role" dynamodbav:"role"` // "admin" | "client" | "provider"
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty" dynamodbav:"email_verified_at"`
	PhoneConfirmed  bool       `json:"phone_confirmed" dynamodbav:"phone_confirmed"`
	Enable          bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt       time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// EmailVerified reports whether the user has completed email verification.
func (u *User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}
