// Package model defines the domain records of the user hub.
package model

import "time"

// Role values assignable to a user. Roles are fixed at creation; the only
// admin is the bootstrap account.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the canonical user record. The password hash and the refresh
// token are secrets and must never reach a client, hence `json:"-"`.
type User struct {
	Id           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	City         string `json:"city"`
	Active       bool   `json:"active"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
	RefreshToken string `json:"-"`
}

// PublicUser is the client-facing projection of a User.
type PublicUser struct {
	Id     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	City   string `json:"city"`
	Active bool   `json:"active"`
	Role   string `json:"role"`
}

// Public returns the projection of u safe for serialization.
func (u *User) Public() PublicUser {
	return PublicUser{
		Id:     u.Id,
		Name:   u.Name,
		Email:  u.Email,
		City:   u.City,
		Active: u.Active,
		Role:   u.Role,
	}
}

// AuditLog is one persisted audit trail entry.
type AuditLog struct {
	Id         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ActorId    int64     `json:"actorId"`
	ActorEmail string    `json:"actorEmail"`
	Action     string    `json:"action"`   // CREATE, UPDATE, LOGIN, LOGOUT
	Resource   string    `json:"resource"` // user, token
	ResourceId int64     `json:"resourceId"`
	IP         string    `json:"ip"`
	Details    string    `json:"details"` // JSON blob with extra fields
	CreatedAt  time.Time `json:"createdAt"`
}
