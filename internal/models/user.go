package models

import "time"

type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

func ValidUserRole(r UserRole) bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	Id             string    `json:"id"`
	Username       string    `json:"username"`
	Role           UserRole  `json:"role"`
	OrganizationId string    `json:"organizationId,omitempty"`
	Specialties    string    `json:"specialties,omitempty"`
	Rating         float64   `json:"rating"`
	Location       string    `json:"location,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"-"`
}
