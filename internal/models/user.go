package models

import (
	"time"
)

// Role values assignable to a user.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Status values for a user account.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // stripped before any value leaves the service layer
	Role         string // "admin" or "user"
	Status       string // "active" or "inactive"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListParams are the query parameters accepted by the user list endpoint.
// Page is 1-based. Search matches name or email, case-insensitively.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// UserPage is one page of list results. Total counts all records matching
// the search filter, independent of pagination.
type UserPage struct {
	Users []*User
	Total int
	Page  int
	Limit int
}
