package domain

import "time"

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// ValidRole reports whether role is one of the known role names.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User models a registered identity. Email is unique across all users and
// serves as the ownership key for orders.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Principal is the verified identity attached to a request by the auth
// middleware. Handlers must read identity from here, never from raw headers.
type Principal struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// HasRole reports whether the principal's claim set contains the given role.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
