package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserRole is the global role a user holds across the whole instance.
type UserRole string

const (
	UserRoleAdministrator UserRole = "administrator"
	UserRoleRegular       UserRole = "regular"
)

// User represents a registered account.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string    `bun:"id,pk,type:uuid"`
	Name         string    `bun:"name,notnull"`
	EmailAddress string    `bun:"email_address,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         UserRole  `bun:"role,notnull,default:'regular'"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// IsAdministrator reports whether the user holds the global administrator role.
func (u *User) IsAdministrator() bool {
	return u != nil && u.Role == UserRoleAdministrator
}
