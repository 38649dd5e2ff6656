package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string    `bun:"id,pk" json:"id"`
	Username     string    `bun:"username,notnull,unique" json:"username"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	Name         string    `bun:"name,notnull" json:"name"`
	Department   string    `bun:"department,notnull" json:"department"`
	Role         string    `bun:"role,notnull" json:"role"`
	Experience   string    `bun:"experience,notnull" json:"experience"`
	Email        string    `bun:"email,notnull" json:"email,omitempty"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanViewAnalytics reports whether the user may open the HR dashboards.
func (u *User) CanViewAnalytics() bool {
	return u.Role == RoleHR || u.Role == RoleAdmin
}
