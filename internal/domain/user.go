package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
	RoleFraud Role = "fraud"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin, RoleFraud:
		return true
	}
	return false
}

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name      string    `gorm:"size:128" json:"name"`
	PhotoURL  string    `gorm:"size:512" json:"photoURL"`
	UID       string    `gorm:"size:128;not null" json:"uid"`
	Role      Role      `gorm:"size:16;not null;default:user;index" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	// SetRole updates the role of email, optionally only when the current role is one of from.
	SetRole(ctx context.Context, email string, to Role, from ...Role) (int64, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}
