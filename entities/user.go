package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleFarmer = "farmer"
	RoleAgent  = "agent"
)

type User struct {
	ID    string `gorm:"primaryKey;size:36" json:"id"`
	Email string `gorm:"uniqueIndex" json:"email"`
	Name  string `json:"name"`
	Role  string `gorm:"index" json:"role"` // admin|farmer|agent

	// AuthUID is the identity-provider subject the user signed up with.
	AuthUID *string `gorm:"uniqueIndex;size:128" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsStaff reports whether the user may curate the shared catalogue.
func (u *User) IsStaff() bool { return u.Role == RoleAdmin || u.Role == RoleAgent }
