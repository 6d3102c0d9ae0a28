package model

import "time"

// Role is the coarse-grained permission tier of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'user';index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations. Deleting a user takes their ledger rows with it; there is
	// no soft-delete and orphaned transactions have no owner to scope to.
	Transactions []Transaction `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
