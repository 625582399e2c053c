package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Username     string  `gorm:"uniqueIndex;not null"`
	Email        *string `gorm:"uniqueIndex"`
	FullName     string
	Disabled     bool   `gorm:"not null;default:false"`
	PasswordHash string `gorm:"not null"`

	// Per-user UI settings (dark mode etc.), persisted server-side
	Preferences datatypes.JSON

	// Relationships
	Projects []Project `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
