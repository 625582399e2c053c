package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	// Name is unique within its owner's projects, not across the table;
	// the store enforces it.
	Name        string `gorm:"not null"`
	Description string
	OwnerID     uint `gorm:"not null;index"`

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
