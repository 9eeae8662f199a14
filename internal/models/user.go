package models

import "gorm.io/gorm"

// User represents a registered account.
type User struct {
	gorm.Model
	Username     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Address      string `gorm:"size:255"`
	PhoneNumber  string `gorm:"size:50"`
	Birthday     string `gorm:"size:20"`
	AvatarColor  string `gorm:"size:20;not null;default:'blue'"`

	Statistics Statistics `gorm:"foreignKey:UserID"`
}
