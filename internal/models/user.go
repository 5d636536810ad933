package models

import "time"

type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"size:255;uniqueIndex"`
	Password   string    `json:"-" gorm:"size:255"` // bcrypt hash
	FirstName  string    `json:"firstName,omitempty" gorm:"size:128"`
	LastName   string    `json:"lastName,omitempty" gorm:"size:128"`
	IsVerified bool      `json:"isVerified" gorm:"default:false"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
