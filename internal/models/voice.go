package models

import "time"

// Voice is a selectable TTS voice, cached locally to avoid repeated upstream
// listing calls. Rows are populated lazily on the first listing request.
type Voice struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	ExternalID string    `json:"id" gorm:"size:128;uniqueIndex"`
	Name       string    `json:"name" gorm:"size:255"`
	Category   string    `json:"category" gorm:"size:128"`
	ImageURL   string    `json:"imageUrl,omitempty" gorm:"size:1024"`
	SampleURL  string    `json:"sampleUrl,omitempty" gorm:"size:1024"`
	IsActive   bool      `json:"-" gorm:"default:true"`
	CreatedAt  time.Time `json:"-" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"-" gorm:"autoUpdateTime"`
}
