package models

import "time"

// Provider values recorded on a Prompt.
const (
	ProviderGrok    = "grok"
	ProviderKrutrim = "krutrim"
)

// Prompt is one prompt/response/audio unit of history. Text is immutable
// after creation; the response is attached once provider output is available
// and audio fields only after a successful synthesis call.
type Prompt struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"userId" gorm:"index"`
	Provider     string    `json:"provider" gorm:"size:32;index"` // grok / krutrim
	Text         string    `json:"text" gorm:"type:text"`
	ResponseText string    `json:"responseText" gorm:"type:text"`
	ResponseRaw  string    `json:"-" gorm:"type:text"` // raw provider payload
	AudioURL     string    `json:"audioUrl,omitempty" gorm:"size:2048"`
	VoiceID      string    `json:"voiceId,omitempty" gorm:"size:128"`
	Duration     float64   `json:"duration" gorm:"default:0"` // seconds
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
