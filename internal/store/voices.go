package store

import (
	"context"

	"VoxGate/internal/models"
	"VoxGate/pkg/errors"

	"gorm.io/gorm"
)

type VoiceStore struct {
	db *gorm.DB
}

func NewVoiceStore(db *gorm.DB) *VoiceStore {
	return &VoiceStore{db: db}
}

func (s *VoiceStore) ListActive(ctx context.Context) ([]models.Voice, error) {
	var voices []models.Voice
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&voices).Error; err != nil {
		return nil, errors.Wrap(err, "listing voices")
	}
	return voices, nil
}

// SaveAll persists freshly fetched voice descriptors.
func (s *VoiceStore) SaveAll(ctx context.Context, voices []models.Voice) error {
	if len(voices) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&voices).Error; err != nil {
		return errors.Wrap(err, "saving voices")
	}
	return nil
}

// AutoMigrate creates the schema for all models. Called once at startup.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Prompt{}, &models.Voice{})
}
