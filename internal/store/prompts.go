package store

import (
	"context"
	stderrors "errors"

	"VoxGate/internal/models"
	"VoxGate/pkg/errors"

	"gorm.io/gorm"
)

type PromptStore struct {
	db *gorm.DB
}

func NewPromptStore(db *gorm.DB) *PromptStore {
	return &PromptStore{db: db}
}

// Create inserts a new prompt record before any provider output exists, so a
// stable identity is available for later response/audio attachment.
func (s *PromptStore) Create(ctx context.Context, userID uint, provider, text string) (*models.Prompt, error) {
	if text == "" {
		return nil, errors.Validation("prompt text must not be empty")
	}
	prompt := &models.Prompt{
		UserID:   userID,
		Provider: provider,
		Text:     text,
	}
	if err := s.db.WithContext(ctx).Create(prompt).Error; err != nil {
		return nil, errors.Wrap(err, "creating prompt record")
	}
	return prompt, nil
}

// AttachResponse stores the provider output on an existing record.
func (s *PromptStore) AttachResponse(ctx context.Context, id uint, text string, raw []byte) error {
	updates := map[string]interface{}{"response_text": text}
	if len(raw) > 0 {
		updates["response_raw"] = string(raw)
	}
	return s.update(ctx, id, updates)
}

// AttachAudio stores synthesis results on an existing record.
func (s *PromptStore) AttachAudio(ctx context.Context, id uint, url, voiceID string, duration float64) error {
	return s.update(ctx, id, map[string]interface{}{
		"audio_url": url,
		"voice_id":  voiceID,
		"duration":  duration,
	})
}

func (s *PromptStore) update(ctx context.Context, id uint, updates map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Prompt{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return errors.Wrap(res.Error, "updating prompt record")
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("prompt not found")
	}
	return nil
}

// Get returns one prompt by id.
func (s *PromptStore) Get(ctx context.Context, id uint) (*models.Prompt, error) {
	var prompt models.Prompt
	err := s.db.WithContext(ctx).First(&prompt, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("prompt not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying prompt")
	}
	return &prompt, nil
}

// ListByUser returns one page of a user's prompts for provider, newest first.
// Ties on the creation timestamp are broken by id descending so pagination
// stays deterministic.
func (s *PromptStore) ListByUser(ctx context.Context, userID uint, provider string, page, limit int) ([]models.Prompt, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Prompt{}).
		Where("user_id = ? AND provider = ?", userID, provider)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting prompt records")
	}

	var prompts []models.Prompt
	err := q.Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&prompts).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing prompt records")
	}
	return prompts, total, nil
}
