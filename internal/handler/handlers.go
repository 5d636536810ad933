package handlers

import (
	"VoxGate/internal/auth"
	"VoxGate/internal/service"
	"VoxGate/internal/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handlers struct {
	db           *gorm.DB
	users        *store.UserStore
	orchestrator *service.Orchestrator
	tts          *service.Synthesizer
	tokens       *auth.TokenManager
	log          *zap.Logger
}

func NewHandlers(
	db *gorm.DB,
	users *store.UserStore,
	orchestrator *service.Orchestrator,
	tts *service.Synthesizer,
	tokens *auth.TokenManager,
	log *zap.Logger,
) *Handlers {
	return &Handlers{
		db:           db,
		users:        users,
		orchestrator: orchestrator,
		tts:          tts,
		tokens:       tokens,
		log:          log,
	}
}
