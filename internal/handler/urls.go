package handlers

import (
	"VoxGate/pkg/config"
	"VoxGate/pkg/metrics"
	"VoxGate/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) Register(engine *gin.Engine) {
	// liveness endpoints stay outside the API group: no auth, no throttle
	engine.GET("/health", h.HealthCheck)
	engine.GET("/health/grok", h.HealthGrok)
	engine.GET("/health/tts", h.HealthTTS)
	engine.GET("/metrics", metrics.Handler())

	r := engine.Group("/api")
	r.Use(middleware.RateLimiter(config.GlobalConfig.RateLimit))

	h.registerUserRoutes(r)
	h.registerGrokRoutes(r)
	h.registerKrutrimRoutes(r)
	h.registerTTSRoutes(r)
}

// User Module
func (h *Handlers) registerUserRoutes(r *gin.RouterGroup) {
	users := r.Group("users")
	{
		users.POST("/register", h.handleRegister)

		users.POST("/login", h.handleLogin)

		users.GET("/:id", h.tokens.Required(), h.handleGetUser)

		users.PUT("/:id", h.tokens.Required(), h.handleUpdateUser)

		users.DELETE("/:id", h.tokens.Required(), h.handleDeleteUser)
	}
}

// Grok Module
func (h *Handlers) registerGrokRoutes(r *gin.RouterGroup) {
	grok := r.Group("grok")
	grok.Use(h.tokens.Required())
	{
		grok.POST("/generate", h.handleGrokGenerate)

		grok.GET("/history", h.handleGrokHistory)
	}
}

// Krutrim Module
func (h *Handlers) registerKrutrimRoutes(r *gin.RouterGroup) {
	krutrim := r.Group("krutrim")
	krutrim.Use(h.tokens.Required())
	{
		krutrim.POST("/generate", h.handleKrutrimGenerate)

		krutrim.POST("/stream", h.handleKrutrimStream)

		krutrim.GET("/history", h.handleKrutrimHistory)
	}
}

// TTS Module
func (h *Handlers) registerTTSRoutes(r *gin.RouterGroup) {
	tts := r.Group("tts")
	tts.Use(h.tokens.Required())
	{
		tts.GET("/voices", h.handleListVoices)

		tts.POST("/generate", h.handleGenerateSpeech)
	}
}
