package handlers

import (
	"net/http"
	"strconv"

	"VoxGate/internal/auth"
	"VoxGate/internal/models"
	"VoxGate/pkg/response"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) handleGrokGenerate(c *gin.Context) {
	var req struct {
		Prompt  string `json:"prompt" binding:"required"`
		VoiceID string `json:"voiceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.orchestrator.Generate(c.Request.Context(), auth.CurrentUserID(c), req.Prompt, req.VoiceID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handlers) handleGrokHistory(c *gin.Context) {
	h.handleHistory(c, models.ProviderGrok)
}

func (h *Handlers) handleHistory(c *gin.Context, provider string) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	history, err := h.orchestrator.History(c.Request.Context(), auth.CurrentUserID(c), provider, page, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
