package handlers

import (
	"net/http"

	"VoxGate/pkg/response"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) handleListVoices(c *gin.Context) {
	voices, err := h.tts.ListVoices(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"voices": voices})
}

// handleGenerateSpeech synthesizes standalone audio. When promptId is given,
// the result is also attached to that history record, decoupling text
// generation from speech synthesis.
func (h *Handlers) handleGenerateSpeech(c *gin.Context) {
	var req struct {
		Text     string `json:"text" binding:"required"`
		VoiceID  string `json:"voiceId" binding:"required"`
		PromptID uint   `json:"promptId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.tts.Synthesize(c.Request.Context(), req.Text, req.VoiceID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	body := gin.H{"url": result.URL, "duration": result.Duration, "format": result.Format}
	if req.PromptID != 0 {
		if err := h.orchestrator.AttachAudio(c.Request.Context(), req.PromptID, result.URL, req.VoiceID, result.Duration); err != nil {
			response.FromError(c, err)
			return
		}
		body["promptId"] = req.PromptID
	}
	c.JSON(http.StatusOK, body)
}
