package handlers

import (
	"net/http"

	"VoxGate/internal/auth"
	"VoxGate/internal/models"
	"VoxGate/pkg/response"
	"VoxGate/pkg/sse"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handlers) handleKrutrimGenerate(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	text, err := h.orchestrator.Complete(c.Request.Context(), auth.CurrentUserID(c), req.Prompt)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": text})
}

// handleKrutrimStream replays provider deltas to the client as server-sent
// events: first the prompt identity, then one event per delta, then either
// the [DONE] sentinel or a single error event.
func (h *Handlers) handleKrutrimStream(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	promptID, events, err := h.orchestrator.Stream(c.Request.Context(), auth.CurrentUserID(c), req.Prompt)
	if err != nil {
		response.FromError(c, err)
		return
	}

	w, err := sse.NewWriter(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	w.JSON(gin.H{"promptId": promptID})
	for ev := range events {
		switch {
		case ev.Err != nil:
			h.log.Error("stream aborted", zap.Uint("promptId", promptID), zap.Error(ev.Err))
			w.JSON(gin.H{"error": "failed to generate response"})
			return
		case ev.Done:
			w.Data("[DONE]")
			return
		default:
			w.JSON(gin.H{"content": ev.Content})
		}
	}
}

func (h *Handlers) handleKrutrimHistory(c *gin.Context) {
	h.handleHistory(c, models.ProviderKrutrim)
}
