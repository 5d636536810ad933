package handlers

import (
	"net/http"
	"time"

	"VoxGate/pkg/config"

	"github.com/gin-gonic/gin"
)

// HealthCheck 健康检查接口
func (h *Handlers) HealthCheck(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database connection failed"})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database ping failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handlers) HealthGrok(c *gin.Context) {
	h.pingUpstream(c, "grok_api", config.GlobalConfig.GrokAPIURL)
}

func (h *Handlers) HealthTTS(c *gin.Context) {
	h.pingUpstream(c, "tts_api", config.GlobalConfig.TTSAPIURL+"/voices")
}

func (h *Handlers) pingUpstream(c *gin.Context, name, url string) {
	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, url, nil)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", name: err.Error()})
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", name: "unreachable"})
		return
	}
	resp.Body.Close()

	c.JSON(http.StatusOK, gin.H{"status": "healthy", name: resp.StatusCode})
}
