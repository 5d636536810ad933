package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

const grokMaxTokens = 1000

// GrokClient implements the Client interface against Grok's raw completion
// endpoint.
type GrokClient struct {
	apiURL string
	apiKey string
	http   *http.Client
	logger *logrus.Logger
}

// NewGrokClient creates a new Grok client
func NewGrokClient(apiURL, apiKey string, logger *logrus.Logger) *GrokClient {
	return &GrokClient{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		http:   &http.Client{},
		logger: logger,
	}
}

type grokRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Stream      bool    `json:"stream,omitempty"`
}

type grokResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// Complete queries the completion endpoint and returns the first choice.
func (g *GrokClient) Complete(ctx context.Context, prompt string) (*Completion, error) {
	body, err := json.Marshal(grokRequest{Prompt: prompt, MaxTokens: grokMaxTokens, Temperature: 0.7})
	if err != nil {
		return nil, generationErr("grok", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL+"/completions", bytes.NewReader(body))
	if err != nil {
		return nil, generationErr("grok", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, generationErr("grok", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, generationErr("grok", err)
	}
	if resp.StatusCode != http.StatusOK {
		g.logger.WithField("status", resp.StatusCode).Error("grok completion request failed")
		return nil, generationErr("grok", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed grokResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, generationErr("grok", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, generationErr("grok", fmt.Errorf("empty choices"))
	}

	return &Completion{Text: strings.TrimSpace(parsed.Choices[0].Text), Raw: raw}, nil
}

// CompleteStream reads the chunked event stream of the completion endpoint
// and forwards every text delta to fn in arrival order.
func (g *GrokClient) CompleteStream(ctx context.Context, prompt string, fn func(delta string) error) error {
	body, err := json.Marshal(grokRequest{Prompt: prompt, MaxTokens: grokMaxTokens, Temperature: 0.7, Stream: true})
	if err != nil {
		return generationErr("grok", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL+"/completions", bytes.NewReader(body))
	if err != nil {
		return generationErr("grok", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := g.http.Do(req)
	if err != nil {
		return generationErr("grok", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.WithField("status", resp.StatusCode).Error("grok stream request failed")
		return generationErr("grok", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			return nil
		}
		var chunk grokResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return generationErr("grok", err)
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Text == "" {
			continue
		}
		if err := fn(chunk.Choices[0].Text); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return generationErr("grok", err)
	}
	return nil
}
