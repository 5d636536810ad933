package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const krutrimMaxTokens = 1000

// KrutrimClient implements the Client interface against Krutrim's
// OpenAI-compatible chat completion endpoint.
type KrutrimClient struct {
	client *openai.Client
	model  string
	logger *logrus.Logger
}

// NewKrutrimClient creates a new Krutrim client
func NewKrutrimClient(apiURL, apiKey, model string, logger *logrus.Logger) *KrutrimClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = apiURL
	return &KrutrimClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Complete queries the chat completion endpoint and returns the first choice.
func (k *KrutrimClient) Complete(ctx context.Context, prompt string) (*Completion, error) {
	resp, err := k.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     k.model,
		MaxTokens: krutrimMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		k.logger.WithError(err).Error("krutrim completion request failed")
		return nil, generationErr("krutrim", err)
	}
	if len(resp.Choices) == 0 {
		return nil, generationErr("krutrim", errors.New("empty choices"))
	}

	raw, _ := json.Marshal(resp)
	return &Completion{Text: resp.Choices[0].Message.Content, Raw: raw}, nil
}

// CompleteStream forwards chat completion deltas to fn in arrival order.
func (k *KrutrimClient) CompleteStream(ctx context.Context, prompt string, fn func(delta string) error) error {
	stream, err := k.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:     k.model,
		MaxTokens: krutrimMaxTokens,
		Stream:    true,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		k.logger.WithError(err).Error("krutrim stream request failed")
		return generationErr("krutrim", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			k.logger.WithError(err).Error("krutrim stream interrupted")
			return generationErr("krutrim", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			if err := fn(delta); err != nil {
				return err
			}
		}
	}
}
