package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"VoxGate/internal/models"
	"VoxGate/pkg/cache"
	"VoxGate/pkg/errors"
	"VoxGate/pkg/llm"
	"VoxGate/pkg/metrics"

	"go.uber.org/zap"
)

// resultTTL is the cache lifetime of a generation result.
const resultTTL = time.Hour

// streamBuffer bounds how many deltas may pile up ahead of a slow consumer.
const streamBuffer = 16

// PromptLog is the interaction history consumed by the orchestrator.
type PromptLog interface {
	Create(ctx context.Context, userID uint, provider, text string) (*models.Prompt, error)
	AttachResponse(ctx context.Context, id uint, text string, raw []byte) error
	AttachAudio(ctx context.Context, id uint, url, voiceID string, duration float64) error
	ListByUser(ctx context.Context, userID uint, provider string, page, limit int) ([]models.Prompt, int64, error)
}

// Speech is the synthesis capability consumed by the orchestrator.
type Speech interface {
	Synthesize(ctx context.Context, text, voiceID string) (*SpeechResult, error)
}

// GenerateResult is the unified outcome of a generation request.
type GenerateResult struct {
	Text     string  `json:"text"`
	AudioURL string  `json:"audioUrl"`
	Duration float64 `json:"duration"`
}

// StreamEvent is one event of a streaming generation. Exactly one of
// Content, Err or Done is meaningful per event; Done or Err terminates the
// stream.
type StreamEvent struct {
	Content string
	Err     error
	Done    bool
}

// Orchestrator coordinates inbound generation requests across the LLM
// providers, the speech synthesizer, the interaction log and the response
// cache.
type Orchestrator struct {
	grok    llm.Client
	krutrim llm.Client
	speech  Speech
	prompts PromptLog
	cache   cache.Cache
	log     *zap.Logger
}

func NewOrchestrator(grok, krutrim llm.Client, speech Speech, prompts PromptLog, c cache.Cache, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		grok:    grok,
		krutrim: krutrim,
		speech:  speech,
		prompts: prompts,
		cache:   c,
		log:     log,
	}
}

func cacheKey(userID uint, prompt, voiceID string) string {
	return fmt.Sprintf("%d:%s:%s", userID, prompt, voiceID)
}

// decodeResult round-trips a cached value into a typed result. Cached values
// come back as generic JSON maps from redis and as the original struct from
// the in-memory cache; marshaling again handles both.
func decodeResult(v interface{}) (*GenerateResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var res GenerateResult
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Generate runs the synchronous grok generation flow: cache lookup,
// completion, speech synthesis, history write, cache write. A cache hit
// returns the stored result without touching any provider or creating a
// history record.
func (o *Orchestrator) Generate(ctx context.Context, userID uint, prompt, voiceID string) (*GenerateResult, error) {
	key := cacheKey(userID, prompt, voiceID)
	if v, ok := o.cache.Get(ctx, key); ok {
		if res, err := decodeResult(v); err == nil {
			o.log.Debug("generation served from cache", zap.Uint("userId", userID))
			return res, nil
		}
	}

	rec, err := o.prompts.Create(ctx, userID, models.ProviderGrok, prompt)
	if err != nil {
		return nil, err
	}

	comp, err := o.grok.Complete(ctx, prompt)
	metrics.ObserveUpstream("grok", err)
	if err != nil {
		return nil, errors.Upstream(err, "failed to generate response")
	}
	if err := o.prompts.AttachResponse(ctx, rec.ID, comp.Text, comp.Raw); err != nil {
		return nil, err
	}

	speech, err := o.speech.Synthesize(ctx, comp.Text, voiceID)
	if err != nil {
		return nil, err
	}
	if err := o.prompts.AttachAudio(ctx, rec.ID, speech.URL, voiceID, speech.Duration); err != nil {
		return nil, err
	}

	res := &GenerateResult{Text: comp.Text, AudioURL: speech.URL, Duration: speech.Duration}
	if err := o.cache.Set(ctx, key, res, resultTTL); err != nil {
		// cache being down never fails the request
		o.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return res, nil
}

// Complete runs the batch krutrim flow: record, completion, history write.
func (o *Orchestrator) Complete(ctx context.Context, userID uint, prompt string) (string, error) {
	rec, err := o.prompts.Create(ctx, userID, models.ProviderKrutrim, prompt)
	if err != nil {
		return "", err
	}

	comp, err := o.krutrim.Complete(ctx, prompt)
	metrics.ObserveUpstream("krutrim", err)
	if err != nil {
		return "", errors.Upstream(err, "failed to generate response")
	}
	if err := o.prompts.AttachResponse(ctx, rec.ID, comp.Text, comp.Raw); err != nil {
		return "", err
	}
	return comp.Text, nil
}

// Stream starts a streaming krutrim generation. It creates the history
// record up front so its identity can be announced before any token arrives,
// then feeds deltas into the returned bounded channel in upstream order. The
// accumulated text is persisted in a single update when the upstream
// finishes or fails; consumer cancellation (ctx done) stops production.
func (o *Orchestrator) Stream(ctx context.Context, userID uint, prompt string) (uint, <-chan StreamEvent, error) {
	rec, err := o.prompts.Create(ctx, userID, models.ProviderKrutrim, prompt)
	if err != nil {
		return 0, nil, err
	}

	ch := make(chan StreamEvent, streamBuffer)
	go func() {
		defer close(ch)

		var full strings.Builder
		streamErr := o.krutrim.CompleteStream(ctx, prompt, func(delta string) error {
			full.WriteString(delta)
			select {
			case ch <- StreamEvent{Content: delta}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		metrics.ObserveUpstream("krutrim", streamErr)

		// Whatever was accumulated stays on the record, also on failure.
		if full.Len() > 0 {
			if err := o.prompts.AttachResponse(context.WithoutCancel(ctx), rec.ID, full.String(), nil); err != nil {
				o.log.Error("persisting streamed response failed", zap.Uint("promptId", rec.ID), zap.Error(err))
			}
		}

		if ctx.Err() != nil {
			// consumer disconnected, nobody is listening anymore
			return
		}
		if streamErr != nil {
			o.log.Error("stream generation failed", zap.Uint("promptId", rec.ID), zap.Error(streamErr))
			select {
			case ch <- StreamEvent{Err: errors.Upstream(streamErr, "failed to generate response")}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case ch <- StreamEvent{Done: true}:
		case <-ctx.Done():
		}
	}()

	return rec.ID, ch, nil
}

// PromptView is the history representation of one prompt.
type PromptView struct {
	ID           uint      `json:"id"`
	Text         string    `json:"text"`
	ResponseText string    `json:"responseText,omitempty"`
	AudioURL     string    `json:"audioUrl,omitempty"`
	VoiceID      string    `json:"voiceId,omitempty"`
	Duration     float64   `json:"duration"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type HistoryPage struct {
	Prompts    []PromptView `json:"prompts"`
	Pagination Pagination   `json:"pagination"`
}

// History returns one page of a user's prompt history for provider, newest
// first.
func (o *Orchestrator) History(ctx context.Context, userID uint, provider string, page, limit int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	prompts, total, err := o.prompts.ListByUser(ctx, userID, provider, page, limit)
	if err != nil {
		return nil, err
	}

	views := make([]PromptView, 0, len(prompts))
	for _, p := range prompts {
		views = append(views, PromptView{
			ID:           p.ID,
			Text:         p.Text,
			ResponseText: p.ResponseText,
			AudioURL:     p.AudioURL,
			VoiceID:      p.VoiceID,
			Duration:     p.Duration,
			CreatedAt:    p.CreatedAt,
		})
	}

	return &HistoryPage{
		Prompts: views,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// AttachAudio links an independently synthesized audio result to an existing
// prompt record.
func (o *Orchestrator) AttachAudio(ctx context.Context, promptID uint, url, voiceID string, duration float64) error {
	return o.prompts.AttachAudio(ctx, promptID, url, voiceID, duration)
}
