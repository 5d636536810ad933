package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"VoxGate/internal/models"
	"VoxGate/pkg/cache"
	"VoxGate/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLLM struct {
	mu            sync.Mutex
	completeCalls int
	streamCalls   int
	text          string
	deltas        []string
	err           error
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (*llm.Completion, error) {
	f.mu.Lock()
	f.completeCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Text: f.text, Raw: []byte(`{"raw":true}`)}, nil
}

func (f *fakeLLM) CompleteStream(ctx context.Context, prompt string, fn func(delta string) error) error {
	f.mu.Lock()
	f.streamCalls++
	f.mu.Unlock()
	for _, d := range f.deltas {
		if err := fn(d); err != nil {
			return err
		}
	}
	return f.err
}

func (f *fakeLLM) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completeCalls, f.streamCalls
}

type fakeSpeech struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text, voiceID string) (*SpeechResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &SpeechResult{URL: "https://blob/" + voiceID + ".mp3", Duration: EstimateDuration(text), Format: "mp3"}, nil
}

type memoryLog struct {
	mu      sync.Mutex
	nextID  uint
	prompts map[uint]*models.Prompt
}

func newMemoryLog() *memoryLog {
	return &memoryLog{nextID: 1, prompts: make(map[uint]*models.Prompt)}
}

func (l *memoryLog) Create(ctx context.Context, userID uint, provider, text string) (*models.Prompt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := &models.Prompt{ID: l.nextID, UserID: userID, Provider: provider, Text: text, CreatedAt: time.Now()}
	l.prompts[p.ID] = p
	l.nextID++
	return p, nil
}

func (l *memoryLog) AttachResponse(ctx context.Context, id uint, text string, raw []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.prompts[id]
	if !ok {
		return fmt.Errorf("prompt %d not found", id)
	}
	p.ResponseText = text
	p.ResponseRaw = string(raw)
	return nil
}

func (l *memoryLog) AttachAudio(ctx context.Context, id uint, url, voiceID string, duration float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.prompts[id]
	if !ok {
		return fmt.Errorf("prompt %d not found", id)
	}
	p.AudioURL = url
	p.VoiceID = voiceID
	p.Duration = duration
	return nil
}

func (l *memoryLog) ListByUser(ctx context.Context, userID uint, provider string, page, limit int) ([]models.Prompt, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var all []models.Prompt
	for _, p := range l.prompts {
		if p.UserID == userID && p.Provider == provider {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (l *memoryLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prompts)
}

func (l *memoryLog) get(id uint) models.Prompt {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.prompts[id]
}

func newTestOrchestrator(grok, krutrim *fakeLLM, speech *fakeSpeech) (*Orchestrator, *memoryLog) {
	log := newMemoryLog()
	c := cache.NewMemoryCache(cache.LocalConfig{})
	return NewOrchestrator(grok, krutrim, speech, log, c, zap.NewNop()), log
}

func TestGenerate_CacheMissThenHit(t *testing.T) {
	grok := &fakeLLM{text: "Hello there."}
	speech := &fakeSpeech{}
	o, log := newTestOrchestrator(grok, &fakeLLM{}, speech)
	ctx := context.Background()

	first, err := o.Generate(ctx, 1, "hi", "voice-1")
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", first.Text)
	assert.NotEmpty(t, first.AudioURL)
	assert.Greater(t, first.Duration, 0.0)

	// miss created exactly one history record with everything attached
	assert.Equal(t, 1, log.count())
	rec := log.get(1)
	assert.Equal(t, "hi", rec.Text)
	assert.Equal(t, "Hello there.", rec.ResponseText)
	assert.Equal(t, first.AudioURL, rec.AudioURL)

	second, err := o.Generate(ctx, 1, "hi", "voice-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// hit: no new provider calls, no new record
	completes, _ := grok.calls()
	assert.Equal(t, 1, completes)
	assert.Equal(t, 1, speech.calls)
	assert.Equal(t, 1, log.count())
}

func TestGenerate_DistinctKeysMissSeparately(t *testing.T) {
	grok := &fakeLLM{text: "answer"}
	o, log := newTestOrchestrator(grok, &fakeLLM{}, &fakeSpeech{})
	ctx := context.Background()

	_, err := o.Generate(ctx, 1, "hi", "voice-1")
	require.NoError(t, err)
	_, err = o.Generate(ctx, 1, "hi", "voice-2")
	require.NoError(t, err)
	_, err = o.Generate(ctx, 2, "hi", "voice-1")
	require.NoError(t, err)

	completes, _ := grok.calls()
	assert.Equal(t, 3, completes)
	assert.Equal(t, 3, log.count())
}

func TestGenerate_ProviderFailureNotCached(t *testing.T) {
	grok := &fakeLLM{err: errors.New("boom")}
	o, _ := newTestOrchestrator(grok, &fakeLLM{}, &fakeSpeech{})
	ctx := context.Background()

	_, err := o.Generate(ctx, 1, "hi", "voice-1")
	require.Error(t, err)

	// failure must not populate the cache: next call hits the provider again
	_, err = o.Generate(ctx, 1, "hi", "voice-1")
	require.Error(t, err)
	completes, _ := grok.calls()
	assert.Equal(t, 2, completes)
}

func TestGenerate_SynthesisFailureAborts(t *testing.T) {
	grok := &fakeLLM{text: "answer"}
	speech := &fakeSpeech{err: errors.New("tts down")}
	o, log := newTestOrchestrator(grok, &fakeLLM{}, speech)

	_, err := o.Generate(context.Background(), 1, "hi", "voice-1")
	require.Error(t, err)

	// the partial record stays; the audio fields were never set
	assert.Equal(t, 1, log.count())
	assert.Empty(t, log.get(1).AudioURL)
}

func TestComplete_PersistsRecord(t *testing.T) {
	krutrim := &fakeLLM{text: "Namaste"}
	o, log := newTestOrchestrator(&fakeLLM{}, krutrim, &fakeSpeech{})

	text, err := o.Complete(context.Background(), 3, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Namaste", text)

	rec := log.get(1)
	assert.Equal(t, models.ProviderKrutrim, rec.Provider)
	assert.Equal(t, "Namaste", rec.ResponseText)
}

func TestStream_OrderAndPersistence(t *testing.T) {
	krutrim := &fakeLLM{deltas: []string{"Hel", "lo", " world"}}
	o, log := newTestOrchestrator(&fakeLLM{}, krutrim, &fakeSpeech{})

	promptID, events, err := o.Stream(context.Background(), 1, "hi")
	require.NoError(t, err)
	assert.NotZero(t, promptID)

	var got []string
	var done bool
	for ev := range events {
		require.NoError(t, ev.Err)
		if ev.Done {
			done = true
			continue
		}
		got = append(got, ev.Content)
	}
	assert.True(t, done)
	assert.Equal(t, []string{"Hel", "lo", " world"}, got)

	// accumulated text is persisted in one update
	assert.Equal(t, "Hello world", log.get(promptID).ResponseText)
}

func TestStream_UpstreamFailureKeepsPartialText(t *testing.T) {
	krutrim := &fakeLLM{deltas: []string{"par", "tial"}, err: errors.New("upstream died")}
	o, log := newTestOrchestrator(&fakeLLM{}, krutrim, &fakeSpeech{})

	promptID, events, err := o.Stream(context.Background(), 1, "hi")
	require.NoError(t, err)

	var sawErr bool
	for ev := range events {
		if ev.Err != nil {
			sawErr = true
		}
		assert.False(t, ev.Done)
	}
	assert.True(t, sawErr)
	assert.Equal(t, "partial", log.get(promptID).ResponseText)
}

func TestStream_ConsumerCancellation(t *testing.T) {
	krutrim := &fakeLLM{deltas: []string{"a", "b", "c"}}
	o, _ := newTestOrchestrator(&fakeLLM{}, krutrim, &fakeSpeech{})

	ctx, cancel := context.WithCancel(context.Background())
	_, events, err := o.Stream(ctx, 1, "hi")
	require.NoError(t, err)

	// consumer walks away after the first delta
	<-events
	cancel()

	// producer must close the channel without panicking
	for range events {
	}
}

func TestHistory_Pagination(t *testing.T) {
	o, log := newTestOrchestrator(&fakeLLM{}, &fakeLLM{}, &fakeSpeech{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := log.Create(ctx, 1, models.ProviderGrok, fmt.Sprintf("prompt %d", i))
		require.NoError(t, err)
	}

	page, err := o.History(ctx, 1, models.ProviderGrok, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.Pages) // ceil(5/2)
	require.Len(t, page.Prompts, 2)
	assert.Equal(t, "prompt 2", page.Prompts[0].Text)
	assert.Equal(t, "prompt 1", page.Prompts[1].Text)
}

func TestHistory_DefaultsAppliedForBadPaging(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeLLM{}, &fakeLLM{}, &fakeSpeech{})

	page, err := o.History(context.Background(), 1, models.ProviderGrok, 0, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.Limit)
}
