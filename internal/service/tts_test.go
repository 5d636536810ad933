package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"VoxGate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeBlobStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://blob.local/" + key + "?signed=1", nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

type fakeCatalog struct {
	mu     sync.Mutex
	voices []models.Voice
}

func (f *fakeCatalog) ListActive(ctx context.Context) ([]models.Voice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.voices, nil
}

func (f *fakeCatalog) SaveAll(ctx context.Context, voices []models.Voice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voices = voices
	return nil
}

func TestEstimateDuration(t *testing.T) {
	assert.Equal(t, 5.0, EstimateDuration("one two three four five six seven eight nine ten"))
	assert.Equal(t, 0.0, EstimateDuration(""))
	assert.Equal(t, 0.5, EstimateDuration("  hello  "))
}

func TestSynthesize(t *testing.T) {
	var gotPath, gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes"))
	}))
	defer ts.Close()

	blobs := newFakeBlobStore()
	s := NewSynthesizer(ts.URL, "tts-key", blobs, &fakeCatalog{}, zap.NewNop())

	res, err := s.Synthesize(context.Background(), "hello wonderful world", "voice-1")
	require.NoError(t, err)

	assert.Equal(t, "/text-to-speech/voice-1", gotPath)
	assert.Equal(t, "tts-key", gotKey)
	assert.Equal(t, "mp3", res.Format)
	assert.Equal(t, 1.5, res.Duration)
	assert.Contains(t, res.URL, "signed=1")

	// the audio must have been uploaded under a fresh key
	require.Len(t, blobs.objects, 1)
	for key, data := range blobs.objects {
		assert.Contains(t, res.URL, key)
		assert.Equal(t, []byte("mp3-bytes"), data)
	}
}

func TestSynthesize_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"voice not found"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	blobs := newFakeBlobStore()
	s := NewSynthesizer(ts.URL, "tts-key", blobs, &fakeCatalog{}, zap.NewNop())

	_, err := s.Synthesize(context.Background(), "hello", "missing-voice")
	require.Error(t, err)
	assert.Empty(t, blobs.objects)
}

func TestListVoices_FetchesOnceThenServesCatalog(t *testing.T) {
	var requests int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"voices":[
			{"voice_id":"v1","name":"Rachel","category":"premade","preview_url":"https://p/v1.mp3"},
			{"voice_id":"v2","name":"Adam","preview_url":""}
		]}`))
	}))
	defer ts.Close()

	catalog := &fakeCatalog{}
	s := NewSynthesizer(ts.URL, "tts-key", newFakeBlobStore(), catalog, zap.NewNop())
	ctx := context.Background()

	voices, err := s.ListVoices(ctx)
	require.NoError(t, err)
	require.Len(t, voices, 2)
	assert.Equal(t, "v1", voices[0].ExternalID)
	assert.Equal(t, "premade", voices[0].Category)
	assert.Equal(t, "https://avatars.elevenlabs.io/v1", voices[0].ImageURL)
	// missing category falls back, no preview means no avatar
	assert.Equal(t, "general", voices[1].Category)
	assert.Empty(t, voices[1].ImageURL)

	again, err := s.ListVoices(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 2)
	assert.Equal(t, 1, requests, "second listing must come from the catalog")
}
