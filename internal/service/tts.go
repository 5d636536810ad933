package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"VoxGate/internal/models"
	"VoxGate/pkg/errors"
	"VoxGate/pkg/metrics"
	stores "VoxGate/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// audioURLTTL is how long a generated retrieval URL stays valid.
const audioURLTTL = 24 * time.Hour

// VoiceCatalog is the local store of voice descriptors.
type VoiceCatalog interface {
	ListActive(ctx context.Context) ([]models.Voice, error)
	SaveAll(ctx context.Context, voices []models.Voice) error
}

// SpeechResult is the outcome of one synthesis call.
type SpeechResult struct {
	URL      string  `json:"url"`
	Duration float64 `json:"duration"` // seconds, estimated
	Format   string  `json:"format"`
}

// Synthesizer converts text to speech through an ElevenLabs-style API,
// uploads the audio to blob storage and hands out time-limited URLs.
type Synthesizer struct {
	apiURL string
	apiKey string
	http   *http.Client
	blobs  stores.Store
	voices VoiceCatalog
	log    *zap.Logger
}

func NewSynthesizer(apiURL, apiKey string, blobs stores.Store, voices VoiceCatalog, log *zap.Logger) *Synthesizer {
	return &Synthesizer{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		http:   &http.Client{Timeout: 60 * time.Second},
		blobs:  blobs,
		voices: voices,
		log:    log,
	}
}

// EstimateDuration is the documented duration heuristic: half a second per
// word, not measured from the audio.
func EstimateDuration(text string) float64 {
	return float64(len(strings.Fields(text))) * 0.5
}

// Synthesize generates audio for text with the given voice, uploads it under
// a fresh random key and returns a 24-hour retrieval URL.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voiceID string) (*SpeechResult, error) {
	body, err := json.Marshal(map[string]interface{}{
		"text":     text,
		"model_id": "eleven_monolingual_v1",
		"voice_settings": map[string]float64{
			"stability":        0.5,
			"similarity_boost": 0.5,
		},
	})
	if err != nil {
		return nil, errors.Upstream(err, "failed to generate speech")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/text-to-speech/"+voiceID, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Upstream(err, "failed to generate speech")
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.http.Do(req)
	metrics.ObserveUpstream("tts", err)
	if err != nil {
		return nil, errors.Upstream(err, "failed to generate speech")
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Upstream(err, "failed to generate speech")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Upstream(fmt.Errorf("tts status %d: %s", resp.StatusCode, audio), "failed to generate speech")
	}

	key := "audio/" + uuid.NewString() + ".mp3"
	if err := s.blobs.Write(ctx, key, bytes.NewReader(audio), int64(len(audio)), "audio/mpeg"); err != nil {
		return nil, errors.Upstream(err, "failed to upload audio")
	}
	url, err := s.blobs.PresignedURL(ctx, key, audioURLTTL)
	if err != nil {
		return nil, errors.Upstream(err, "failed to upload audio")
	}

	s.log.Info("speech generated",
		zap.String("voiceId", voiceID),
		zap.String("key", key),
		zap.Int("bytes", len(audio)),
	)

	return &SpeechResult{
		URL:      url,
		Duration: EstimateDuration(text),
		Format:   "mp3",
	}, nil
}

type upstreamVoices struct {
	Voices []struct {
		VoiceID    string `json:"voice_id"`
		Name       string `json:"name"`
		Category   string `json:"category"`
		PreviewURL string `json:"preview_url"`
	} `json:"voices"`
}

// ListVoices serves voice descriptors from the local catalog, fetching and
// persisting them from the provider only when the catalog is empty. The
// catalog is never refreshed afterwards; staleness is accepted.
func (s *Synthesizer) ListVoices(ctx context.Context) ([]models.Voice, error) {
	cached, err := s.voices.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"/voices", nil)
	if err != nil {
		return nil, errors.Upstream(err, "failed to fetch available voices")
	}
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.http.Do(req)
	metrics.ObserveUpstream("tts", err)
	if err != nil {
		return nil, errors.Upstream(err, "failed to fetch available voices")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Upstream(fmt.Errorf("voices status %d", resp.StatusCode), "failed to fetch available voices")
	}

	var parsed upstreamVoices
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Upstream(err, "failed to fetch available voices")
	}

	voices := make([]models.Voice, 0, len(parsed.Voices))
	for _, v := range parsed.Voices {
		category := v.Category
		if category == "" {
			category = "general"
		}
		voice := models.Voice{
			ExternalID: v.VoiceID,
			Name:       v.Name,
			Category:   category,
			SampleURL:  v.PreviewURL,
			IsActive:   true,
		}
		if v.PreviewURL != "" {
			voice.ImageURL = "https://avatars.elevenlabs.io/" + v.VoiceID
		}
		voices = append(voices, voice)
	}

	if err := s.voices.SaveAll(ctx, voices); err != nil {
		return nil, err
	}
	return voices, nil
}
