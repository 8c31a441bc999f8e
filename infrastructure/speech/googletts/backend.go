// ABOUTME: Google Cloud Text-to-Speech synthesis backend
// ABOUTME: Renders utterances to MP3 in word-aligned chunks and caches the audio in the key-value store

package googletts

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"digests-a11y/core/domain"
	"digests-a11y/core/interfaces"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
)

const (
	maxChunkSize    = 1000
	defaultLanguage = "en-US"
	audioCacheTTL   = 7 * 24 * time.Hour
)

// Client is the subset of the Text-to-Speech API the backend calls
type Client interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest, opts ...gax.CallOption) (*texttospeechpb.ListVoicesResponse, error)
}

// Backend implements speech.Backend with Google Cloud TTS
type Backend struct {
	client Client
	cache  interfaces.Cache
	logger interfaces.Logger

	voicesMu sync.Mutex
	voices   []domain.Voice
}

// NewClient opens a Text-to-Speech client using application default credentials
func NewClient(ctx context.Context) (*texttospeech.Client, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS client: %w", err)
	}
	return client, nil
}

// NewBackend creates a backend. deps.Cache is optional.
func NewBackend(client Client, deps interfaces.Dependencies) *Backend {
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Backend{client: client, cache: deps.Cache, logger: logger}
}

// Synthesize renders the utterance to MP3 audio
func (b *Backend) Synthesize(ctx context.Context, utterance domain.Utterance) ([]byte, error) {
	voice := b.voiceParams(utterance)
	cacheKey := fmt.Sprintf("audio:%s:%s:%s", voice.LanguageCode, voice.Name, domain.HashText(utterance.Text))

	if b.cache != nil {
		if audio, err := b.cache.Get(ctx, cacheKey); err == nil {
			return audio, nil
		}
	}

	var audio bytes.Buffer
	for i, chunk := range splitTextIntoChunks(utterance.Text, maxChunkSize) {
		resp, err := b.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: voice,
			AudioConfig: &texttospeechpb.AudioConfig{
				AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to synthesize chunk %d: %w", i, err)
		}
		audio.Write(resp.AudioContent)
	}

	if b.cache != nil {
		if err := b.cache.Set(ctx, cacheKey, audio.Bytes(), audioCacheTTL); err != nil {
			b.logger.Debug("Failed to cache synthesized audio", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return audio.Bytes(), nil
}

// Voices lists the available voices. A successful list is kept for later calls.
func (b *Backend) Voices(ctx context.Context) ([]domain.Voice, error) {
	b.voicesMu.Lock()
	defer b.voicesMu.Unlock()
	if b.voices != nil {
		return b.voices, nil
	}

	resp, err := b.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	voices := make([]domain.Voice, 0, len(resp.GetVoices()))
	for _, v := range resp.GetVoices() {
		if len(v.GetLanguageCodes()) == 0 {
			continue
		}
		voices = append(voices, domain.Voice{
			Name:     v.GetName(),
			Language: v.GetLanguageCodes()[0],
			Gender:   strings.ToLower(v.GetSsmlGender().String()),
		})
	}
	b.voices = voices
	return voices, nil
}

func (b *Backend) voiceParams(utterance domain.Utterance) *texttospeechpb.VoiceSelectionParams {
	params := &texttospeechpb.VoiceSelectionParams{LanguageCode: utterance.Language}
	if utterance.Voice != nil {
		params.Name = utterance.Voice.Name
		params.LanguageCode = utterance.Voice.Language
	}
	if params.LanguageCode == "" {
		params.LanguageCode = defaultLanguage
	}
	return params
}

// splitTextIntoChunks splits on word boundaries into chunks of at most maxChunkSize bytes
func splitTextIntoChunks(text string, maxChunkSize int) []string {
	var chunks []string
	var chunk string

	for _, word := range strings.Fields(text) {
		if chunk != "" && len(chunk)+len(word)+1 > maxChunkSize {
			chunks = append(chunks, chunk)
			chunk = ""
		}
		if chunk == "" {
			chunk = word
		} else {
			chunk += " " + word
		}
	}
	if chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}
