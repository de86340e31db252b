// Package openai provides an STT provider backed by the OpenAI audio
// transcription API.
//
// Like the whisper provider, it works in one-shot mode: each Listen call
// pulls a WAV-encoded utterance from the injected audio source and submits
// it for transcription. Audio capture stays outside this package.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/clarionvoice/clarion/pkg/provider/stt"
)

// DefaultModel is the default OpenAI transcription model.
const DefaultModel = oai.AudioModelWhisper1

// Source supplies one WAV-encoded utterance per call, recording for at most
// the given duration. Returning an empty slice with a nil error means no
// speech was captured.
type Source func(ctx context.Context, maxDuration time.Duration) ([]byte, error)

// Ensure Provider implements the stt.Provider interface.
var _ stt.Provider = (*Provider)(nil)

// Provider implements stt.Provider using the OpenAI API.
type Provider struct {
	client oai.Client
	model  string
	lang   string
	source Source
}

// config holds optional configuration for the provider.
type config struct {
	baseURL  string
	timeout  time.Duration
	language string
	source   Source
}

// Option is a functional option for Provider.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithLanguage sets the ISO-639-1 language hint (e.g., "en", "it").
func WithLanguage(lang string) Option {
	return func(c *config) {
		c.language = lang
	}
}

// WithSource sets the audio source the provider pulls utterances from.
// Without a source, Listen returns "" for every call.
func WithSource(src Source) Option {
	return func(c *config) {
		c.source = src
	}
}

// New constructs a new OpenAI STT Provider.
// If model is empty, DefaultModel (whisper-1) is used.
func New(apiKey string, model string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai stt: apiKey must not be empty")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	client := oai.NewClient(reqOpts...)
	return &Provider{client: client, model: model, lang: cfg.language, source: cfg.source}, nil
}

// Listen captures one utterance from the source and transcribes it.
func (p *Provider) Listen(ctx context.Context, timeout time.Duration) (string, error) {
	if p.source == nil {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wav, err := p.source(ctx, timeout)
	if err != nil {
		return "", fmt.Errorf("openai stt: capture: %w", err)
	}
	if len(wav) == 0 {
		return "", nil
	}
	return p.Transcribe(ctx, wav)
}

// Transcribe submits a complete WAV-encoded utterance and returns the
// recognised text, trimmed of surrounding whitespace.
func (p *Provider) Transcribe(ctx context.Context, wav []byte) (string, error) {
	params := oai.AudioTranscriptionNewParams{
		Model: p.model,
		File:  oai.File(bytes.NewReader(wav), "utterance.wav", "audio/wav"),
	}
	if p.lang != "" {
		params.Language = param.NewOpt(p.lang)
	}

	resp, err := p.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai stt: transcribe: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
