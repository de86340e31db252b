package resilience

import (
	"context"
	"time"

	"github.com/clarionvoice/clarion/pkg/provider/stt"
	"github.com/clarionvoice/clarion/pkg/provider/tts"
)

// STTChain implements [stt.Provider] with automatic failover across multiple
// speech-to-text backends.
type STTChain struct {
	chain *Chain[stt.Provider]
}

var _ stt.Provider = (*STTChain)(nil)

// NewSTTChain creates an [STTChain] with primary as the preferred backend.
func NewSTTChain(primaryName string, primary stt.Provider, cfg BreakerConfig) *STTChain {
	return &STTChain{chain: NewChain(primaryName, primary, cfg)}
}

// Add registers an additional STT backend.
func (s *STTChain) Add(name string, p stt.Provider) {
	s.chain.Add(name, p)
}

// Listen transcribes through the first healthy backend. An empty transcript
// is a valid outcome and does not trigger failover.
func (s *STTChain) Listen(ctx context.Context, timeout time.Duration) (string, error) {
	return Try(s.chain, func(p stt.Provider) (string, error) {
		return p.Listen(ctx, timeout)
	})
}

// TTSChain implements [tts.Provider] with automatic failover across multiple
// text-to-speech backends.
type TTSChain struct {
	chain *Chain[tts.Provider]
}

var _ tts.Provider = (*TTSChain)(nil)

// NewTTSChain creates a [TTSChain] with primary as the preferred backend.
func NewTTSChain(primaryName string, primary tts.Provider, cfg BreakerConfig) *TTSChain {
	return &TTSChain{chain: NewChain(primaryName, primary, cfg)}
}

// Add registers an additional TTS backend.
func (t *TTSChain) Add(name string, p tts.Provider) {
	t.chain.Add(name, p)
}

// Speak speaks through the first healthy backend.
func (t *TTSChain) Speak(ctx context.Context, text string) error {
	_, err := Try(t.chain, func(p tts.Provider) (struct{}, error) {
		return struct{}{}, p.Speak(ctx, text)
	})
	return err
}
