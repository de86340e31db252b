// Package mock provides a test double for the tts package.
//
// The Provider records every spoken text so tests can assert on what the
// voice loop said and in which order.
package mock

import (
	"context"
	"sync"

	"github.com/clarionvoice/clarion/pkg/provider/tts"
)

// Provider is a mock implementation of tts.Provider.
type Provider struct {
	mu sync.Mutex

	// SpeakErr, if non-nil, is returned as the error from Speak.
	SpeakErr error

	// Spoken records every text passed to Speak, in order.
	Spoken []string
}

// Ensure Provider implements tts.Provider at compile time.
var _ tts.Provider = (*Provider)(nil)

// Speak records text and returns SpeakErr.
func (p *Provider) Speak(ctx context.Context, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Spoken = append(p.Spoken, text)
	return p.SpeakErr
}

// SpokenTexts returns a copy of everything spoken so far. Thread-safe.
func (p *Provider) SpokenTexts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Spoken))
	copy(out, p.Spoken)
	return out
}

// Reset clears all recorded texts. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Spoken = nil
}
