// Package mock provides a test double for the stt package.
//
// The Provider returns a fixed transcript (or a scripted sequence) and
// records every Listen call so tests can assert on timeouts and call counts.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/clarionvoice/clarion/pkg/provider/stt"
)

// ListenCall records a single invocation of Provider.Listen.
type ListenCall struct {
	// Timeout is the timeout passed to Listen.
	Timeout time.Duration
}

// Provider is a mock implementation of stt.Provider.
type Provider struct {
	mu sync.Mutex

	// Transcript is returned by every Listen call when Transcripts is empty.
	Transcript string

	// Transcripts, when non-empty, is consumed one entry per Listen call;
	// once exhausted, Listen returns "".
	Transcripts []string

	// ListenErr, if non-nil, is returned as the error from Listen.
	ListenErr error

	// ListenCalls records every call to Listen.
	ListenCalls []ListenCall
}

// Ensure Provider implements stt.Provider at compile time.
var _ stt.Provider = (*Provider)(nil)

// Listen records the call and returns the configured transcript.
func (p *Provider) Listen(ctx context.Context, timeout time.Duration) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ListenCalls = append(p.ListenCalls, ListenCall{Timeout: timeout})
	if p.ListenErr != nil {
		return "", p.ListenErr
	}
	if len(p.Transcripts) > 0 {
		next := p.Transcripts[0]
		p.Transcripts = p.Transcripts[1:]
		return next, nil
	}
	return p.Transcript, nil
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ListenCalls = nil
}
