// Package mock provides a test double for the hotword package.
//
// The Provider triggers deterministically: with AutoTrigger set, the first
// WaitForHotword call after Start reports a detection and subsequent calls
// time out until Start is called again. Use Trigger to arm it manually from
// test code.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/clarionvoice/clarion/pkg/provider/hotword"
)

// WaitCall records a single invocation of Provider.WaitForHotword.
type WaitCall struct {
	// Timeout is the timeout passed to WaitForHotword.
	Timeout time.Duration
}

// Provider is a mock implementation of hotword.Provider.
type Provider struct {
	mu sync.Mutex

	// AutoTrigger arms the provider on Start so the first wait detects the
	// wake phrase. Mirrors a user saying the hotword immediately.
	AutoTrigger bool

	// WaitErr, if non-nil, is returned as the error from WaitForHotword.
	WaitErr error

	// WaitCalls records every call to WaitForHotword.
	WaitCalls []WaitCall

	running   bool
	triggered bool
}

// Ensure Provider implements hotword.Provider at compile time.
var _ hotword.Provider = (*Provider)(nil)

// Start arms the trigger when AutoTrigger is set.
func (p *Provider) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = true
	if p.AutoTrigger {
		p.triggered = true
	}
	return nil
}

// Stop clears the running flag and any pending trigger.
func (p *Provider) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	p.triggered = false
	return nil
}

// Trigger arms the provider so the next WaitForHotword reports a detection.
func (p *Provider) Trigger() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggered = true
}

// WaitForHotword records the call and consumes a pending trigger if present.
// The trigger resets after one detection, matching a real one-shot wake.
func (p *Provider) WaitForHotword(ctx context.Context, timeout time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.WaitCalls = append(p.WaitCalls, WaitCall{Timeout: timeout})
	if p.WaitErr != nil {
		return false, p.WaitErr
	}
	if err := ctx.Err(); err != nil {
		return false, nil
	}
	if p.running && p.triggered {
		p.triggered = false
		return true, nil
	}
	return false, nil
}

// Reset clears all recorded calls and state. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.WaitCalls = nil
	p.running = false
	p.triggered = false
}
