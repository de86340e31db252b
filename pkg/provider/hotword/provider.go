// Package hotword defines the Provider interface for wake-phrase detection
// backends.
//
// A hotword provider wraps whatever mechanism wakes the assistant — an
// on-device wake-word model, a push-to-talk key, or a test double — behind a
// polling interface. The voice loop calls WaitForHotword repeatedly with its
// configured timeout; a false return with a nil error simply means "nothing
// yet, poll again".
//
// Implementations must be safe for concurrent use.
package hotword

import (
	"context"
	"time"
)

// Provider is the abstraction over any wake-phrase detection backend.
type Provider interface {
	// Start begins detection (opens audio devices, loads models, spawns
	// background goroutines). It must be called before WaitForHotword.
	// Calling Start on an already-started provider is a no-op.
	Start() error

	// Stop halts detection and releases resources. After Stop,
	// WaitForHotword returns false immediately. Stop is idempotent.
	Stop() error

	// WaitForHotword blocks until the wake phrase is detected, the timeout
	// elapses, or ctx is cancelled. It returns (true, nil) on detection and
	// (false, nil) on timeout — a timeout is an expected outcome, not an
	// error. A non-nil error indicates a provider fault (for example a lost
	// audio device); callers should log it and keep polling.
	WaitForHotword(ctx context.Context, timeout time.Duration) (bool, error)
}
