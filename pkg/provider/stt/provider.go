// Package stt defines the Provider interface for speech-to-text backends.
//
// The voice loop consumes STT through a single blocking call: Listen captures
// one utterance (however the implementation acquires audio) and returns the
// transcript. An empty transcript with a nil error means nothing intelligible
// was heard within the timeout — an expected outcome, handled by the loop's
// "didn't hear" path rather than the error path.
//
// Implementations must be safe for concurrent use.
package stt

import (
	"context"
	"time"
)

// Provider is the abstraction over any speech-to-text backend.
type Provider interface {
	// Listen captures speech and returns the transcribed text. It blocks for
	// at most timeout (or until ctx is cancelled) and returns "" with a nil
	// error when no speech was captured. A non-nil error indicates a backend
	// fault — an unreachable transcription server, a failed audio source —
	// and is logged by the caller, which then continues its loop.
	Listen(ctx context.Context, timeout time.Duration) (string, error)
}
