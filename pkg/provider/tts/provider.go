// Package tts defines the Provider interface for text-to-speech backends.
//
// Speech output is fire-and-forget from the pipeline's point of view: the
// voice loop logs Speak errors and moves on, so TTS failures never stall or
// terminate a cycle. Implementations should still return errors faithfully —
// the caller decides that they are non-fatal, not the provider.
//
// Implementations must be safe for concurrent use.
package tts

import "context"

// Provider is the abstraction over any text-to-speech backend.
type Provider interface {
	// Speak synthesises text and plays it, blocking until playback finishes
	// or ctx is cancelled. Speaking an empty string is a no-op.
	Speak(ctx context.Context, text string) error
}
