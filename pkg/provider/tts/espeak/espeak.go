// Package espeak implements a TTS provider on top of the espeak-ng binary.
//
// espeak-ng synthesises and plays speech synchronously, which matches the
// Provider contract exactly: Speak returns when playback finishes. The binary
// must be on PATH; Available reports whether it is, so callers can fall back
// to another provider at wiring time instead of failing per call.
package espeak

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/clarionvoice/clarion/pkg/provider/tts"
)

const defaultBinary = "espeak-ng"

// Provider implements tts.Provider by invoking espeak-ng.
type Provider struct {
	binary string
	voice  string
	speed  int
}

var _ tts.Provider = (*Provider)(nil)

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithBinary overrides the espeak-ng binary name or path.
func WithBinary(path string) Option {
	return func(p *Provider) {
		p.binary = path
	}
}

// WithVoice sets the espeak-ng voice (e.g., "en", "it"). Empty uses the
// espeak-ng default.
func WithVoice(voice string) Option {
	return func(p *Provider) {
		p.voice = voice
	}
}

// WithSpeed sets the speaking rate in words per minute. Zero uses the
// espeak-ng default (175).
func WithSpeed(wpm int) Option {
	return func(p *Provider) {
		p.speed = wpm
	}
}

// New returns a Provider configured with the supplied options.
func New(opts ...Option) *Provider {
	p := &Provider{binary: defaultBinary}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Available reports whether the espeak-ng binary can be found on PATH.
func (p *Provider) Available() bool {
	_, err := exec.LookPath(p.binary)
	return err == nil
}

// Speak runs espeak-ng and waits for playback to complete.
func (p *Provider) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	args := []string{}
	if p.voice != "" {
		args = append(args, "-v", p.voice)
	}
	if p.speed > 0 {
		args = append(args, "-s", strconv.Itoa(p.speed))
	}
	args = append(args, "--", text)

	cmd := exec.CommandContext(ctx, p.binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("espeak: %w: %s", err, out)
	}
	return nil
}
