// Package console implements a TTS provider that prints instead of speaking.
// Used in no-audio and mock sessions so the assistant's replies stay visible.
package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/clarionvoice/clarion/pkg/provider/tts"
)

// Provider implements tts.Provider by writing "[tts] <text>" lines.
type Provider struct {
	out io.Writer
}

var _ tts.Provider = (*Provider)(nil)

// New returns a Provider writing to out. Pass nil to write to stdout.
func New(out io.Writer) *Provider {
	if out == nil {
		out = os.Stdout
	}
	return &Provider{out: out}
}

// Speak prints the text.
func (p *Provider) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintf(p.out, "[tts] %s\n", text)
	return err
}
