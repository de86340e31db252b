// Package console implements a terminal-backed STT provider: the "speech" is
// a line typed on the attached terminal. Pairs with the console hotword
// provider for fully keyboard-driven no-audio sessions.
package console

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/clarionvoice/clarion/pkg/provider/stt"
)

// Provider implements stt.Provider by reading one line per Listen call.
type Provider struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
}

var _ stt.Provider = (*Provider)(nil)

// New returns a Provider that reads from in. Pass nil to read from stdin.
func New(in io.Reader) *Provider {
	if in == nil {
		in = os.Stdin
	}
	return &Provider{scanner: bufio.NewScanner(in)}
}

// Listen reads the next line, trimmed of surrounding whitespace. The read
// happens on a separate goroutine so the timeout and ctx are honoured even
// though the underlying terminal read cannot be interrupted; a late line is
// delivered to the next Listen call's goroutine, not lost.
func (p *Provider) Listen(ctx context.Context, timeout time.Duration) (string, error) {
	type lineResult struct {
		text string
		err  error
	}
	ch := make(chan lineResult, 1)

	go func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.scanner.Scan() {
			ch <- lineResult{text: strings.TrimSpace(p.scanner.Text())}
			return
		}
		ch <- lineResult{err: p.scanner.Err()}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.text, res.err
	case <-timer.C:
		return "", nil
	case <-ctx.Done():
		return "", nil
	}
}
