// Package console implements a keyboard-driven hotword provider: pressing
// Enter on the attached terminal wakes the assistant. Intended for no-audio
// and development sessions where a real wake-word model is unavailable.
package console

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/clarionvoice/clarion/pkg/provider/hotword"
)

// Provider implements hotword.Provider by reading lines from an input stream.
// Each line (typically an empty one from pressing Enter) counts as one wake.
type Provider struct {
	in io.Reader

	mu      sync.Mutex
	wakes   chan struct{}
	done    chan struct{}
	running bool
}

var _ hotword.Provider = (*Provider)(nil)

// New returns a Provider that reads from in. Pass nil to read from stdin.
func New(in io.Reader) *Provider {
	if in == nil {
		in = os.Stdin
	}
	return &Provider{in: in}
}

// Start spawns the reader goroutine. Safe to call more than once.
func (p *Provider) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	p.running = true
	p.wakes = make(chan struct{}, 1)
	p.done = make(chan struct{})

	go p.readLoop(p.wakes, p.done)
	return nil
}

// Stop signals the reader goroutine to discard further input.
// The goroutine itself may stay blocked on the underlying read until the
// stream produces another line or reaches EOF; it exits at that point.
func (p *Provider) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return nil
	}
	p.running = false
	close(p.done)
	return nil
}

// WaitForHotword blocks until Enter is pressed, the timeout elapses, or ctx
// is cancelled.
func (p *Provider) WaitForHotword(ctx context.Context, timeout time.Duration) (bool, error) {
	p.mu.Lock()
	wakes := p.wakes
	running := p.running
	p.mu.Unlock()
	if !running {
		return false, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-wakes:
		return true, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, nil
	}
}

func (p *Provider) readLoop(wakes chan struct{}, done chan struct{}) {
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		select {
		case <-done:
			return
		case wakes <- struct{}{}:
		default:
			// A wake is already pending; drop the extra keypress.
		}
	}
}
