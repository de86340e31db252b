package console

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestWaitForHotword_WakesOnLine(t *testing.T) {
	p := New(strings.NewReader("\n"))
	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Stop()

	ok, err := p.WaitForHotword(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("WaitForHotword: %v", err)
	}
	if !ok {
		t.Error("got timeout, want detection")
	}
}

func TestWaitForHotword_TimesOut(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := New(r)
	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Stop()

	ok, err := p.WaitForHotword(context.Background(), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForHotword: %v", err)
	}
	if ok {
		t.Error("got detection, want timeout")
	}
}

func TestWaitForHotword_NotStarted(t *testing.T) {
	p := New(strings.NewReader("\n"))
	ok, err := p.WaitForHotword(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("WaitForHotword: %v", err)
	}
	if ok {
		t.Error("got detection before Start")
	}
}

func TestStop_Idempotent(t *testing.T) {
	p := New(strings.NewReader(""))
	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestExtraKeypressesAreCoalesced(t *testing.T) {
	p := New(strings.NewReader("\n\n\n"))
	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Stop()

	// The buffered wake channel holds at most one pending wake.
	for i := 0; i < 2; i++ {
		if ok, _ := p.WaitForHotword(context.Background(), 50*time.Millisecond); !ok {
			// At least the first wait must succeed.
			if i == 0 {
				t.Fatal("first wait timed out")
			}
		}
	}
}
