package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	sttmock "github.com/clarionvoice/clarion/pkg/provider/stt/mock"
	ttsmock "github.com/clarionvoice/clarion/pkg/provider/tts/mock"
)

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	b := NewCircuitBreaker(BreakerConfig{Name: "test", MaxFailures: 2, ResetTimeout: time.Hour})
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if err := b.Do(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("Do %d: got %v, want boom", i, err)
		}
	}
	if got := b.State(); got != StateOpen {
		t.Fatalf("state: got %v, want open", got)
	}

	called := false
	err := b.Do(func() error { called = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Do while open: got %v, want ErrCircuitOpen", err)
	}
	if called {
		t.Error("fn ran while the breaker was open")
	}
}

func TestCircuitBreaker_RecoversAfterReset(t *testing.T) {
	b := NewCircuitBreaker(BreakerConfig{MaxFailures: 1, ResetTimeout: 10 * time.Millisecond})
	b.Do(func() error { return errors.New("boom") })
	if got := b.State(); got != StateOpen {
		t.Fatalf("state: got %v, want open", got)
	}

	time.Sleep(20 * time.Millisecond)
	if got := b.State(); got != StateHalfOpen {
		t.Fatalf("state after reset timeout: got %v, want half-open", got)
	}

	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if got := b.State(); got != StateClosed {
		t.Errorf("state after successful probe: got %v, want closed", got)
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	b := NewCircuitBreaker(BreakerConfig{MaxFailures: 1, ResetTimeout: 10 * time.Millisecond})
	b.Do(func() error { return errors.New("boom") })
	time.Sleep(20 * time.Millisecond)

	b.Do(func() error { return errors.New("still down") })
	if got := b.State(); got != StateOpen {
		t.Errorf("state after failed probe: got %v, want open", got)
	}
}

func TestChain_FallsBack(t *testing.T) {
	c := NewChain("primary", 1, BreakerConfig{ResetTimeout: time.Hour})
	c.Add("secondary", 2)

	boom := errors.New("boom")
	got, err := Try(c, func(v int) (int, error) {
		if v == 1 {
			return 0, boom
		}
		return v * 10, nil
	})
	if err != nil {
		t.Fatalf("Try: %v", err)
	}
	if got != 20 {
		t.Errorf("result: got %d, want 20", got)
	}
}

func TestChain_AllFailed(t *testing.T) {
	c := NewChain("only", "p", BreakerConfig{})
	_, err := Try(c, func(string) (int, error) { return 0, errors.New("down") })
	if !errors.Is(err, ErrAllFailed) {
		t.Errorf("Try: got %v, want ErrAllFailed", err)
	}
}

func TestChain_SkipsOpenBreaker(t *testing.T) {
	c := NewChain("flaky", "a", BreakerConfig{MaxFailures: 1, ResetTimeout: time.Hour})
	c.Add("steady", "b")

	calls := map[string]int{}
	fn := func(v string) (string, error) {
		calls[v]++
		if v == "a" {
			return "", errors.New("down")
		}
		return v, nil
	}

	for i := 0; i < 3; i++ {
		if _, err := Try(c, fn); err != nil {
			t.Fatalf("Try %d: %v", i, err)
		}
	}
	// The first call trips the breaker; later rounds skip the flaky entry.
	if calls["a"] != 1 {
		t.Errorf("flaky calls: got %d, want 1", calls["a"])
	}
	if calls["b"] != 3 {
		t.Errorf("steady calls: got %d, want 3", calls["b"])
	}
}

func TestSTTChain_Failover(t *testing.T) {
	primary := &sttmock.Provider{ListenErr: errors.New("mic broken")}
	fallback := &sttmock.Provider{Transcript: "hello"}

	chain := NewSTTChain("primary", primary, BreakerConfig{ResetTimeout: time.Hour})
	chain.Add("fallback", fallback)

	got, err := chain.Listen(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if got != "hello" {
		t.Errorf("transcript: got %q, want %q", got, "hello")
	}
	if len(primary.ListenCalls) != 1 || len(fallback.ListenCalls) != 1 {
		t.Errorf("calls: primary=%d fallback=%d, want 1 each",
			len(primary.ListenCalls), len(fallback.ListenCalls))
	}
}

func TestTTSChain_Failover(t *testing.T) {
	primary := &ttsmock.Provider{SpeakErr: errors.New("speaker broken")}
	fallback := &ttsmock.Provider{}

	chain := NewTTSChain("primary", primary, BreakerConfig{ResetTimeout: time.Hour})
	chain.Add("fallback", fallback)

	if err := chain.Speak(context.Background(), "hi"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if got := fallback.SpokenTexts(); len(got) != 1 || got[0] != "hi" {
		t.Errorf("fallback spoken: got %v", got)
	}
}
