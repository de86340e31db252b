// Package loop implements the voice interaction loop: wait for the hotword,
// listen for an utterance, route it to an intent, execute the matching skill
// and speak the outcome. The loop owns no providers — they are injected so
// that mock mode and tests can run the full cycle without audio hardware.
package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/clarionvoice/clarion/internal/i18n"
	"github.com/clarionvoice/clarion/internal/intent"
	"github.com/clarionvoice/clarion/internal/memory"
	"github.com/clarionvoice/clarion/internal/observe"
	"github.com/clarionvoice/clarion/internal/skill"
	"github.com/clarionvoice/clarion/pkg/provider/hotword"
	"github.com/clarionvoice/clarion/pkg/provider/stt"
	"github.com/clarionvoice/clarion/pkg/provider/tts"
)

// State is the observable phase of the voice loop.
type State string

const (
	StateIdle      State = "idle"
	StateWaiting   State = "waiting_for_hotword"
	StateListening State = "listening"
	StateRouting   State = "routing"
	StateExecuting State = "executing"
	StateSpeaking  State = "speaking"
	StateStopped   State = "stopped"
)

// errorBackoff is how long the loop pauses after a cycle error before
// waiting for the hotword again.
const errorBackoff = time.Second

// Utterance is the record of one processed utterance.
type Utterance struct {
	Input    string         `json:"input"`
	Intent   string         `json:"intent"`
	Entities map[string]any `json:"entities"`
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data"`

	// Spoken is the text to send to the TTS provider for this record, when
	// any. For unrouted and undispatchable utterances it is the localized
	// fallback phrase while Message keeps the literal reason; for skill
	// results it is the message when the result asks to be spoken.
	Spoken string `json:"-"`
}

// Options configures a [VoiceLoop].
type Options struct {
	Hotword hotword.Provider
	STT     stt.Provider
	TTS     tts.Provider
	Router  *intent.Router
	Skills  *skill.Registry

	// Translator resolves spoken phrases. Required.
	Translator *i18n.Translator

	// Mock propagates into every skill invocation.
	Mock bool

	// SkillConfig propagates into every skill invocation's context.
	SkillConfig map[string]any

	// HotwordTimeout bounds one hotword wait; on timeout the loop re-polls
	// so Stop stays responsive. Default 5s.
	HotwordTimeout time.Duration

	// ListenTimeout bounds one post-hotword listen. Default 10s.
	ListenTimeout time.Duration

	// Store, when non-nil, receives an event per processed utterance.
	Store memory.Store

	// Metrics, when non-nil, receives stage latencies and counters.
	Metrics *observe.Metrics
}

// VoiceLoop orchestrates the hotword → listen → route → execute → speak
// cycle. Create one with [New]; Run blocks until the context is cancelled or
// [VoiceLoop.Stop] is called.
type VoiceLoop struct {
	opts    Options
	session map[string]any

	mu      sync.Mutex
	state   State
	cycles  int64
	handled int64
	stop    chan struct{}
	stopped sync.Once
}

// New validates opts, applies defaults and returns a ready [VoiceLoop].
func New(opts Options) (*VoiceLoop, error) {
	var errs []error
	if opts.Hotword == nil {
		errs = append(errs, errors.New("hotword provider is required"))
	}
	if opts.STT == nil {
		errs = append(errs, errors.New("stt provider is required"))
	}
	if opts.TTS == nil {
		errs = append(errs, errors.New("tts provider is required"))
	}
	if opts.Router == nil {
		errs = append(errs, errors.New("router is required"))
	}
	if opts.Skills == nil {
		errs = append(errs, errors.New("skill registry is required"))
	}
	if opts.Translator == nil {
		errs = append(errs, errors.New("translator is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("loop: %w", err)
	}

	if opts.HotwordTimeout <= 0 {
		opts.HotwordTimeout = 5 * time.Second
	}
	if opts.ListenTimeout <= 0 {
		opts.ListenTimeout = 10 * time.Second
	}

	return &VoiceLoop{
		opts:    opts,
		session: map[string]any{},
		state:   StateIdle,
		stop:    make(chan struct{}),
	}, nil
}

// Run starts the hotword provider and loops until ctx is cancelled or Stop
// is called. A failing cycle is logged, spoken about once and retried; Run
// only returns an error when the loop cannot start at all.
func (l *VoiceLoop) Run(ctx context.Context) error {
	if err := l.opts.Hotword.Start(); err != nil {
		return fmt.Errorf("loop: start hotword provider: %w", err)
	}
	defer func() {
		if err := l.opts.Hotword.Stop(); err != nil {
			slog.Warn("voice loop: hotword stop failed", "err", err)
		}
		l.setState(StateStopped)
	}()

	slog.Info("voice loop: started",
		"mock", l.opts.Mock,
		"hotword_timeout", l.opts.HotwordTimeout,
		"listen_timeout", l.opts.ListenTimeout,
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.stop:
			return nil
		default:
		}

		l.mu.Lock()
		l.cycles++
		l.mu.Unlock()

		if err := l.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Error("voice loop: cycle failed", "err", err)
			l.speak(ctx, l.opts.Translator.T("loop.error"))
			l.pause(ctx, errorBackoff)
		}
	}
}

// RunOnce performs exactly one full cycle: one hotword detection (waiting as
// long as it takes), one utterance, one response.
func (l *VoiceLoop) RunOnce(ctx context.Context) error {
	if err := l.opts.Hotword.Start(); err != nil {
		return fmt.Errorf("loop: start hotword provider: %w", err)
	}
	defer l.opts.Hotword.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		detected, err := l.waitForHotword(ctx)
		if err != nil {
			return err
		}
		if !detected {
			continue
		}
		return l.listenAndHandle(ctx)
	}
}

// cycle runs one iteration of the main loop. A hotword timeout is a normal,
// silent outcome.
func (l *VoiceLoop) cycle(ctx context.Context) error {
	detected, err := l.waitForHotword(ctx)
	if err != nil {
		return err
	}
	if !detected {
		return nil
	}
	return l.listenAndHandle(ctx)
}

func (l *VoiceLoop) waitForHotword(ctx context.Context) (bool, error) {
	l.setState(StateWaiting)
	start := time.Now()
	detected, err := l.opts.Hotword.WaitForHotword(ctx, l.opts.HotwordTimeout)
	l.observeDuration(ctx, observeHotword, time.Since(start))
	if err != nil {
		l.countProviderError(ctx, "hotword")
		return false, fmt.Errorf("wait for hotword: %w", err)
	}
	return detected, nil
}

func (l *VoiceLoop) listenAndHandle(ctx context.Context) error {
	l.setState(StateListening)
	start := time.Now()
	transcript, err := l.opts.STT.Listen(ctx, l.opts.ListenTimeout)
	l.observeDuration(ctx, observeSTT, time.Since(start))
	if err != nil {
		l.countProviderError(ctx, "stt")
		return fmt.Errorf("listen: %w", err)
	}
	if transcript == "" {
		l.countUtterance(ctx, "", "no_speech")
		l.speak(ctx, l.opts.Translator.T("loop.no_speech"))
		return nil
	}

	record := l.ProcessUtterance(ctx, transcript)

	if record.Spoken != "" {
		l.speak(ctx, record.Spoken)
	}
	return nil
}

// ProcessUtterance routes and executes one utterance and returns its record.
// It never fails: unrouted input and skill failures are normal outcomes
// captured in the record. The record is appended to the memory store when
// one is configured.
func (l *VoiceLoop) ProcessUtterance(ctx context.Context, input string) *Utterance {
	l.setState(StateRouting)
	intentName, entities := l.opts.Router.Route(input)

	record := &Utterance{
		Input:    input,
		Intent:   intentName,
		Entities: entities,
		Data:     map[string]any{},
	}

	switch {
	case intentName == "":
		record.Message = "No intent found"
		record.Spoken = l.opts.Translator.T("loop.no_intent")
		l.countUtterance(ctx, "", "no_intent")
	default:
		l.setState(StateExecuting)
		start := time.Now()
		res := l.opts.Skills.Execute(ctx, intentName, entities, &skill.Context{
			UserInput: input,
			Mock:      l.opts.Mock,
			Config:    l.opts.SkillConfig,
			Session:   l.session,
		})
		l.observeSkill(ctx, intentName, time.Since(start))

		if res == nil {
			record.Message = "No skill found for intent"
			record.Spoken = l.opts.Translator.T("loop.no_skill")
			l.countUtterance(ctx, intentName, "no_skill")
		} else {
			record.Success = res.Success
			record.Message = res.Message
			record.Data = res.Data
			if res.Speak {
				record.Spoken = res.Message
			}
			status := "ok"
			if !res.Success {
				status = "failed"
				l.countSkillError(ctx, intentName)
			}
			l.countUtterance(ctx, intentName, status)
		}
	}

	l.mu.Lock()
	l.handled++
	l.mu.Unlock()

	l.persist(ctx, record)
	return record
}

// persist appends the record to the memory store; persistence failures are
// logged, never surfaced into the interaction.
func (l *VoiceLoop) persist(ctx context.Context, record *Utterance) {
	if l.opts.Store == nil {
		return
	}
	ev := &memory.Event{
		Input:    record.Input,
		Intent:   record.Intent,
		Entities: record.Entities,
		Success:  record.Success,
		Message:  record.Message,
		Data:     record.Data,
	}
	if err := l.opts.Store.Append(ctx, ev); err != nil {
		slog.Warn("voice loop: event not persisted", "err", err)
	}
}

// speak sends text to the TTS provider. Speaking failures are logged and
// swallowed so a broken voice never kills the loop.
func (l *VoiceLoop) speak(ctx context.Context, text string) {
	if text == "" {
		return
	}
	l.setState(StateSpeaking)
	start := time.Now()
	err := l.opts.TTS.Speak(ctx, text)
	l.observeDuration(ctx, observeTTS, time.Since(start))
	if err != nil {
		l.countProviderError(ctx, "tts")
		slog.Warn("voice loop: speak failed", "err", err)
	}
}

// Stop makes Run return within one hotword timeout. Safe to call more than
// once and from any goroutine.
func (l *VoiceLoop) Stop() {
	l.stopped.Do(func() {
		close(l.stop)
	})
}

// Status is a snapshot of the loop for the status command.
type Status struct {
	State            State    `json:"state"`
	Mock             bool     `json:"mock"`
	Cycles           int64    `json:"cycles"`
	Handled          int64    `json:"handled"`
	SupportedIntents []string `json:"supported_intents"`
}

// Status returns a point-in-time snapshot.
func (l *VoiceLoop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status{
		State:            l.state,
		Mock:             l.opts.Mock,
		Cycles:           l.cycles,
		Handled:          l.handled,
		SupportedIntents: l.opts.Skills.SupportedIntents(),
	}
}

// State returns the current loop state.
func (l *VoiceLoop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *VoiceLoop) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// pause sleeps for d unless the loop is stopped first.
func (l *VoiceLoop) pause(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-l.stop:
	case <-t.C:
	}
}

// ── Metrics plumbing ─────────────────────────────────────────────────────────

type observeStage int

const (
	observeHotword observeStage = iota
	observeSTT
	observeTTS
)

func (l *VoiceLoop) observeDuration(ctx context.Context, stage observeStage, d time.Duration) {
	m := l.opts.Metrics
	if m == nil {
		return
	}
	secs := d.Seconds()
	switch stage {
	case observeHotword:
		m.HotwordWaitDuration.Record(ctx, secs)
	case observeSTT:
		m.STTDuration.Record(ctx, secs)
	case observeTTS:
		m.TTSDuration.Record(ctx, secs)
	}
}

func (l *VoiceLoop) observeSkill(ctx context.Context, intentName string, d time.Duration) {
	if l.opts.Metrics == nil {
		return
	}
	l.opts.Metrics.SkillDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("skill", intentName)))
}

func (l *VoiceLoop) countUtterance(ctx context.Context, intentName, status string) {
	if l.opts.Metrics == nil {
		return
	}
	l.opts.Metrics.Utterances.Add(ctx, 1, metric.WithAttributes(
		attribute.String("intent", intentName),
		attribute.String("status", status),
	))
}

func (l *VoiceLoop) countSkillError(ctx context.Context, intentName string) {
	if l.opts.Metrics == nil {
		return
	}
	l.opts.Metrics.SkillErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("skill", intentName)))
}

func (l *VoiceLoop) countProviderError(ctx context.Context, kind string) {
	if l.opts.Metrics == nil {
		return
	}
	l.opts.Metrics.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", kind)))
}
